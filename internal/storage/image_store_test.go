package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir)

	// "ZmFrZS1pbWFnZS1ieXRlcw==" decodes to "fake-image-bytes".
	ref, err := store.Save("data:image/png;base64,ZmFrZS1pbWFnZS1ieXRlcw==")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(ref))

	raw, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(t, err)
	assert.Equal(t, "fake-image-bytes", string(raw))
}

func TestImageStoreSave_MimeExtension(t *testing.T) {
	store := NewImageStore(t.TempDir())

	ref, err := store.Save("data:image/jpeg;base64,ZmFrZS1pbWFnZS1ieXRlcw==")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(ref))

	// Unknown mime falls back to png.
	ref, err = store.Save("data:image/bmp;base64,ZmFrZS1pbWFnZS1ieXRlcw==")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(ref))
}

func TestImageStoreSave_BarePayload(t *testing.T) {
	store := NewImageStore(t.TempDir())

	ref, err := store.Save("ZmFrZS1pbWFnZS1ieXRlcw==")
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
}

func TestImageStoreSave_Invalid(t *testing.T) {
	store := NewImageStore(t.TempDir())

	_, err := store.Save("")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = store.Save("data:image/png;base64,@@@not-base64@@@")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = store.Save("data:image/png;base64,")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestImageStoreRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir)

	ref, err := store.Save("ZmFrZS1pbWFnZS1ieXRlcw==")
	require.NoError(t, err)

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(filepath.Join(dir, ref))
	assert.True(t, os.IsNotExist(err))

	// Removing again, or removing nothing, is not an error.
	assert.NoError(t, store.Remove(ref))
	assert.NoError(t, store.Remove(""))
}
