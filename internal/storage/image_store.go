package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyImage   = errors.New("image payload is empty")
	ErrInvalidImage = errors.New("image payload is not valid base64 data")
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore persists inline base64 image payloads as files and hands back
// opaque references relative to the media root.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// Save decodes a "data:<mime>;base64,<data>" payload (or bare base64) and
// writes it under a random file name. Returns the stored reference.
func (s *ImageStore) Save(payload string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", ErrEmptyImage
	}

	mime := "image/png"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		header, rest, found := strings.Cut(payload, ",")
		if !found {
			return "", ErrInvalidImage
		}
		mime = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		data = rest
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", ErrInvalidImage
	}
	if len(raw) == 0 {
		return "", ErrEmptyImage
	}

	ext, ok := extensions[mime]
	if !ok {
		ext = ".png"
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return name, nil
}

// Remove deletes a stored image. Missing files are not an error: the
// reference may point at an image that was already cleaned up.
func (s *ImageStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
