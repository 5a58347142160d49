package services

import (
	"testing"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Subscription{}))

	service := NewUserService(
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
	)
	return db, service
}

func TestGetProfile(t *testing.T) {
	db, service := setupUserTest(t)
	viewer := seedUser(t, db, "viewer")
	author := seedUser(t, db, "author")
	require.NoError(t, db.Create(&models.Subscription{AuthorID: author.ID, SubscriberID: viewer.ID}).Error)

	user, isSubscribed, err := service.GetProfile(author.ID, &viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", user.Username)
	assert.True(t, isSubscribed)

	// Anonymous viewers always read false.
	_, isSubscribed, err = service.GetProfile(author.ID, nil)
	require.NoError(t, err)
	assert.False(t, isSubscribed)

	_, _, err = service.GetProfile(9999, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	db, service := setupUserTest(t)
	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	require.NoError(t, db.Create(&models.Subscription{AuthorID: alice.ID, SubscriberID: viewer.ID}).Error)

	users, subscribed, total, err := service.ListUsers(&viewer.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 3)

	// Ordered by username.
	assert.Equal(t, "alice", users[0].Username)
	assert.True(t, subscribed[alice.ID])
	assert.False(t, subscribed[viewer.ID])
}
