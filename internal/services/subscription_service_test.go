package services

import (
	"fmt"
	"testing"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSubscriptionTest(t *testing.T) (*gorm.DB, *SubscriptionService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	))

	service := NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		repository.NewRecipeRepository(db),
	)
	return db, service
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSubscribe(t *testing.T) {
	db, service := setupSubscriptionTest(t)
	reader := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")

	sub, err := service.Subscribe(reader.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, sub.AuthorID)
	assert.Equal(t, reader.ID, sub.SubscriberID)

	_, err = service.Subscribe(reader.ID, author.ID)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestSubscribe_Self(t *testing.T) {
	db, service := setupSubscriptionTest(t)
	reader := seedUser(t, db, "reader")

	_, err := service.Subscribe(reader.ID, reader.ID)
	assert.ErrorIs(t, err, ErrSelfSubscription)
}

func TestSubscribe_UnknownAuthor(t *testing.T) {
	db, service := setupSubscriptionTest(t)
	reader := seedUser(t, db, "reader")

	_, err := service.Subscribe(reader.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnsubscribe(t *testing.T) {
	db, service := setupSubscriptionTest(t)
	reader := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")

	_, err := service.Subscribe(reader.ID, author.ID)
	require.NoError(t, err)

	require.NoError(t, service.Unsubscribe(reader.ID, author.ID))

	err = service.Unsubscribe(reader.ID, author.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestListSubscriptions_RecipesLimit(t *testing.T) {
	db, service := setupSubscriptionTest(t)
	reader := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Recipe{
			AuthorID:    &author.ID,
			Name:        fmt.Sprintf("recipe-%d", i),
			Image:       "img.png",
			Text:        "text",
			CookingTime: 5,
		}).Error)
	}

	_, err := service.Subscribe(reader.ID, author.ID)
	require.NoError(t, err)

	authors, total, err := service.ListSubscriptions(reader.ID, 3, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, authors, 1)

	// The embedded list is capped, the count is not.
	assert.Len(t, authors[0].Recipes, 3)
	assert.EqualValues(t, 5, authors[0].RecipesCount)

	// Zero limit means no cap.
	authors, _, err = service.ListSubscriptions(reader.ID, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Len(t, authors[0].Recipes, 5)
}
