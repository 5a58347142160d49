package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mlebedeva/foodgram-api/internal/dto"
	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/mlebedeva/foodgram-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type subscriptionTestStack struct {
	db     *gorm.DB
	router *gin.Engine
	reader *models.User
	author *models.User
}

func setupSubscriptionRouter(t *testing.T) *subscriptionTestStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	handler := NewSubscriptionHandler(services.NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		repository.NewRecipeRepository(db),
	))

	reader := &models.User{Username: "reader", Email: "reader@example.com", PasswordHash: "hash"}
	author := &models.User{Username: "author", Email: "author@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(reader).Error)
	require.NoError(t, db.Create(author).Error)

	r := gin.New()
	users := r.Group("/api/users", setAuth(reader.ID))
	{
		users.GET("/subscriptions", handler.ListSubscriptions)
		users.POST("/:id/subscribe", handler.Subscribe)
		users.DELETE("/:id/subscribe", handler.Unsubscribe)
	}

	return &subscriptionTestStack{db: db, router: r, reader: reader, author: author}
}

func (s *subscriptionTestStack) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestSubscribeEndpoints(t *testing.T) {
	s := setupSubscriptionRouter(t)
	path := fmt.Sprintf("/api/users/%d/subscribe", s.author.ID)

	w := s.do(t, http.MethodPost, path)
	require.Equal(t, http.StatusCreated, w.Code)

	// Subscribing twice conflicts; so does following yourself.
	w = s.do(t, http.MethodPost, path)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", s.reader.ID))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodDelete, path)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, path)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/users/9999/subscribe")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSubscriptionsEndpoint(t *testing.T) {
	s := setupSubscriptionRouter(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.db.Create(&models.Recipe{
			AuthorID:    &s.author.ID,
			Name:        fmt.Sprintf("recipe-%d", i),
			Image:       "img.png",
			Text:        "text",
			CookingTime: 5,
		}).Error)
	}

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", s.author.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.SubscriptionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Authors, 1)

	entry := list.Authors[0]
	assert.Equal(t, "author", entry.Username)
	assert.True(t, entry.IsSubscribed)
	assert.Len(t, entry.Recipes, 2)
	assert.EqualValues(t, 4, entry.RecipesCount)

	w = s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=oops")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
