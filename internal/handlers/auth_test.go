package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mlebedeva/foodgram-api/internal/dto"
	"github.com/mlebedeva/foodgram-api/internal/middleware"
	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/mlebedeva/foodgram-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	handler := NewAuthHandler(services.NewAuthService(repository.NewUserRepository(db)))

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.POST("/api/auth/signup", handler.Signup)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), handler.GetCurrentUser)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	r := setupAuthRouter(t)

	signupBody := gin.H{
		"email":      "vera@example.com",
		"username":   "vera",
		"first_name": "Vera",
		"last_name":  "Pavlova",
		"password":   "correct-horse",
	}

	w := postJSON(t, r, "/api/auth/signup", signupBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "vera", created.Username)
	assert.NotZero(t, created.ID)

	// Signing up the same username again conflicts.
	w = postJSON(t, r, "/api/auth/signup", signupBody, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, r, "/api/auth/login", gin.H{"username": "vera", "password": "correct-horse"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	authCookies := w.Result().Cookies()
	require.NotEmpty(t, authCookies)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range authCookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)

	var current dto.UserDTO
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &current))
	assert.Equal(t, created.ID, current.ID)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(t, r, "/api/auth/signup", gin.H{
		"email":      "vera@example.com",
		"username":   "vera",
		"first_name": "Vera",
		"last_name":  "Pavlova",
		"password":   "correct-horse",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", gin.H{"username": "vera", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentUser_Unauthenticated(t *testing.T) {
	r := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
