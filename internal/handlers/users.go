package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mlebedeva/foodgram-api/internal/dto"
	apierrors "github.com/mlebedeva/foodgram-api/internal/errors"
	"github.com/mlebedeva/foodgram-api/internal/middleware"
	"github.com/mlebedeva/foodgram-api/internal/services"
	"github.com/mlebedeva/foodgram-api/internal/utils"
)

// UserHandler serves public user profiles
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns a page of users with viewer-relative is_subscribed
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	viewerID := middleware.ViewerID(c)

	users, subscribed, total, err := h.userService.ListUsers(viewerID, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	userDTOs := make([]dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToUserDTO(user, subscribed[user.ID])
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Users:      userDTOs,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalCount: total,
	})
}

// GetUser returns one user's public profile
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, isSubscribed, err := h.userService.GetProfile(userID, middleware.ViewerID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user, isSubscribed))
}
