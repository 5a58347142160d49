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

// SubscriptionHandler serves the follow/unfollow endpoints and the
// subscriptions listing.
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Subscribe makes the caller follow the author in the URL
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	authorID, ok := authorIDParam(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Subscribe(userID, authorID)
	if err != nil {
		respondSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Unsubscribe removes the caller's follow of the author in the URL
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	authorID, ok := authorIDParam(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Unsubscribe(userID, authorID); err != nil {
		respondSubscriptionError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the authors the caller follows, each with
// their recipes (capped by ?recipes_limit=) and total recipe count.
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	recipesLimit := 0
	if limitStr := c.Query("recipes_limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			apierrors.BadRequest(c, "Invalid recipes_limit")
			return
		}
		recipesLimit = limit
	}

	authors, total, err := h.subscriptionService.ListSubscriptions(userID, recipesLimit, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list subscriptions")
		return
	}

	authorDTOs := make([]dto.SubscriptionAuthorDTO, len(authors))
	for i, author := range authors {
		authorDTOs[i] = dto.ToSubscriptionAuthorDTO(author.Author, author.Recipes, author.RecipesCount)
	}

	c.JSON(http.StatusOK, dto.SubscriptionListResponse{
		Authors:    authorDTOs,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalCount: total,
	})
}

func authorIDParam(c *gin.Context) (uint64, bool) {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}
	return authorID, true
}

func respondSubscriptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSubscriptionNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSelfSubscription),
		errors.Is(err, services.ErrAlreadySubscribed):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
