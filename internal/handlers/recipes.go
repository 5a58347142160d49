package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mlebedeva/foodgram-api/internal/constants"
	"github.com/mlebedeva/foodgram-api/internal/dto"
	apierrors "github.com/mlebedeva/foodgram-api/internal/errors"
	"github.com/mlebedeva/foodgram-api/internal/middleware"
	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/mlebedeva/foodgram-api/internal/services"
	"github.com/mlebedeva/foodgram-api/internal/utils"
)

// RecipeHandler coordinates the recipe endpoints: CRUD, the favorite and
// shopping-cart toggles, and the shopping-list download.
type RecipeHandler struct {
	recipeService       *services.RecipeService
	collectionService   *services.CollectionService
	shoppingListService *services.ShoppingListService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService *services.RecipeService, collectionService *services.CollectionService, shoppingListService *services.ShoppingListService) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		collectionService:   collectionService,
		shoppingListService: shoppingListService,
	}
}

// IngredientLineRequest is the wire shape of one ingredient line
type IngredientLineRequest struct {
	ID     uint64 `json:"id" binding:"required"`
	Amount int    `json:"amount"`
}

func toLineInputs(lines []IngredientLineRequest) []services.IngredientLineInput {
	inputs := make([]services.IngredientLineInput, len(lines))
	for i, line := range lines {
		inputs[i] = services.IngredientLineInput{ID: line.ID, Amount: line.Amount}
	}
	return inputs
}

// ListRecipes returns recipes matching the query filters. Anonymous
// callers may list; is_favorited/is_in_shopping_cart only ever restrict to
// the caller's own sets.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListRecipesInput{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      isTruthy(c.Query("is_favorited")),
		IsInShoppingCart: isTruthy(c.Query("is_in_shopping_cart")),
		ViewerID:         middleware.ViewerID(c),
		Page:             params.Page,
		PageSize:         params.Limit,
	}

	if authorStr := c.Query("author"); authorStr != "" {
		authorID, err := strconv.ParseUint(authorStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid author ID")
			return
		}
		input.AuthorID = &authorID
	}

	recipes, total, annotations, err := h.recipeService.ListRecipes(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to list recipes")
		return
	}

	recipeDTOs := make([]dto.RecipeDTO, len(recipes))
	for i, recipe := range recipes {
		recipeDTOs[i] = dto.ToRecipeDTO(recipe, viewerFlags(recipe, annotations))
	}

	c.JSON(http.StatusOK, dto.RecipeListResponse{
		Recipes:    recipeDTOs,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalCount: total,
	})
}

// GetRecipe returns one recipe's read projection
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	recipe, annotations, err := h.recipeService.GetRecipe(recipeID, middleware.ViewerID(c))
	if err != nil {
		respondRecipeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecipeDTO(*recipe, viewerFlags(*recipe, annotations)))
}

// CreateRecipe creates a recipe authored by the caller
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateRecipeRequest struct {
		Name        string                  `json:"name" binding:"required"`
		Text        string                  `json:"text" binding:"required"`
		CookingTime int                     `json:"cooking_time"`
		Image       string                  `json:"image"`
		Tags        []uint64                `json:"tags"`
		Ingredients []IngredientLineRequest `json:"ingredients"`
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	recipe, err := h.recipeService.CreateRecipe(services.CreateRecipeInput{
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		TagIDs:      req.Tags,
		Ingredients: toLineInputs(req.Ingredients),
	})
	if err != nil {
		respondRecipeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecipeDTO(*recipe, dto.ViewerFlags{}))
}

// UpdateRecipe applies the strict replace-all update; author only
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	type UpdateRecipeRequest struct {
		Name        *string                 `json:"name"`
		Text        *string                 `json:"text"`
		CookingTime *int                    `json:"cooking_time"`
		Image       *string                 `json:"image"`
		Tags        []uint64                `json:"tags"`
		Ingredients []IngredientLineRequest `json:"ingredients"`
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(recipeID, userID, services.UpdateRecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		TagIDs:      req.Tags,
		Ingredients: toLineInputs(req.Ingredients),
	})
	if err != nil {
		respondRecipeError(c, err)
		return
	}

	annotations, getErr := h.annotationsFor(c, *recipe)
	if getErr != nil {
		apierrors.InternalError(c, "Failed to load recipe state")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecipeDTO(*recipe, viewerFlags(*recipe, annotations)))
}

// DeleteRecipe removes a recipe; author only
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(recipeID, userID); err != nil {
		respondRecipeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Favorite adds the recipe to the caller's favorites
func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addToCollection(c, repository.CollectionFavorites)
}

// Unfavorite removes the recipe from the caller's favorites
func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeFromCollection(c, repository.CollectionFavorites)
}

// AddToCart adds the recipe to the caller's shopping cart
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addToCollection(c, repository.CollectionShoppingCart)
}

// RemoveFromCart removes the recipe from the caller's shopping cart
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeFromCollection(c, repository.CollectionShoppingCart)
}

// DownloadShoppingCart serves the consolidated shopping list as a
// plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	report, err := h.shoppingListService.Generate(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate shopping list")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", constants.ShoppingCartFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

func (h *RecipeHandler) addToCollection(c *gin.Context, kind repository.CollectionKind) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.collectionService.Add(userID, kind, recipeID)
	if err != nil {
		respondRecipeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMiniRecipeDTO(*recipe))
}

func (h *RecipeHandler) removeFromCollection(c *gin.Context, kind repository.CollectionKind) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	if err := h.collectionService.Remove(userID, kind, recipeID); err != nil {
		respondRecipeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) annotationsFor(c *gin.Context, recipe models.Recipe) (services.ViewerAnnotations, error) {
	_, annotations, err := h.recipeService.GetRecipe(recipe.ID, middleware.ViewerID(c))
	return annotations, err
}

func recipeIDParam(c *gin.Context) (uint64, bool) {
	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid recipe ID")
		return 0, false
	}
	return recipeID, true
}

func viewerFlags(recipe models.Recipe, annotations services.ViewerAnnotations) dto.ViewerFlags {
	favorited, inCart, authorSubscribed := annotations.Flags(recipe)
	return dto.ViewerFlags{
		IsFavorited:        favorited,
		IsInShoppingCart:   inCart,
		AuthorIsSubscribed: authorSubscribed,
	}
}

func isTruthy(value string) bool {
	return value == "1" || value == "true" || value == "True"
}

func respondRecipeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoTags),
		errors.Is(err, services.ErrDuplicateTag),
		errors.Is(err, services.ErrUnknownTag),
		errors.Is(err, services.ErrNoIngredients),
		errors.Is(err, services.ErrDuplicateIngredient),
		errors.Is(err, services.ErrUnknownIngredient),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidCookingTime),
		errors.Is(err, services.ErrImageRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrRecipeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRecipeAuthor):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyInCollection),
		errors.Is(err, services.ErrNotInCollection):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
