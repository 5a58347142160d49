package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mlebedeva/foodgram-api/internal/errors"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"gorm.io/gorm"
)

// IngredientHandler serves the read-only ingredient reference data
type IngredientHandler struct {
	catalogRepo repository.CatalogRepository
}

// NewIngredientHandler creates a new IngredientHandler
func NewIngredientHandler(catalogRepo repository.CatalogRepository) *IngredientHandler {
	return &IngredientHandler{
		catalogRepo: catalogRepo,
	}
}

// ListIngredients returns ingredients, optionally filtered by a
// case-insensitive name prefix (?name=).
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogRepo.ListIngredients(c.Query("name"))
	if err != nil {
		apierrors.InternalError(c, "Failed to list ingredients")
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient returns one ingredient by ID
func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ingredient ID")
		return
	}

	ingredient, err := h.catalogRepo.FindIngredientByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Ingredient not found")
			return
		}
		apierrors.InternalError(c, "Failed to load ingredient")
		return
	}

	c.JSON(http.StatusOK, ingredient)
}
