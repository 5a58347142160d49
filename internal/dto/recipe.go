package dto

import (
	"time"

	"github.com/mlebedeva/foodgram-api/internal/models"
)

// RecipeIngredientDTO is one ingredient line in the read projection
type RecipeIngredientDTO struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeDTO is the full read projection of a recipe
type RecipeDTO struct {
	ID               uint64                `json:"id"`
	Tags             []models.Tag          `json:"tags"`
	Author           *UserDTO              `json:"author"`
	Ingredients      []RecipeIngredientDTO `json:"ingredients"`
	IsFavorited      bool                  `json:"is_favorited"`
	IsInShoppingCart bool                  `json:"is_in_shopping_cart"`
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Text             string                `json:"text"`
	CookingTime      int                   `json:"cooking_time"`
	CreatedAt        time.Time             `json:"created_at"`
}

// MiniRecipeDTO is the minimal recipe shape returned by the toggle
// endpoints and embedded in subscription listings.
type MiniRecipeDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeListResponse is a paginated list of recipes
type RecipeListResponse struct {
	Recipes    []RecipeDTO `json:"recipes"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int64       `json:"total_count"`
}

// ViewerFlags carries the viewer-relative booleans for one recipe
type ViewerFlags struct {
	IsFavorited        bool
	IsInShoppingCart   bool
	AuthorIsSubscribed bool
}

// ToRecipeDTO converts a Recipe model (with Tags, Ingredients and Author
// preloaded) to its read projection.
func ToRecipeDTO(recipe models.Recipe, flags ViewerFlags) RecipeDTO {
	dto := RecipeDTO{
		ID:               recipe.ID,
		Tags:             recipe.Tags,
		Ingredients:      make([]RecipeIngredientDTO, len(recipe.Ingredients)),
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
	}
	if dto.Tags == nil {
		dto.Tags = []models.Tag{}
	}

	for i, line := range recipe.Ingredients {
		dto.Ingredients[i] = RecipeIngredientDTO{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		}
	}

	if recipe.Author != nil {
		author := ToUserDTO(*recipe.Author, flags.AuthorIsSubscribed)
		dto.Author = &author
	}

	return dto
}

// ToMiniRecipeDTO converts a Recipe model to its minimal shape
func ToMiniRecipeDTO(recipe models.Recipe) MiniRecipeDTO {
	return MiniRecipeDTO{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
