package dto

import "github.com/mlebedeva/foodgram-api/internal/models"

// SubscriptionAuthorDTO is one followed author in the subscriptions
// listing: the public profile plus the author's recipes and their total
// count. IsSubscribed is always true in this context.
type SubscriptionAuthorDTO struct {
	UserDTO
	Recipes      []MiniRecipeDTO `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// SubscriptionListResponse is a paginated subscriptions listing
type SubscriptionListResponse struct {
	Authors    []SubscriptionAuthorDTO `json:"authors"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalCount int64                   `json:"total_count"`
}

// ToSubscriptionAuthorDTO builds the listing entry for one followed author.
// recipes may be capped by the caller's recipes_limit; recipesCount is the
// uncapped total.
func ToSubscriptionAuthorDTO(author models.User, recipes []models.Recipe, recipesCount int64) SubscriptionAuthorDTO {
	minis := make([]MiniRecipeDTO, len(recipes))
	for i, recipe := range recipes {
		minis[i] = ToMiniRecipeDTO(recipe)
	}
	return SubscriptionAuthorDTO{
		UserDTO:      ToUserDTO(author, true),
		Recipes:      minis,
		RecipesCount: recipesCount,
	}
}
