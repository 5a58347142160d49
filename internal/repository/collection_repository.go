package repository

import (
	"fmt"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"gorm.io/gorm"
)

// GormCollectionRepository is a GORM implementation of CollectionRepository
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &GormCollectionRepository{db: db}
}

// rowFor maps a collection kind to an empty membership row for that set.
func rowFor(kind CollectionKind, userID, recipeID uint64) (interface{}, error) {
	switch kind {
	case CollectionFavorites:
		return &models.Favorite{UserID: userID, RecipeID: recipeID}, nil
	case CollectionShoppingCart:
		return &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}, nil
	default:
		return nil, fmt.Errorf("unknown collection kind: %s", kind)
	}
}

// Exists reports whether the (user, recipe) pair is a member of the set
func (r *GormCollectionRepository) Exists(kind CollectionKind, userID, recipeID uint64) (bool, error) {
	row, err := rowFor(kind, 0, 0)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.Model(row).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the membership row. The composite primary key is the final
// arbiter of concurrent adds; a duplicate surfaces as gorm.ErrDuplicatedKey.
func (r *GormCollectionRepository) Add(kind CollectionKind, userID, recipeID uint64) error {
	row, err := rowFor(kind, userID, recipeID)
	if err != nil {
		return err
	}
	return r.db.Create(row).Error
}

// Remove deletes the membership row, reporting whether it existed
func (r *GormCollectionRepository) Remove(kind CollectionKind, userID, recipeID uint64) (bool, error) {
	row, err := rowFor(kind, 0, 0)
	if err != nil {
		return false, err
	}

	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AggregateShoppingList joins the user's cart to each recipe's ingredient
// lines, groups by ingredient identity and sums the amounts. An ingredient
// shared by several cart recipes collapses into a single total.
func (r *GormCollectionRepository) AggregateShoppingList(userID uint64) ([]ShoppingListRow, error) {
	var rows []ShoppingListRow
	err := r.db.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
