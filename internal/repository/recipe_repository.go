package repository

import (
	"github.com/mlebedeva/foodgram-api/internal/models"
	"gorm.io/gorm"
)

// GormRecipeRepository is a GORM implementation of RecipeRepository
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &GormRecipeRepository{db: db}
}

// recipePreloads are the relations the read projection needs.
var recipePreloads = []string{"Author", "Tags", "Ingredients", "Ingredients.Ingredient"}

// CreateWithAssociations persists the recipe, its tag associations and its
// ingredient lines in one transaction. A failure at any step leaves no
// orphaned recipe or lines behind.
func (r *GormRecipeRepository) CreateWithAssociations(recipe *models.Recipe, tagIDs []uint64, lines []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Append(tagStubs(tagIDs)); err != nil {
			return err
		}

		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
}

// ReplaceAssociations updates the recipe's scalar fields and swaps its tag
// set and ingredient lines wholesale. Runs in one transaction so concurrent
// readers never observe the recipe without tags or lines.
func (r *GormRecipeRepository) ReplaceAssociations(recipe *models.Recipe, tagIDs []uint64, lines []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Save(recipe).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Replace(tagStubs(tagIDs)); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
}

// FindByID finds a recipe by ID with optional preloading
func (r *GormRecipeRepository) FindByID(id uint64, preload ...string) (*models.Recipe, error) {
	var recipe models.Recipe
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&recipe, id).Error; err != nil {
		return nil, err
	}

	return &recipe, nil
}

// List retrieves recipes with filtering and pagination, newest first.
// Tag slugs combine with OR among themselves and AND with the other filters.
func (r *GormRecipeRepository) List(filter RecipeFilter) ([]models.Recipe, int64, error) {
	var recipes []models.Recipe

	query := r.db.Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		tagSubQuery := r.db.Table("recipe_tags").
			Select("1").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("recipe_tags.recipe_id = recipes.id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("EXISTS (?)", tagSubQuery)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		favSubQuery := r.db.Model(&models.Favorite{}).
			Select("1").
			Where("favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *filter.FavoritedBy)
		query = query.Where("EXISTS (?)", favSubQuery)
	}
	if filter.InCartOf != nil {
		cartSubQuery := r.db.Model(&models.ShoppingCartItem{}).
			Select("1").
			Where("shopping_cart_items.recipe_id = recipes.id").
			Where("shopping_cart_items.user_id = ?", *filter.InCartOf)
		query = query.Where("EXISTS (?)", cartSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("recipes.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	for _, p := range recipePreloads {
		listQuery = listQuery.Preload(p)
	}

	if err := listQuery.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// ListByAuthor returns an author's recipes, newest first
func (r *GormRecipeRepository) ListByAuthor(authorID uint64, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	query := r.db.Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthor returns the total number of recipes by an author
func (r *GormRecipeRepository) CountByAuthor(authorID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// Delete removes a recipe with its lines, tag associations and memberships
func (r *GormRecipeRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}

// MembershipFlags reports, for an explicit viewer, which of the given
// recipes are favorited and which sit in the shopping cart.
func (r *GormRecipeRepository) MembershipFlags(viewerID uint64, recipeIDs []uint64) (map[uint64]bool, map[uint64]bool, error) {
	favorited := make(map[uint64]bool, len(recipeIDs))
	inCart := make(map[uint64]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var favIDs []uint64
	if err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &favIDs).Error; err != nil {
		return nil, nil, err
	}
	for _, id := range favIDs {
		favorited[id] = true
	}

	var cartIDs []uint64
	if err := r.db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &cartIDs).Error; err != nil {
		return nil, nil, err
	}
	for _, id := range cartIDs {
		inCart[id] = true
	}

	return favorited, inCart, nil
}

// tagStubs builds association stubs carrying only primary keys so Append
// and Replace write the join rows without touching the tags table.
func tagStubs(ids []uint64) []models.Tag {
	stubs := make([]models.Tag, len(ids))
	for i, id := range ids {
		stubs[i] = models.Tag{ID: id}
	}
	return stubs
}
