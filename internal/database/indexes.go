package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes creates the lookup indexes the hot read paths depend on.
// AutoMigrate covers primary/unique keys; these speed up recipe filtering
// and the shopping-list join.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"recipes", "idx_recipes_author_id", "author_id"},
		{"recipe_tags", "idx_recipe_tags_tag_id", "tag_id"},
		{"recipe_ingredients", "idx_recipe_ingredients_ingredient_id", "ingredient_id"},
		{"favorites", "idx_favorites_recipe_id", "recipe_id"},
		{"shopping_cart_items", "idx_cart_items_recipe_id", "recipe_id"},
		{"subscriptions", "idx_subscriptions_subscriber_id", "subscriber_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
