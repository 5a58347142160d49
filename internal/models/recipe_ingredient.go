package models

// RecipeIngredient records how much of one ingredient a recipe needs.
// The composite key forbids the same ingredient appearing twice in a recipe.
type RecipeIngredient struct {
	RecipeID     uint64 `gorm:"primarykey" json:"recipe_id"`
	IngredientID uint64 `gorm:"primarykey" json:"ingredient_id"`
	Amount       int    `gorm:"not null" json:"amount"`

	// Relations
	Recipe     Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}
