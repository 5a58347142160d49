package models

import "time"

// Favorite marks a recipe as favorited by a user; existence is membership.
type Favorite struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	RecipeID  uint64    `gorm:"primarykey" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}
