package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150)" json:"last_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Recipes       []Recipe           `gorm:"foreignKey:AuthorID" json:"-"`
	Favorites     []Favorite         `gorm:"foreignKey:UserID" json:"-"`
	CartItems     []ShoppingCartItem `gorm:"foreignKey:UserID" json:"-"`
	Subscriptions []Subscription     `gorm:"foreignKey:SubscriberID" json:"-"`
}
