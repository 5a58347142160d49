package models

import "time"

// Subscription is a directed follow relation: subscriber follows author.
type Subscription struct {
	AuthorID     uint64    `gorm:"primarykey" json:"author_id"`
	SubscriberID uint64    `gorm:"primarykey" json:"subscriber_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Author     User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Subscriber User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"subscriber,omitempty"`
}
