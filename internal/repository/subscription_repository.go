package repository

import (
	"github.com/mlebedeva/foodgram-api/internal/database"
	"github.com/mlebedeva/foodgram-api/internal/models"
	"gorm.io/gorm"
)

// GormSubscriptionRepository is a GORM implementation of SubscriptionRepository
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Find finds the directed (author, subscriber) pair
func (r *GormSubscriptionRepository) Find(authorID, subscriberID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("author_id = ? AND subscriber_id = ?", authorID, subscriberID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts the directed pair. The composite primary key settles races
// between concurrent subscribes as gorm.ErrDuplicatedKey.
func (r *GormSubscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// Delete removes the pair, reporting whether it existed
func (r *GormSubscriptionRepository) Delete(authorID, subscriberID uint64) (bool, error) {
	result := r.db.Where("author_id = ? AND subscriber_id = ?", authorID, subscriberID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListAuthors returns the authors the subscriber follows, ordered by
// username, paginated.
func (r *GormSubscriptionRepository) ListAuthors(subscriberID uint64, page, pageSize int) ([]models.User, int64, error) {
	var authors []models.User

	query := r.db.Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("users.username").Scopes(database.Paginate(page, pageSize)).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, total, nil
}

// ExistsBulk reports which of the given authors the subscriber follows
func (r *GormSubscriptionRepository) ExistsBulk(subscriberID uint64, authorIDs []uint64) (map[uint64]bool, error) {
	followed := make(map[uint64]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []uint64
	if err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}
