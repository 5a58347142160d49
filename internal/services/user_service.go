package services

import (
	"errors"
	"fmt"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"gorm.io/gorm"
)

// UserService serves public profile reads with viewer-relative annotations
type UserService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		subRepo:  subRepo,
	}
}

// GetProfile returns a user's public profile and whether the viewer
// subscribes to them. Anonymous viewers always get false.
func (s *UserService) GetProfile(userID uint64, viewerID *uint64) (*models.User, bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	if viewerID == nil {
		return user, false, nil
	}

	subscribed, err := s.subRepo.ExistsBulk(*viewerID, []uint64{userID})
	if err != nil {
		return nil, false, fmt.Errorf("failed to check subscription: %w", err)
	}

	return user, subscribed[userID], nil
}

// ListUsers returns a page of users with the viewer's subscription flags
func (s *UserService) ListUsers(viewerID *uint64, page, pageSize int) ([]models.User, map[uint64]bool, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	subscribed := map[uint64]bool{}
	if viewerID != nil && len(users) > 0 {
		ids := make([]uint64, len(users))
		for i, user := range users {
			ids[i] = user.ID
		}
		subscribed, err = s.subRepo.ExistsBulk(*viewerID, ids)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to load subscription flags: %w", err)
		}
	}

	return users, subscribed, total, nil
}
