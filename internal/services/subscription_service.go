package services

import (
	"errors"
	"fmt"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSelfSubscription     = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed    = errors.New("already subscribed to this author")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// SubscribedAuthor is one followed author with the recipes embedded in the
// subscriptions listing.
type SubscribedAuthor struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// SubscriptionService manages directed follow relations between users
type SubscriptionService struct {
	subRepo    repository.SubscriptionRepository
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, recipeRepo repository.RecipeRepository) *SubscriptionService {
	return &SubscriptionService{
		subRepo:    subRepo,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
	}
}

// Subscribe creates the directed (author, subscriber) pair
func (s *SubscriptionService) Subscribe(subscriberID, authorID uint64) (*models.Subscription, error) {
	if _, err := s.userRepo.FindByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find author: %w", err)
	}

	if subscriberID == authorID {
		return nil, ErrSelfSubscription
	}

	if _, err := s.subRepo.Find(authorID, subscriberID); err == nil {
		return nil, ErrAlreadySubscribed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}

	sub := &models.Subscription{
		AuthorID:     authorID,
		SubscriberID: subscriberID,
	}
	if err := s.subRepo.Create(sub); err != nil {
		// The composite primary key settles concurrent subscribes.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return sub, nil
}

// Unsubscribe removes the directed pair
func (s *SubscriptionService) Unsubscribe(subscriberID, authorID uint64) error {
	if _, err := s.userRepo.FindByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find author: %w", err)
	}

	removed, err := s.subRepo.Delete(authorID, subscriberID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if !removed {
		return ErrSubscriptionNotFound
	}

	return nil
}

// ListSubscriptions returns the authors the subscriber follows, each with
// their recipes (capped at recipesLimit when > 0) and the uncapped total.
func (s *SubscriptionService) ListSubscriptions(subscriberID uint64, recipesLimit, page, pageSize int) ([]SubscribedAuthor, int64, error) {
	authors, total, err := s.subRepo.ListAuthors(subscriberID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	result := make([]SubscribedAuthor, len(authors))
	for i, author := range authors {
		recipes, err := s.recipeRepo.ListByAuthor(author.ID, recipesLimit)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list author recipes: %w", err)
		}
		count, err := s.recipeRepo.CountByAuthor(author.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count author recipes: %w", err)
		}
		result[i] = SubscribedAuthor{
			Author:       author,
			Recipes:      recipes,
			RecipesCount: count,
		}
	}

	return result, total, nil
}
