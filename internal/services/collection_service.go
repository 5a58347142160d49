package services

import (
	"errors"
	"fmt"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlreadyInCollection = errors.New("recipe is already added")
	ErrNotInCollection     = errors.New("recipe is not in the collection")
)

// CollectionService toggles (user, recipe) membership in the favorites and
// shopping-cart sets.
type CollectionService struct {
	collectionRepo repository.CollectionRepository
	recipeRepo     repository.RecipeRepository
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(collectionRepo repository.CollectionRepository, recipeRepo repository.RecipeRepository) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		recipeRepo:     recipeRepo,
	}
}

// Add inserts the (user, recipe) membership. Adding twice is rejected, not
// silently accepted. Returns the recipe for the minimal response shape.
func (s *CollectionService) Add(userID uint64, kind repository.CollectionKind, recipeID uint64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}

	exists, err := s.collectionRepo.Exists(kind, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return nil, ErrAlreadyInCollection
	}

	if err := s.collectionRepo.Add(kind, userID, recipeID); err != nil {
		// A concurrent add may win the race; the primary key decides.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInCollection
		}
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}

	return recipe, nil
}

// Remove deletes the (user, recipe) membership. The recipe id is resolved
// first: an unknown recipe is NotFound even when no membership exists, and
// removing a non-member is an explicit conflict rather than a no-op.
func (s *CollectionService) Remove(userID uint64, kind repository.CollectionKind, recipeID uint64) error {
	if _, err := s.recipeRepo.FindByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to find recipe: %w", err)
	}

	removed, err := s.collectionRepo.Remove(kind, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	if !removed {
		return ErrNotInCollection
	}

	return nil
}
