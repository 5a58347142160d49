package services

import (
	"fmt"
	"strings"

	"github.com/mlebedeva/foodgram-api/internal/repository"
)

// ShoppingListService renders the consolidated shopping list for a user's
// cart.
type ShoppingListService struct {
	collectionRepo repository.CollectionRepository
}

// NewShoppingListService creates a new ShoppingListService
func NewShoppingListService(collectionRepo repository.CollectionRepository) *ShoppingListService {
	return &ShoppingListService{
		collectionRepo: collectionRepo,
	}
}

// Generate sums ingredient amounts across every recipe in the user's cart,
// grouped by (name, measurement unit), and renders one line per group.
// An empty cart yields an empty report.
func (s *ShoppingListService) Generate(userID uint64) (string, error) {
	rows, err := s.collectionRepo.AggregateShoppingList(userID)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate shopping list: %w", err)
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = fmt.Sprintf("%s - %d %s", row.Name, row.Total, row.MeasurementUnit)
	}

	return strings.Join(lines, "\n"), nil
}
