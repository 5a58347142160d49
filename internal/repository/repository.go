package repository

import (
	"github.com/mlebedeva/foodgram-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns users ordered by username with pagination
	List(page, pageSize int) ([]models.User, int64, error)
}

// CatalogRepository defines read access to the tag and ingredient
// reference data.
type CatalogRepository interface {
	// ListTags returns all tags ordered by name
	ListTags() ([]models.Tag, error)

	// FindTagByID finds a tag by ID
	FindTagByID(id uint64) (*models.Tag, error)

	// FindTagsByIDs returns the tags matching the given IDs
	FindTagsByIDs(ids []uint64) ([]models.Tag, error)

	// ListIngredients returns ingredients, optionally restricted to a
	// case-insensitive name prefix, ordered by name
	ListIngredients(namePrefix string) ([]models.Ingredient, error)

	// FindIngredientByID finds an ingredient by ID
	FindIngredientByID(id uint64) (*models.Ingredient, error)

	// FindIngredientsByIDs returns the ingredients matching the given IDs
	FindIngredientsByIDs(ids []uint64) ([]models.Ingredient, error)
}

// RecipeFilter holds filtering options for listing recipes
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uint64
	FavoritedBy *uint64
	InCartOf    *uint64
	Page        int
	PageSize    int
}

// RecipeRepository defines the interface for recipe data access
type RecipeRepository interface {
	// CreateWithAssociations persists the recipe, its tag associations and
	// its ingredient lines in one transaction
	CreateWithAssociations(recipe *models.Recipe, tagIDs []uint64, lines []models.RecipeIngredient) error

	// ReplaceAssociations updates the recipe's scalar fields and replaces
	// its tag set and ingredient lines wholesale, in one transaction
	ReplaceAssociations(recipe *models.Recipe, tagIDs []uint64, lines []models.RecipeIngredient) error

	// FindByID finds a recipe by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Recipe, error)

	// List retrieves recipes with filtering and pagination, newest first
	List(filter RecipeFilter) ([]models.Recipe, int64, error)

	// ListByAuthor returns an author's recipes, newest first, optionally
	// capped at limit (0 = no cap)
	ListByAuthor(authorID uint64, limit int) ([]models.Recipe, error)

	// CountByAuthor returns the total number of recipes by an author
	CountByAuthor(authorID uint64) (int64, error)

	// Delete removes a recipe together with its lines and memberships
	Delete(id uint64) error

	// MembershipFlags reports which of the given recipes the viewer has
	// favorited and which are in the viewer's shopping cart
	MembershipFlags(viewerID uint64, recipeIDs []uint64) (favorited, inCart map[uint64]bool, err error)
}

// CollectionKind selects the membership set a toggle operates on.
type CollectionKind string

const (
	CollectionFavorites    CollectionKind = "favorites"
	CollectionShoppingCart CollectionKind = "shopping_cart"
)

// ShoppingListRow is one consolidated line of the shopping list.
type ShoppingListRow struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// CollectionRepository manages the (user, recipe) membership sets and the
// shopping-list aggregation built on top of the cart set.
type CollectionRepository interface {
	// Exists reports whether the (user, recipe) pair is a member
	Exists(kind CollectionKind, userID, recipeID uint64) (bool, error)

	// Add inserts the membership row
	Add(kind CollectionKind, userID, recipeID uint64) error

	// Remove deletes the membership row, reporting whether it existed
	Remove(kind CollectionKind, userID, recipeID uint64) (bool, error)

	// AggregateShoppingList sums ingredient amounts across every recipe in
	// the user's cart, grouped by ingredient name and unit
	AggregateShoppingList(userID uint64) ([]ShoppingListRow, error)
}

// SubscriptionRepository defines the interface for follow relations
type SubscriptionRepository interface {
	// Find finds the directed (author, subscriber) pair
	Find(authorID, subscriberID uint64) (*models.Subscription, error)

	// Create inserts the directed pair
	Create(sub *models.Subscription) error

	// Delete removes the pair, reporting whether it existed
	Delete(authorID, subscriberID uint64) (bool, error)

	// ListAuthors returns the authors the subscriber follows, paginated
	ListAuthors(subscriberID uint64, page, pageSize int) ([]models.User, int64, error)

	// ExistsBulk reports which of the given authors the subscriber follows
	ExistsBulk(subscriberID uint64, authorIDs []uint64) (map[uint64]bool, error)
}
