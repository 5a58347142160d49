package services

import (
	"errors"
	"fmt"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/mlebedeva/foodgram-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrNotRecipeAuthor     = errors.New("only the recipe author can perform this action")
	ErrNoTags              = errors.New("at least one tag is required")
	ErrDuplicateTag        = errors.New("tags cannot repeat")
	ErrUnknownTag          = errors.New("one or more tags do not exist")
	ErrNoIngredients       = errors.New("at least one ingredient is required")
	ErrDuplicateIngredient = errors.New("ingredients cannot repeat within a recipe")
	ErrUnknownIngredient   = errors.New("one or more ingredients do not exist")
	ErrInvalidAmount       = errors.New("ingredient amount must be at least 1")
	ErrInvalidCookingTime  = errors.New("cooking time must be at least 1 minute")
	ErrImageRequired       = errors.New("image is required")
)

// IngredientLineInput is one requested (ingredient, amount) pair.
type IngredientLineInput struct {
	ID     uint64
	Amount int
}

// CreateRecipeInput represents input for creating a recipe
type CreateRecipeInput struct {
	AuthorID    uint64
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []uint64
	Ingredients []IngredientLineInput
}

// UpdateRecipeInput represents input for updating a recipe. Tags and
// ingredients are required: the update replaces both sets wholesale.
type UpdateRecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *string
	TagIDs      []uint64
	Ingredients []IngredientLineInput
}

// ListRecipesInput represents filters for listing recipes. ViewerID is the
// explicit requesting identity; nil means anonymous.
type ListRecipesInput struct {
	TagSlugs         []string
	AuthorID         *uint64
	IsFavorited      bool
	IsInShoppingCart bool
	ViewerID         *uint64
	Page             int
	PageSize         int
}

// ViewerAnnotations carries the viewer-relative state for a set of recipes.
type ViewerAnnotations struct {
	Favorited         map[uint64]bool
	InCart            map[uint64]bool
	SubscribedAuthors map[uint64]bool
}

// Flags returns the per-recipe flag triple for the DTO layer.
func (a ViewerAnnotations) Flags(recipe models.Recipe) (favorited, inCart, authorSubscribed bool) {
	favorited = a.Favorited[recipe.ID]
	inCart = a.InCart[recipe.ID]
	if recipe.AuthorID != nil {
		authorSubscribed = a.SubscribedAuthors[*recipe.AuthorID]
	}
	return
}

// RecipeService handles recipe mutation and read logic
type RecipeService struct {
	recipeRepo  repository.RecipeRepository
	catalogRepo repository.CatalogRepository
	subRepo     repository.SubscriptionRepository
	images      *storage.ImageStore
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(recipeRepo repository.RecipeRepository, catalogRepo repository.CatalogRepository, subRepo repository.SubscriptionRepository, images *storage.ImageStore) *RecipeService {
	return &RecipeService{
		recipeRepo:  recipeRepo,
		catalogRepo: catalogRepo,
		subRepo:     subRepo,
		images:      images,
	}
}

// CreateRecipe validates the input and persists the recipe with its tag set
// and ingredient lines in one transaction.
func (s *RecipeService) CreateRecipe(input CreateRecipeInput) (*models.Recipe, error) {
	if err := s.validateTagIDs(input.TagIDs); err != nil {
		return nil, err
	}
	lines, err := s.validateIngredients(input.Ingredients)
	if err != nil {
		return nil, err
	}
	if input.CookingTime < 1 {
		return nil, ErrInvalidCookingTime
	}
	if input.Image == "" {
		return nil, ErrImageRequired
	}

	imageRef, err := s.images.Save(input.Image)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyImage) || errors.Is(err, storage.ErrInvalidImage) {
			return nil, ErrImageRequired
		}
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	authorID := input.AuthorID
	recipe := &models.Recipe{
		AuthorID:    &authorID,
		Name:        input.Name,
		Image:       imageRef,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	if err := s.recipeRepo.CreateWithAssociations(recipe, input.TagIDs, lines); err != nil {
		s.images.Remove(imageRef)
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return s.recipeRepo.FindByID(recipe.ID, "Author", "Tags", "Ingredients", "Ingredients.Ingredient")
}

// UpdateRecipe applies the strict replace-all update: the supplied tag set
// and ingredient lines fully replace the existing ones.
func (s *RecipeService) UpdateRecipe(recipeID, actorID uint64, input UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}

	if recipe.AuthorID == nil || *recipe.AuthorID != actorID {
		return nil, ErrNotRecipeAuthor
	}

	// Tags and ingredients are required on update; omission is a
	// validation failure, not "leave unchanged".
	if err := s.validateTagIDs(input.TagIDs); err != nil {
		return nil, err
	}
	lines, err := s.validateIngredients(input.Ingredients)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		recipe.Name = *input.Name
	}
	if input.Text != nil {
		recipe.Text = *input.Text
	}
	if input.CookingTime != nil {
		if *input.CookingTime < 1 {
			return nil, ErrInvalidCookingTime
		}
		recipe.CookingTime = *input.CookingTime
	}

	oldImage := ""
	if input.Image != nil {
		imageRef, err := s.images.Save(*input.Image)
		if err != nil {
			if errors.Is(err, storage.ErrEmptyImage) || errors.Is(err, storage.ErrInvalidImage) {
				return nil, ErrImageRequired
			}
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		oldImage = recipe.Image
		recipe.Image = imageRef
	}

	if err := s.recipeRepo.ReplaceAssociations(recipe, input.TagIDs, lines); err != nil {
		if input.Image != nil {
			s.images.Remove(recipe.Image)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	if oldImage != "" {
		s.images.Remove(oldImage)
	}

	return s.recipeRepo.FindByID(recipe.ID, "Author", "Tags", "Ingredients", "Ingredients.Ingredient")
}

// DeleteRecipe deletes a recipe if the actor is its author
func (s *RecipeService) DeleteRecipe(recipeID, actorID uint64) error {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to find recipe: %w", err)
	}

	if recipe.AuthorID == nil || *recipe.AuthorID != actorID {
		return ErrNotRecipeAuthor
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.images.Remove(recipe.Image)
	return nil
}

// GetRecipe returns a recipe with relations and its viewer-relative state
func (s *RecipeService) GetRecipe(recipeID uint64, viewerID *uint64) (*models.Recipe, ViewerAnnotations, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID, "Author", "Tags", "Ingredients", "Ingredients.Ingredient")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ViewerAnnotations{}, ErrRecipeNotFound
		}
		return nil, ViewerAnnotations{}, fmt.Errorf("failed to find recipe: %w", err)
	}

	annotations, err := s.annotate(viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, ViewerAnnotations{}, err
	}

	return recipe, annotations, nil
}

// ListRecipes returns recipes matching the filters together with the
// viewer-relative annotations. An anonymous viewer asking for favorited or
// in-cart recipes gets an empty page, not an error.
func (s *RecipeService) ListRecipes(input ListRecipesInput) ([]models.Recipe, int64, ViewerAnnotations, error) {
	if (input.IsFavorited || input.IsInShoppingCart) && input.ViewerID == nil {
		return []models.Recipe{}, 0, ViewerAnnotations{}, nil
	}

	filter := repository.RecipeFilter{
		TagSlugs: input.TagSlugs,
		AuthorID: input.AuthorID,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.IsFavorited {
		filter.FavoritedBy = input.ViewerID
	}
	if input.IsInShoppingCart {
		filter.InCartOf = input.ViewerID
	}

	recipes, total, err := s.recipeRepo.List(filter)
	if err != nil {
		return nil, 0, ViewerAnnotations{}, fmt.Errorf("failed to list recipes: %w", err)
	}

	annotations, err := s.annotate(input.ViewerID, recipes)
	if err != nil {
		return nil, 0, ViewerAnnotations{}, err
	}

	return recipes, total, annotations, nil
}

// annotate computes the viewer-relative state for a batch of recipes.
// Anonymous viewers get empty maps, which read back as all-false flags.
func (s *RecipeService) annotate(viewerID *uint64, recipes []models.Recipe) (ViewerAnnotations, error) {
	annotations := ViewerAnnotations{
		Favorited:         map[uint64]bool{},
		InCart:            map[uint64]bool{},
		SubscribedAuthors: map[uint64]bool{},
	}
	if viewerID == nil || len(recipes) == 0 {
		return annotations, nil
	}

	recipeIDs := make([]uint64, len(recipes))
	authorIDs := make([]uint64, 0, len(recipes))
	for i, recipe := range recipes {
		recipeIDs[i] = recipe.ID
		if recipe.AuthorID != nil {
			authorIDs = append(authorIDs, *recipe.AuthorID)
		}
	}

	favorited, inCart, err := s.recipeRepo.MembershipFlags(*viewerID, recipeIDs)
	if err != nil {
		return ViewerAnnotations{}, fmt.Errorf("failed to load membership flags: %w", err)
	}
	annotations.Favorited = favorited
	annotations.InCart = inCart

	subscribed, err := s.subRepo.ExistsBulk(*viewerID, authorIDs)
	if err != nil {
		return ViewerAnnotations{}, fmt.Errorf("failed to load subscription flags: %w", err)
	}
	annotations.SubscribedAuthors = subscribed

	return annotations, nil
}

// validateTagIDs checks the tag list: non-empty, no duplicates, all
// resolvable. Each failure is a distinct error.
func (s *RecipeService) validateTagIDs(tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return ErrNoTags
	}

	seen := make(map[uint64]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			return ErrDuplicateTag
		}
		seen[id] = struct{}{}
	}

	tags, err := s.catalogRepo.FindTagsByIDs(tagIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		return ErrUnknownTag
	}

	return nil
}

// validateIngredients checks the line list and converts it to model rows
func (s *RecipeService) validateIngredients(inputs []IngredientLineInput) ([]models.RecipeIngredient, error) {
	if len(inputs) == 0 {
		return nil, ErrNoIngredients
	}

	ids := make([]uint64, 0, len(inputs))
	seen := make(map[uint64]struct{}, len(inputs))
	for _, line := range inputs {
		if _, dup := seen[line.ID]; dup {
			return nil, ErrDuplicateIngredient
		}
		seen[line.ID] = struct{}{}
		if line.Amount < 1 {
			return nil, ErrInvalidAmount
		}
		ids = append(ids, line.ID)
	}

	ingredients, err := s.catalogRepo.FindIngredientsByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	if len(ingredients) != len(ids) {
		return nil, ErrUnknownIngredient
	}

	lines := make([]models.RecipeIngredient, len(inputs))
	for i, line := range inputs {
		lines[i] = models.RecipeIngredient{
			IngredientID: line.ID,
			Amount:       line.Amount,
		}
	}

	return lines, nil
}
