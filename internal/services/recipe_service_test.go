package services

import (
	"testing"

	"github.com/mlebedeva/foodgram-api/internal/models"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/mlebedeva/foodgram-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testImage = "data:image/png;base64,ZmFrZS1pbWFnZS1ieXRlcw=="

// RecipeServiceTestSuite exercises the recipe mutation and read logic
type RecipeServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *RecipeService

	recipeRepo     repository.RecipeRepository
	collectionRepo repository.CollectionRepository
}

// SetupTest runs before each test
func (suite *RecipeServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
	)
	suite.Require().NoError(err)

	suite.recipeRepo = repository.NewRecipeRepository(suite.db)
	suite.collectionRepo = repository.NewCollectionRepository(suite.db)
	catalogRepo := repository.NewCatalogRepository(suite.db)
	subRepo := repository.NewSubscriptionRepository(suite.db)
	images := storage.NewImageStore(suite.T().TempDir())

	suite.service = NewRecipeService(suite.recipeRepo, catalogRepo, subRepo, images)
}

// TearDownTest runs after each test
func (suite *RecipeServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *RecipeServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *RecipeServiceTestSuite) createTestTag(name string) *models.Tag {
	tag := &models.Tag{Name: name, Color: "#49B64E", Slug: name}
	suite.db.Create(tag)
	return tag
}

func (suite *RecipeServiceTestSuite) createTestIngredient(name, unit string) *models.Ingredient {
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	suite.db.Create(ingredient)
	return ingredient
}

func (suite *RecipeServiceTestSuite) validInput(authorID uint64) CreateRecipeInput {
	tag := suite.createTestTag("dinner")
	ingredient := suite.createTestIngredient("flour", "g")
	return CreateRecipeInput{
		AuthorID:    authorID,
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 10,
		Image:       testImage,
		TagIDs:      []uint64{tag.ID},
		Ingredients: []IngredientLineInput{{ID: ingredient.ID, Amount: 200}},
	}
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_Success() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)

	recipe, err := suite.service.CreateRecipe(input)
	suite.Require().NoError(err)

	suite.Require().NotNil(recipe.AuthorID)
	assert.Equal(suite.T(), user.ID, *recipe.AuthorID)
	assert.Len(suite.T(), recipe.Tags, 1)
	assert.Equal(suite.T(), "dinner", recipe.Tags[0].Name)
	suite.Require().Len(recipe.Ingredients, 1)
	assert.Equal(suite.T(), "flour", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(suite.T(), 200, recipe.Ingredients[0].Amount)
	assert.NotEmpty(suite.T(), recipe.Image)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_NoTags() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)
	input.TagIDs = nil

	_, err := suite.service.CreateRecipe(input)
	assert.ErrorIs(suite.T(), err, ErrNoTags)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_DuplicateTags() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)
	input.TagIDs = append(input.TagIDs, input.TagIDs[0])

	_, err := suite.service.CreateRecipe(input)
	assert.ErrorIs(suite.T(), err, ErrDuplicateTag)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_UnknownTag() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)
	input.TagIDs = []uint64{9999}

	_, err := suite.service.CreateRecipe(input)
	assert.ErrorIs(suite.T(), err, ErrUnknownTag)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_DuplicateIngredient() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)
	id := input.Ingredients[0].ID
	input.Ingredients = []IngredientLineInput{
		{ID: id, Amount: 2},
		{ID: id, Amount: 3},
	}

	_, err := suite.service.CreateRecipe(input)
	assert.ErrorIs(suite.T(), err, ErrDuplicateIngredient)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_InvalidAmount() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)
	input.Ingredients[0].Amount = 0

	_, err := suite.service.CreateRecipe(input)
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_InvalidCookingTime() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)
	input.CookingTime = 0

	_, err := suite.service.CreateRecipe(input)
	assert.ErrorIs(suite.T(), err, ErrInvalidCookingTime)
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe_MissingImage() {
	user := suite.createTestUser("author")
	input := suite.validInput(user.ID)
	input.Image = ""

	_, err := suite.service.CreateRecipe(input)
	assert.ErrorIs(suite.T(), err, ErrImageRequired)
}

func (suite *RecipeServiceTestSuite) TestUpdateRecipe_ReplacesAssociations() {
	user := suite.createTestUser("author")
	recipe, err := suite.service.CreateRecipe(suite.validInput(user.ID))
	suite.Require().NoError(err)

	newTag := suite.createTestTag("breakfast")
	sugar := suite.createTestIngredient("sugar", "g")

	updated, err := suite.service.UpdateRecipe(recipe.ID, user.ID, UpdateRecipeInput{
		TagIDs:      []uint64{newTag.ID},
		Ingredients: []IngredientLineInput{{ID: sugar.ID, Amount: 50}},
	})
	suite.Require().NoError(err)

	suite.Require().Len(updated.Tags, 1)
	assert.Equal(suite.T(), "breakfast", updated.Tags[0].Name)
	suite.Require().Len(updated.Ingredients, 1)
	assert.Equal(suite.T(), "sugar", updated.Ingredients[0].Ingredient.Name)
	assert.Equal(suite.T(), 50, updated.Ingredients[0].Amount)

	// Old lines are gone, not merged.
	var lineCount int64
	suite.db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lineCount)
	assert.EqualValues(suite.T(), 1, lineCount)
}

func (suite *RecipeServiceTestSuite) TestUpdateRecipe_TagsAndIngredientsRequired() {
	user := suite.createTestUser("author")
	recipe, err := suite.service.CreateRecipe(suite.validInput(user.ID))
	suite.Require().NoError(err)

	name := "Renamed"
	_, err = suite.service.UpdateRecipe(recipe.ID, user.ID, UpdateRecipeInput{Name: &name})
	assert.ErrorIs(suite.T(), err, ErrNoTags)

	_, err = suite.service.UpdateRecipe(recipe.ID, user.ID, UpdateRecipeInput{
		TagIDs: []uint64{recipe.Tags[0].ID},
	})
	assert.ErrorIs(suite.T(), err, ErrNoIngredients)
}

func (suite *RecipeServiceTestSuite) TestUpdateRecipe_NotAuthor() {
	author := suite.createTestUser("author")
	other := suite.createTestUser("other")
	recipe, err := suite.service.CreateRecipe(suite.validInput(author.ID))
	suite.Require().NoError(err)

	_, err = suite.service.UpdateRecipe(recipe.ID, other.ID, UpdateRecipeInput{
		TagIDs:      []uint64{recipe.Tags[0].ID},
		Ingredients: []IngredientLineInput{{ID: recipe.Ingredients[0].IngredientID, Amount: 1}},
	})
	assert.ErrorIs(suite.T(), err, ErrNotRecipeAuthor)
}

func (suite *RecipeServiceTestSuite) TestDeleteRecipe() {
	author := suite.createTestUser("author")
	other := suite.createTestUser("other")
	recipe, err := suite.service.CreateRecipe(suite.validInput(author.ID))
	suite.Require().NoError(err)

	assert.ErrorIs(suite.T(), suite.service.DeleteRecipe(recipe.ID, other.ID), ErrNotRecipeAuthor)
	suite.Require().NoError(suite.service.DeleteRecipe(recipe.ID, author.ID))

	assert.ErrorIs(suite.T(), suite.service.DeleteRecipe(recipe.ID, author.ID), ErrRecipeNotFound)

	var lineCount int64
	suite.db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lineCount)
	assert.EqualValues(suite.T(), 0, lineCount)
}

func (suite *RecipeServiceTestSuite) TestGetRecipe_ViewerFlags() {
	author := suite.createTestUser("author")
	viewer := suite.createTestUser("viewer")
	recipe, err := suite.service.CreateRecipe(suite.validInput(author.ID))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.collectionRepo.Add(repository.CollectionFavorites, viewer.ID, recipe.ID))

	_, annotations, err := suite.service.GetRecipe(recipe.ID, &viewer.ID)
	suite.Require().NoError(err)
	favorited, inCart, _ := annotations.Flags(*recipe)
	assert.True(suite.T(), favorited)
	assert.False(suite.T(), inCart)

	// Anonymous viewers always read false.
	_, annotations, err = suite.service.GetRecipe(recipe.ID, nil)
	suite.Require().NoError(err)
	favorited, inCart, _ = annotations.Flags(*recipe)
	assert.False(suite.T(), favorited)
	assert.False(suite.T(), inCart)
}

func (suite *RecipeServiceTestSuite) TestListRecipes_AnonymousFavoritedFilterIsEmpty() {
	author := suite.createTestUser("author")
	_, err := suite.service.CreateRecipe(suite.validInput(author.ID))
	suite.Require().NoError(err)

	recipes, total, _, err := suite.service.ListRecipes(ListRecipesInput{
		IsFavorited: true,
		Page:        1,
		PageSize:    10,
	})
	suite.Require().NoError(err)
	assert.Empty(suite.T(), recipes)
	assert.EqualValues(suite.T(), 0, total)
}

func (suite *RecipeServiceTestSuite) TestListRecipes_TagFilter() {
	author := suite.createTestUser("author")
	recipe, err := suite.service.CreateRecipe(suite.validInput(author.ID))
	suite.Require().NoError(err)

	recipes, total, _, err := suite.service.ListRecipes(ListRecipesInput{
		TagSlugs: []string{recipe.Tags[0].Slug, "nonexistent"},
		Page:     1,
		PageSize: 10,
	})
	suite.Require().NoError(err)
	suite.Require().Len(recipes, 1)
	assert.EqualValues(suite.T(), 1, total)

	recipes, total, _, err = suite.service.ListRecipes(ListRecipesInput{
		TagSlugs: []string{"nonexistent"},
		Page:     1,
		PageSize: 10,
	})
	suite.Require().NoError(err)
	assert.Empty(suite.T(), recipes)
	assert.EqualValues(suite.T(), 0, total)
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}
