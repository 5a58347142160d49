package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/mlebedeva/foodgram-api/internal/config"
	"github.com/mlebedeva/foodgram-api/internal/constants"
	"github.com/mlebedeva/foodgram-api/internal/database"
	"github.com/mlebedeva/foodgram-api/internal/handlers"
	"github.com/mlebedeva/foodgram-api/internal/logging"
	"github.com/mlebedeva/foodgram-api/internal/middleware"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"github.com/mlebedeva/foodgram-api/internal/services"
	"github.com/mlebedeva/foodgram-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logging.New(cfg.GinMode)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(log))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // username (empty for default user)
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create redis store")
	}
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// Services
	images := storage.NewImageStore(cfg.MediaDir)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, subRepo)
	recipeService := services.NewRecipeService(recipeRepo, catalogRepo, subRepo, images)
	collectionService := services.NewCollectionService(collectionRepo, recipeRepo)
	shoppingListService := services.NewShoppingListService(collectionRepo)
	subscriptionService := services.NewSubscriptionService(subRepo, userRepo, recipeRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	tagHandler := handlers.NewTagHandler(catalogRepo)
	ingredientHandler := handlers.NewIngredientHandler(catalogRepo)
	recipeHandler := handlers.NewRecipeHandler(recipeService, collectionService, shoppingListService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		{
			users.GET("", middleware.OptionalAuth(), userHandler.ListUsers)
			users.GET("/subscriptions", middleware.RequireAuth(), subscriptionHandler.ListSubscriptions)
			users.GET("/:id", middleware.OptionalAuth(), userHandler.GetUser)
			users.POST("/:id/subscribe", middleware.RequireAuth(), subscriptionHandler.Subscribe)
			users.DELETE("/:id/subscribe", middleware.RequireAuth(), subscriptionHandler.Unsubscribe)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", tagHandler.ListTags)
			tags.GET("/:id", tagHandler.GetTag)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", ingredientHandler.ListIngredients)
			ingredients.GET("/:id", ingredientHandler.GetIngredient)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", middleware.OptionalAuth(), recipeHandler.ListRecipes)
			recipes.POST("", middleware.RequireAuth(), recipeHandler.CreateRecipe)
			recipes.GET("/download_shopping_cart", middleware.RequireAuth(), recipeHandler.DownloadShoppingCart)
			recipes.GET("/:id", middleware.OptionalAuth(), recipeHandler.GetRecipe)
			recipes.PATCH("/:id", middleware.RequireAuth(), recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id", middleware.RequireAuth(), recipeHandler.DeleteRecipe)
			recipes.POST("/:id/favorite", middleware.RequireAuth(), recipeHandler.Favorite)
			recipes.DELETE("/:id/favorite", middleware.RequireAuth(), recipeHandler.Unfavorite)
			recipes.POST("/:id/shopping_cart", middleware.RequireAuth(), recipeHandler.AddToCart)
			recipes.DELETE("/:id/shopping_cart", middleware.RequireAuth(), recipeHandler.RemoveFromCart)
		}
	}

	// Start server
	log.Info().Msg("server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
