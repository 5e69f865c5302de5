package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/dkrasnov/markethub/backend/internal/config"
	"github.com/dkrasnov/markethub/backend/internal/handlers"
	"github.com/dkrasnov/markethub/backend/internal/middleware"
	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/internal/services"
	"github.com/dkrasnov/markethub/backend/internal/storage"
	"github.com/dkrasnov/markethub/backend/internal/token"
	"github.com/dkrasnov/markethub/backend/internal/ws"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestID())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// uploadRepo is constructed by the caller because the sweeper shares it.
func SetupRoutes(e *echo.Echo, db *gorm.DB, tokens *token.Service, hub *ws.Hub, store storage.ObjectStorage, uploadRepo repositories.UploadRepository) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Product{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.Upload{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.Health)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	articleRepo := repositories.NewPostgresArticleRepository(db)
	productRepo := repositories.NewPostgresProductRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	notifier := services.NewNotifier(notificationRepo, hub)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo, uploadRepo, tokens)
	articleHandler := handlers.NewArticleHandler(articleRepo, likeRepo, uploadRepo)
	productHandler := handlers.NewProductHandler(productRepo, likeRepo, uploadRepo, notifier)
	commentHandler := handlers.NewCommentHandler(commentRepo, notifier)
	likeHandler := handlers.NewLikeHandler(likeRepo, notifier)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	uploadHandler := handlers.NewUploadHandler(uploadRepo, store)

	// --- Resource guards ---
	articleExists := middleware.RequireExists(articleHandler.Loader())
	productExists := middleware.RequireExists(productHandler.Loader())
	articleOwner := middleware.RequireOwner(articleHandler.Loader())
	productOwner := middleware.RequireOwner(productHandler.Loader())
	commentOwner := middleware.RequireOwner(commentHandler.Loader())

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public reads (caller annotated when a valid token is present) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalAuth(tokens))
	articleHandler.RegisterPublicRoutes(public)
	productHandler.RegisterPublicRoutes(public)
	commentHandler.RegisterPublicRoutes(public, articleExists, productExists)
	log.Println("Public routes configured.")

	// --- Protected routes (require a valid access token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.Auth(tokens))
	log.Println("Authentication middleware applied to /api/v1 group.")

	authHandler.RegisterProfileRoutes(api)
	articleHandler.RegisterProtectedRoutes(api, articleOwner)
	productHandler.RegisterProtectedRoutes(api, productOwner)
	commentHandler.RegisterProtectedRoutes(api, articleExists, productExists, commentOwner)
	likeHandler.RegisterProtectedRoutes(api, articleExists, productExists)
	notificationHandler.RegisterProtectedRoutes(api)
	uploadHandler.RegisterProtectedRoutes(api)

	// --- Live channel ---
	wsHandler := ws.NewHandler(hub, tokens)
	wsHandler.RegisterRoutes(e)

	log.Println("All routes configured.")
}
