package main

import (
	"context"
	"log"
	"net"

	"github.com/changcookbook/backend/config"
	"github.com/changcookbook/backend/internal/api"
	"github.com/changcookbook/backend/internal/database"
	"github.com/changcookbook/backend/internal/importer"
	"github.com/changcookbook/backend/internal/router"
	"github.com/changcookbook/backend/internal/server"
	"github.com/changcookbook/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis is optional. Without it the API runs, but listings hit the
	// database every time and rate limits are not enforced.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	categoryService := service.NewCategoryService(db, redisClient)
	invitationService := service.NewInvitationService(db, authService, cfg.JWTSecret)

	var imageService *service.ImageService
	if cfg.AWSRegion != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("s3 unavailable, image uploads disabled: %v", err)
		} else {
			imageService = service.NewImageService(s3cfg, cfg.AWSRegion)
		}
	}

	imp := importer.NewImporter(db)

	engine := router.Setup(router.Deps{
		DB:             db,
		Redis:          redisClient,
		AllowedOrigins: cfg.AllowedOrigins,
		Auth:           authService,

		AuthHandler:       api.NewAuthHandler(authService),
		RecipeHandler:     api.NewRecipeHandler(recipeService, authService),
		CategoryHandler:   api.NewCategoryHandler(categoryService),
		InvitationHandler: api.NewInvitationHandler(invitationService),
		AdminHandler:      api.NewAdminHandler(db, imp, recipeService, categoryService),
		UploadHandler:     api.NewUploadHandler(imageService),
	})

	srv := server.New(engine)
	addr := net.JoinHostPort(cfg.ServerHost, cfg.ServerPort)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("server stopped")
}
