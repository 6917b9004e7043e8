package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/changcookbook/backend/internal/api"
	"github.com/changcookbook/backend/internal/database"
	"github.com/changcookbook/backend/internal/middleware"
	"github.com/changcookbook/backend/internal/service"
)

// Deps bundles everything the route table needs. Redis and images may be
// nil; the routes that need them degrade instead of panicking.
type Deps struct {
	DB             *gorm.DB
	Redis          *redis.Client
	AllowedOrigins []string

	Auth *service.AuthService

	AuthHandler       *api.AuthHandler
	RecipeHandler     *api.RecipeHandler
	CategoryHandler   *api.CategoryHandler
	InvitationHandler *api.InvitationHandler
	AdminHandler      *api.AdminHandler
	UploadHandler     *api.UploadHandler
}

// Setup builds the full route table.
func Setup(deps Deps) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(deps.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), deps.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public browsing surface.
	v1.GET("/recipes", deps.RecipeHandler.List)
	v1.GET("/recipes/hero", deps.RecipeHandler.Hero)
	v1.GET("/recipes/slug/:slug", deps.RecipeHandler.GetBySlug)
	v1.GET("/recipes/:id", deps.RecipeHandler.Get)
	v1.GET("/categories", deps.CategoryHandler.List)

	// Account surface.
	auth := v1.Group("/auth")
	{
		auth.POST("/register", deps.AuthHandler.Register)
		auth.POST("/login", deps.AuthHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(deps.Auth), deps.AuthHandler.Me)
	}

	// Invitation redemption is public; the token is the credential.
	v1.GET("/invitations/verify/:token", deps.InvitationHandler.Verify)
	v1.POST("/invitations/accept/:token", deps.InvitationHandler.Accept)

	// Authenticated recipe authoring.
	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Auth))
	if deps.Redis != nil {
		writeLimit := middleware.NewRecipeWriteRateLimiter(deps.Redis).Middleware()
		authed.POST("/recipes", writeLimit, deps.RecipeHandler.Create)
		authed.PUT("/recipes/:id", writeLimit, deps.RecipeHandler.Update)
	} else {
		authed.POST("/recipes", deps.RecipeHandler.Create)
		authed.PUT("/recipes/:id", deps.RecipeHandler.Update)
	}
	authed.DELETE("/recipes/:id", deps.RecipeHandler.Delete)
	authed.POST("/upload", deps.UploadHandler.Upload)

	// Admin surface.
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(deps.Auth), middleware.AdminMiddleware())
	{
		if deps.Redis != nil {
			importLimit := middleware.NewImportRateLimiter(deps.Redis).Middleware()
			admin.POST("/migrate", importLimit, deps.AdminHandler.Migrate)
		} else {
			admin.POST("/migrate", deps.AdminHandler.Migrate)
		}
		admin.GET("/dashboard", deps.AdminHandler.Dashboard)
		admin.POST("/recipes/:id/feature", deps.AdminHandler.SetFeatured)
		admin.POST("/recipes/:id/hero", deps.AdminHandler.SetHero)
		admin.POST("/categories", deps.CategoryHandler.Create)
		admin.GET("/invitations", deps.InvitationHandler.List)
		admin.POST("/invitations", deps.InvitationHandler.Create)
		admin.DELETE("/invitations/:id", deps.InvitationHandler.Revoke)
	}

	return router
}
