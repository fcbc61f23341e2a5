package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/http/handlers"
	"github.com/videoshowcase/backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler          *handlers.AuthHandler
	VideoHandler         *handlers.VideoHandler
	CategoryHandler      *handlers.CategoryHandler
	TagHandler           *handlers.TagHandler
	AdminVideoHandler    *handlers.AdminVideoHandler
	AdminCategoryHandler *handlers.AdminCategoryHandler
	AdminTagHandler      *handlers.AdminTagHandler
	AdminUserHandler     *handlers.AdminUserHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// Public catalog
	api.GET("/videos", cfg.VideoHandler.List)
	api.GET("/videos/slug/:slug", cfg.VideoHandler.GetBySlug)
	api.GET("/videos/:id/tags", cfg.VideoHandler.GetTags)
	api.POST("/videos/:id/views", cfg.VideoHandler.IncrementViews)
	api.GET("/categories", cfg.CategoryHandler.List)
	api.GET("/tags", cfg.TagHandler.List)

	// Session
	auth := api.Group("/auth")
	auth.POST("/session", cfg.AuthHandler.Session)
	auth.POST("/refresh", cfg.AuthHandler.Refresh)
	auth.POST("/logout", cfg.AuthHandler.Logout)
	auth.GET("/me", cfg.AuthMiddleware.OptionalAuth(), cfg.AuthHandler.Me)

	// Admin console: role check fails closed before any handler runs.
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())

	admin.GET("/videos", cfg.AdminVideoHandler.List)
	admin.POST("/videos", cfg.AdminVideoHandler.Create)
	admin.POST("/videos/upload", cfg.AdminVideoHandler.UploadVideo)
	admin.POST("/videos/upload-thumbnail", cfg.AdminVideoHandler.UploadThumbnail)
	admin.GET("/videos/:id", cfg.AdminVideoHandler.GetByID)
	admin.PATCH("/videos/:id", cfg.AdminVideoHandler.Update)
	admin.DELETE("/videos/:id", cfg.AdminVideoHandler.Delete)

	admin.GET("/categories", cfg.AdminCategoryHandler.List)
	admin.POST("/categories", cfg.AdminCategoryHandler.Create)
	admin.PATCH("/categories/:id", cfg.AdminCategoryHandler.Update)
	admin.DELETE("/categories/:id", cfg.AdminCategoryHandler.Delete)

	admin.GET("/tags", cfg.AdminTagHandler.List)
	admin.POST("/tags", cfg.AdminTagHandler.Create)
	admin.PATCH("/tags/:id", cfg.AdminTagHandler.Update)
	admin.DELETE("/tags/:id", cfg.AdminTagHandler.Delete)

	admin.GET("/users", cfg.AdminUserHandler.List)
	admin.PATCH("/users/:id", cfg.AdminUserHandler.UpdateRole)
	admin.DELETE("/users/:id", cfg.AdminUserHandler.Delete)

	return router
}
