package app

import (
	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:         cfg.AllowOrigins,
		AuthMiddleware:       middlewareset.Auth,
		AuthHandler:          handlerset.Auth,
		VideoHandler:         handlerset.Video,
		CategoryHandler:      handlerset.Category,
		TagHandler:           handlerset.Tag,
		AdminVideoHandler:    handlerset.AdminVideo,
		AdminCategoryHandler: handlerset.AdminCategory,
		AdminTagHandler:      handlerset.AdminTag,
		AdminUserHandler:     handlerset.AdminUser,
	})
}
