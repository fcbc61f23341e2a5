package app

import (
	"github.com/videoshowcase/backend/internal/http/handlers"
	"github.com/videoshowcase/backend/internal/logger"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Video         *handlers.VideoHandler
	Category      *handlers.CategoryHandler
	Tag           *handlers.TagHandler
	AdminVideo    *handlers.AdminVideoHandler
	AdminCategory *handlers.AdminCategoryHandler
	AdminTag      *handlers.AdminTagHandler
	AdminUser     *handlers.AdminUserHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:          handlers.NewAuthHandler(serviceset.Auth, serviceset.User, cfg.SecureCookies),
		Video:         handlers.NewVideoHandler(serviceset.Video),
		Category:      handlers.NewCategoryHandler(serviceset.Category),
		Tag:           handlers.NewTagHandler(serviceset.Tag),
		AdminVideo:    handlers.NewAdminVideoHandler(serviceset.Video, serviceset.Upload),
		AdminCategory: handlers.NewAdminCategoryHandler(serviceset.Category),
		AdminTag:      handlers.NewAdminTagHandler(serviceset.Tag),
		AdminUser:     handlers.NewAdminUserHandler(serviceset.User),
	}
}
