package app

import (
	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/services"
	"github.com/videoshowcase/backend/internal/storage"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Video    services.VideoService
	Category services.CategoryService
	Tag      services.TagService
	Upload   services.UploadService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, bucket storage.BucketService) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(
			db, log,
			reposet.User, reposet.UserToken,
			cfg.JWTSecretKey, cfg.OwnerOpenID,
			cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		),
		User:     services.NewUserService(db, log, reposet.User, reposet.UserToken),
		Video:    services.NewVideoService(db, log, reposet.Video, reposet.VideoTag, bucket),
		Category: services.NewCategoryService(db, log, reposet.Category, reposet.Video),
		Tag:      services.NewTagService(db, log, reposet.Tag, reposet.VideoTag),
		Upload:   services.NewUploadService(log, bucket),
	}
}
