package app

import (
	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/repos"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Video     repos.VideoRepo
	VideoTag  repos.VideoTagRepo
	Category  repos.CategoryRepo
	Tag       repos.TagRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Video:     repos.NewVideoRepo(db, log),
		VideoTag:  repos.NewVideoTagRepo(db, log),
		Category:  repos.NewCategoryRepo(db, log),
		Tag:       repos.NewTagRepo(db, log),
	}
}
