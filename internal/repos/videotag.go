package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/types"
)

type VideoTagRepo interface {
	ListByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []int64) ([]*types.VideoTag, error)
	ListTagsForVideo(ctx context.Context, tx *gorm.DB, videoID int64) ([]*types.Tag, error)
	ReplaceForVideo(ctx context.Context, tx *gorm.DB, videoID int64, tagIDs []int64) error
	DeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []int64) error
	DeleteByTagIDs(ctx context.Context, tx *gorm.DB, tagIDs []int64) error
}

type videoTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoTagRepo(db *gorm.DB, baseLog *logger.Logger) VideoTagRepo {
	repoLog := baseLog.With("repo", "VideoTagRepo")
	return &videoTagRepo{db: db, log: repoLog}
}

func (vtr *videoTagRepo) ListByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []int64) ([]*types.VideoTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}
	var results []*types.VideoTag
	if len(videoIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("video_id IN ?", videoIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vtr *videoTagRepo) ListTagsForVideo(ctx context.Context, tx *gorm.DB, videoID int64) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}
	var results []*types.Tag
	if err := transaction.WithContext(ctx).
		Model(&types.Tag{}).
		Joins("INNER JOIN video_tags ON video_tags.tag_id = tags.id").
		Where("video_tags.video_id = ?", videoID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceForVideo swaps the full association set: delete everything for the
// video, then reinsert. An empty tagIDs clears all associations. Callers
// wanting atomicity pass a transaction.
func (vtr *videoTagRepo) ReplaceForVideo(ctx context.Context, tx *gorm.DB, videoID int64, tagIDs []int64) error {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}
	if err := transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&types.VideoTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]*types.VideoTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &types.VideoTag{VideoID: videoID, TagID: tagID})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (vtr *videoTagRepo) DeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []int64) error {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}
	if len(videoIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("video_id IN ?", videoIDs).
		Delete(&types.VideoTag{}).Error
}

func (vtr *videoTagRepo) DeleteByTagIDs(ctx context.Context, tx *gorm.DB, tagIDs []int64) error {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}
	if len(tagIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("tag_id IN ?", tagIDs).
		Delete(&types.VideoTag{}).Error
}
