package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/types"
)

type VideoRepo interface {
	List(ctx context.Context, tx *gorm.DB, filter types.VideoFilter) ([]*types.Video, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, videoIDs []int64) ([]*types.Video, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Video, error)
	Create(ctx context.Context, tx *gorm.DB, videos []*types.Video) ([]*types.Video, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, videoID int64, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, videoID int64) error
	IncrementViews(ctx context.Context, tx *gorm.DB, videoID int64) error
	ClearCategory(ctx context.Context, tx *gorm.DB, categoryID int64) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	repoLog := baseLog.With("repo", "VideoRepo")
	return &videoRepo{db: db, log: repoLog}
}

// List applies the filter's predicates AND-combined, newest first. The tag
// restriction runs as a second query against video_tags over the base result
// set; a video survives when it carries at least one requested tag. Two
// round trips keep the base query composition simple and are fine at catalog
// volumes.
func (vr *videoRepo) List(ctx context.Context, tx *gorm.DB, filter types.VideoFilter) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	query := transaction.WithContext(ctx).Model(&types.Video{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var results []*types.Video
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}

	if len(filter.TagIDs) == 0 || len(results) == 0 {
		return results, nil
	}

	videoIDs := make([]int64, 0, len(results))
	for _, v := range results {
		videoIDs = append(videoIDs, v.ID)
	}

	var joinRows []*types.VideoTag
	if err := transaction.WithContext(ctx).
		Where("video_id IN ?", videoIDs).
		Where("tag_id IN ?", filter.TagIDs).
		Find(&joinRows).Error; err != nil {
		return nil, err
	}

	matched := make(map[int64]struct{}, len(joinRows))
	for _, jr := range joinRows {
		matched[jr.VideoID] = struct{}{}
	}

	filtered := results[:0]
	for _, v := range results {
		if _, ok := matched[v.ID]; ok {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (vr *videoRepo) GetByIDs(ctx context.Context, tx *gorm.DB, videoIDs []int64) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var results []*types.Video
	if len(videoIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", videoIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *videoRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var results []*types.Video
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (vr *videoRepo) Create(ctx context.Context, tx *gorm.DB, videos []*types.Video) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if len(videos) == 0 {
		return []*types.Video{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (vr *videoRepo) UpdateFields(ctx context.Context, tx *gorm.DB, videoID int64, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", videoID).
		Updates(fields).Error
}

func (vr *videoRepo) Delete(ctx context.Context, tx *gorm.DB, videoID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", videoID).
		Delete(&types.Video{}).Error
}

// IncrementViews is a relative update so concurrent callers never lose
// counts.
func (vr *videoRepo) IncrementViews(ctx context.Context, tx *gorm.DB, videoID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", videoID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (vr *videoRepo) ClearCategory(ctx context.Context, tx *gorm.DB, categoryID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error
}
