package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/apierr"
	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/repos"
	"github.com/videoshowcase/backend/internal/requestdata"
	"github.com/videoshowcase/backend/internal/storage"
	"github.com/videoshowcase/backend/internal/types"
)

type CreateVideoInput struct {
	Title        string
	Slug         string
	Description  string
	VideoURL     string
	VideoKey     string
	ThumbnailURL string
	ThumbnailKey string
	Duration     *int
	FileSize     *int64
	MimeType     string
	CategoryID   *int64
	Status       types.VideoStatus
	TagIDs       []int64
}

// UpdateVideoInput carries a partial update: nil means leave untouched. A
// non-nil TagIDs (including the empty slice) fully replaces the tag set.
type UpdateVideoInput struct {
	Title        *string
	Slug         *string
	Description  *string
	VideoURL     *string
	VideoKey     *string
	ThumbnailURL *string
	ThumbnailKey *string
	Duration     *int
	FileSize     *int64
	MimeType     *string
	CategoryID   *int64
	Status       *types.VideoStatus
	TagIDs       *[]int64
}

type VideoService interface {
	ListPublic(ctx context.Context, filter types.VideoFilter) ([]*types.Video, error)
	ListAdmin(ctx context.Context, filter types.VideoFilter) ([]*types.Video, error)
	GetByID(ctx context.Context, videoID int64) (*types.Video, error)
	GetBySlug(ctx context.Context, slug string) (*types.Video, error)
	GetTags(ctx context.Context, videoID int64) ([]*types.Tag, error)
	IncrementViews(ctx context.Context, videoID int64) error
	Create(ctx context.Context, input CreateVideoInput) (int64, error)
	Update(ctx context.Context, videoID int64, input UpdateVideoInput) error
	Delete(ctx context.Context, videoID int64) error
}

type videoService struct {
	db           *gorm.DB
	log          *logger.Logger
	videoRepo    repos.VideoRepo
	videoTagRepo repos.VideoTagRepo
	bucket       storage.BucketService
}

func NewVideoService(db *gorm.DB, log *logger.Logger, videoRepo repos.VideoRepo, videoTagRepo repos.VideoTagRepo, bucket storage.BucketService) VideoService {
	serviceLog := log.With("service", "VideoService")
	return &videoService{db: db, log: serviceLog, videoRepo: videoRepo, videoTagRepo: videoTagRepo, bucket: bucket}
}

// ListPublic pins status to published regardless of what the caller put in
// the filter.
func (vs *videoService) ListPublic(ctx context.Context, filter types.VideoFilter) ([]*types.Video, error) {
	filter.Status = types.VideoStatusPublished
	return vs.videoRepo.List(ctx, nil, filter)
}

// ListAdmin passes the filter through unchanged; an absent status means all
// statuses.
func (vs *videoService) ListAdmin(ctx context.Context, filter types.VideoFilter) ([]*types.Video, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apierr.BadRequest("invalid_status", fmt.Errorf("status %q is not valid", filter.Status))
	}
	return vs.videoRepo.List(ctx, nil, filter)
}

func (vs *videoService) GetByID(ctx context.Context, videoID int64) (*types.Video, error) {
	videos, err := vs.videoRepo.GetByIDs(ctx, nil, []int64{videoID})
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	if len(videos) == 0 {
		return nil, apierr.NotFound("video_not_found", fmt.Errorf("video %d not found", videoID))
	}
	return videos[0], nil
}

func (vs *videoService) GetBySlug(ctx context.Context, slug string) (*types.Video, error) {
	video, err := vs.videoRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load video by slug: %w", err)
	}
	if video == nil {
		return nil, apierr.NotFound("video_not_found", fmt.Errorf("video %q not found", slug))
	}
	return video, nil
}

func (vs *videoService) GetTags(ctx context.Context, videoID int64) ([]*types.Tag, error) {
	return vs.videoTagRepo.ListTagsForVideo(ctx, nil, videoID)
}

func (vs *videoService) IncrementViews(ctx context.Context, videoID int64) error {
	return vs.videoRepo.IncrementViews(ctx, nil, videoID)
}

// Create inserts the video and its tag associations in one transaction.
// UploadedBy always comes from the authenticated caller, never the payload.
func (vs *videoService) Create(ctx context.Context, input CreateVideoInput) (int64, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return 0, apierr.Unauthorized("missing_identity", fmt.Errorf("no authenticated caller on context"))
	}
	if err := validateCreateVideoInput(&input); err != nil {
		return 0, err
	}

	video := &types.Video{
		Title:        input.Title,
		Slug:         input.Slug,
		Description:  input.Description,
		VideoURL:     input.VideoURL,
		VideoKey:     input.VideoKey,
		ThumbnailURL: input.ThumbnailURL,
		ThumbnailKey: input.ThumbnailKey,
		Duration:     input.Duration,
		FileSize:     input.FileSize,
		MimeType:     input.MimeType,
		CategoryID:   input.CategoryID,
		UploadedBy:   rd.UserID,
		Status:       input.Status,
	}
	err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := vs.videoRepo.Create(ctx, tx, []*types.Video{video}); err != nil {
			return fmt.Errorf("failed to create video: %w", err)
		}
		if len(input.TagIDs) > 0 {
			if err := vs.videoTagRepo.ReplaceForVideo(ctx, tx, video.ID, input.TagIDs); err != nil {
				return fmt.Errorf("failed to associate tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	vs.log.Info("Video created", "video_id", video.ID, "user_id", rd.UserID, "status", video.Status)
	return video.ID, nil
}

func (vs *videoService) Update(ctx context.Context, videoID int64, input UpdateVideoInput) error {
	if _, err := vs.GetByID(ctx, videoID); err != nil {
		return err
	}
	fields, err := updateVideoFields(input)
	if err != nil {
		return err
	}
	return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := vs.videoRepo.UpdateFields(ctx, tx, videoID, fields); err != nil {
			return fmt.Errorf("failed to update video: %w", err)
		}
		if input.TagIDs != nil {
			if err := vs.videoTagRepo.ReplaceForVideo(ctx, tx, videoID, *input.TagIDs); err != nil {
				return fmt.Errorf("failed to replace tags: %w", err)
			}
		}
		return nil
	})
}

// Delete removes join rows and the video row in one transaction, then
// best-effort deletes the backing bucket objects.
func (vs *videoService) Delete(ctx context.Context, videoID int64) error {
	video, err := vs.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	err = vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := vs.videoTagRepo.DeleteByVideoIDs(ctx, tx, []int64{videoID}); err != nil {
			return fmt.Errorf("failed to delete tag associations: %w", err)
		}
		return vs.videoRepo.Delete(ctx, tx, videoID)
	})
	if err != nil {
		return err
	}
	vs.removeStoredObjects(ctx, video)
	return nil
}

// removeStoredObjects cleans up the object store after a video row is gone.
// A failure here leaves an orphaned object, never a failed API call.
func (vs *videoService) removeStoredObjects(ctx context.Context, video *types.Video) {
	if vs.bucket == nil {
		return
	}
	for _, key := range []string{video.VideoKey, video.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := vs.bucket.DeleteObject(ctx, key); err != nil {
			vs.log.Warn("Failed to delete stored object", "key", key, "error", err)
		}
	}
}

func validateCreateVideoInput(input *CreateVideoInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Title == "" {
		return apierr.BadRequest("missing_title", fmt.Errorf("title is required"))
	}
	if input.Slug == "" {
		return apierr.BadRequest("missing_slug", fmt.Errorf("slug is required"))
	}
	if input.VideoURL == "" || input.VideoKey == "" {
		return apierr.BadRequest("missing_video_source", fmt.Errorf("videoUrl and videoKey are required"))
	}
	if input.Status == "" {
		input.Status = types.VideoStatusPublished
	}
	if !input.Status.Valid() {
		return apierr.BadRequest("invalid_status", fmt.Errorf("status %q is not valid", input.Status))
	}
	return nil
}

func updateVideoFields(input UpdateVideoInput) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apierr.BadRequest("missing_title", fmt.Errorf("title cannot be empty"))
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		if strings.TrimSpace(*input.Slug) == "" {
			return nil, apierr.BadRequest("missing_slug", fmt.Errorf("slug cannot be empty"))
		}
		fields["slug"] = strings.TrimSpace(*input.Slug)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.VideoURL != nil {
		fields["video_url"] = *input.VideoURL
	}
	if input.VideoKey != nil {
		fields["video_key"] = *input.VideoKey
	}
	if input.ThumbnailURL != nil {
		fields["thumbnail_url"] = *input.ThumbnailURL
	}
	if input.ThumbnailKey != nil {
		fields["thumbnail_key"] = *input.ThumbnailKey
	}
	if input.Duration != nil {
		fields["duration"] = *input.Duration
	}
	if input.FileSize != nil {
		fields["file_size"] = *input.FileSize
	}
	if input.MimeType != nil {
		fields["mime_type"] = *input.MimeType
	}
	if input.CategoryID != nil {
		fields["category_id"] = *input.CategoryID
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apierr.BadRequest("invalid_status", fmt.Errorf("status %q is not valid", *input.Status))
		}
		fields["status"] = *input.Status
	}
	return fields, nil
}
