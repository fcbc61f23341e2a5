package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/apierr"
	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/repos"
	"github.com/videoshowcase/backend/internal/types"
)

type CreateTagInput struct {
	Name string
	Slug string
}

type UpdateTagInput struct {
	Name *string
	Slug *string
}

type TagService interface {
	List(ctx context.Context) ([]*types.Tag, error)
	GetByID(ctx context.Context, tagID int64) (*types.Tag, error)
	Create(ctx context.Context, input CreateTagInput) (int64, error)
	Update(ctx context.Context, tagID int64, input UpdateTagInput) error
	Delete(ctx context.Context, tagID int64) error
}

type tagService struct {
	db           *gorm.DB
	log          *logger.Logger
	tagRepo      repos.TagRepo
	videoTagRepo repos.VideoTagRepo
}

func NewTagService(db *gorm.DB, log *logger.Logger, tagRepo repos.TagRepo, videoTagRepo repos.VideoTagRepo) TagService {
	serviceLog := log.With("service", "TagService")
	return &tagService{db: db, log: serviceLog, tagRepo: tagRepo, videoTagRepo: videoTagRepo}
}

func (ts *tagService) List(ctx context.Context) ([]*types.Tag, error) {
	return ts.tagRepo.List(ctx, nil)
}

func (ts *tagService) GetByID(ctx context.Context, tagID int64) (*types.Tag, error) {
	tags, err := ts.tagRepo.GetByIDs(ctx, nil, []int64{tagID})
	if err != nil {
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	if len(tags) == 0 {
		return nil, apierr.NotFound("tag_not_found", fmt.Errorf("tag %d not found", tagID))
	}
	return tags[0], nil
}

func (ts *tagService) Create(ctx context.Context, input CreateTagInput) (int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Name == "" {
		return 0, apierr.BadRequest("missing_name", fmt.Errorf("name is required"))
	}
	if input.Slug == "" {
		return 0, apierr.BadRequest("missing_slug", fmt.Errorf("slug is required"))
	}
	tag := &types.Tag{Name: input.Name, Slug: input.Slug}
	if _, err := ts.tagRepo.Create(ctx, nil, []*types.Tag{tag}); err != nil {
		return 0, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag.ID, nil
}

func (ts *tagService) Update(ctx context.Context, tagID int64, input UpdateTagInput) error {
	if _, err := ts.GetByID(ctx, tagID); err != nil {
		return err
	}
	fields := map[string]interface{}{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return apierr.BadRequest("missing_name", fmt.Errorf("name cannot be empty"))
		}
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		if strings.TrimSpace(*input.Slug) == "" {
			return apierr.BadRequest("missing_slug", fmt.Errorf("slug cannot be empty"))
		}
		fields["slug"] = strings.TrimSpace(*input.Slug)
	}
	return ts.tagRepo.UpdateFields(ctx, nil, tagID, fields)
}

// Delete cascades to join rows explicitly, then removes the tag, in one
// transaction.
func (ts *tagService) Delete(ctx context.Context, tagID int64) error {
	if _, err := ts.GetByID(ctx, tagID); err != nil {
		return err
	}
	return ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.videoTagRepo.DeleteByTagIDs(ctx, tx, []int64{tagID}); err != nil {
			return fmt.Errorf("failed to delete tag associations: %w", err)
		}
		return ts.tagRepo.Delete(ctx, tx, tagID)
	})
}
