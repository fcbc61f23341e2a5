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

type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description string
}

type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
}

type CategoryService interface {
	List(ctx context.Context) ([]*types.Category, error)
	GetByID(ctx context.Context, categoryID int64) (*types.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (int64, error)
	Update(ctx context.Context, categoryID int64, input UpdateCategoryInput) error
	Delete(ctx context.Context, categoryID int64) error
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	videoRepo    repos.VideoRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo, videoRepo repos.VideoRepo) CategoryService {
	serviceLog := log.With("service", "CategoryService")
	return &categoryService{db: db, log: serviceLog, categoryRepo: categoryRepo, videoRepo: videoRepo}
}

func (cs *categoryService) List(ctx context.Context) ([]*types.Category, error) {
	return cs.categoryRepo.List(ctx, nil)
}

func (cs *categoryService) GetByID(ctx context.Context, categoryID int64) (*types.Category, error) {
	categories, err := cs.categoryRepo.GetByIDs(ctx, nil, []int64{categoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if len(categories) == 0 {
		return nil, apierr.NotFound("category_not_found", fmt.Errorf("category %d not found", categoryID))
	}
	return categories[0], nil
}

func (cs *categoryService) Create(ctx context.Context, input CreateCategoryInput) (int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Name == "" {
		return 0, apierr.BadRequest("missing_name", fmt.Errorf("name is required"))
	}
	if input.Slug == "" {
		return 0, apierr.BadRequest("missing_slug", fmt.Errorf("slug is required"))
	}
	category := &types.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	}
	if _, err := cs.categoryRepo.Create(ctx, nil, []*types.Category{category}); err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	return category.ID, nil
}

func (cs *categoryService) Update(ctx context.Context, categoryID int64, input UpdateCategoryInput) error {
	if _, err := cs.GetByID(ctx, categoryID); err != nil {
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
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	return cs.categoryRepo.UpdateFields(ctx, nil, categoryID, fields)
}

// Delete nulls out the category reference on any videos still pointing at it,
// then removes the category, all in one transaction. Videos are never deleted
// with their category.
func (cs *categoryService) Delete(ctx context.Context, categoryID int64) error {
	if _, err := cs.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.videoRepo.ClearCategory(ctx, tx, categoryID); err != nil {
			return fmt.Errorf("failed to clear category from videos: %w", err)
		}
		return cs.categoryRepo.Delete(ctx, tx, categoryID)
	})
}
