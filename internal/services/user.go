package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/videoshowcase/backend/internal/apierr"
	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/repos"
	"github.com/videoshowcase/backend/internal/types"
)

type UserService interface {
	GetByID(ctx context.Context, userID int64) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
	UpdateRole(ctx context.Context, userID int64, role types.Role) error
	Delete(ctx context.Context, userID int64) error
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo, userTokenRepo: userTokenRepo}
}

func (us *userService) GetByID(ctx context.Context, userID int64) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []int64{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %d not found", userID))
	}
	return users[0], nil
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	return us.userRepo.List(ctx, nil)
}

func (us *userService) UpdateRole(ctx context.Context, userID int64, role types.Role) error {
	if !role.Valid() {
		return apierr.BadRequest("invalid_role", fmt.Errorf("role %q is not valid", role))
	}
	if _, err := us.GetByID(ctx, userID); err != nil {
		return err
	}
	return us.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{"role": role})
}

// Delete removes the user and revokes their sessions in one transaction.
func (us *userService) Delete(ctx context.Context, userID int64) error {
	if _, err := us.GetByID(ctx, userID); err != nil {
		return err
	}
	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userTokenRepo.DeleteByUserIDs(ctx, tx, []int64{userID}); err != nil {
			return fmt.Errorf("failed to revoke user sessions: %w", err)
		}
		return us.userRepo.Delete(ctx, tx, userID)
	})
}
