package repos

import (
	"context"
	"testing"
	"time"

	"github.com/videoshowcase/backend/internal/testutil"
	"github.com/videoshowcase/backend/internal/types"
)

func TestUserRepoGetByOpenID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepo(db, testutil.NewLogger())
	ctx := context.Background()

	missing, err := repo.GetByOpenID(ctx, nil, "nobody")
	if err != nil {
		t.Fatalf("GetByOpenID failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown open id, got %+v", missing)
	}

	user := &types.User{OpenID: "oauth|123", Name: "Ada", Role: types.RoleUser, LastSignedIn: time.Now()}
	if _, err := repo.Create(ctx, nil, []*types.User{user}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.GetByOpenID(ctx, nil, "oauth|123")
	if err != nil {
		t.Fatalf("GetByOpenID failed: %v", err)
	}
	if found == nil || found.ID != user.ID || found.Name != "Ada" {
		t.Fatalf("expected seeded user back, got %+v", found)
	}
}

func TestUserRepoUpdateFields(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepo(db, testutil.NewLogger())
	ctx := context.Background()

	user := &types.User{OpenID: "oauth|456", Name: "Before", Role: types.RoleUser, LastSignedIn: time.Now()}
	if _, err := repo.Create(ctx, nil, []*types.User{user}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fields := map[string]interface{}{"name": "After", "role": types.RoleAdmin}
	if err := repo.UpdateFields(ctx, nil, user.ID, fields); err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}

	users, err := repo.GetByIDs(ctx, nil, []int64{user.ID})
	if err != nil || len(users) != 1 {
		t.Fatalf("failed to reload user: %v", err)
	}
	if users[0].Name != "After" || users[0].Role != types.RoleAdmin {
		t.Fatalf("update not applied: %+v", users[0])
	}
}

func TestUserTokenRepoDeleteExpired(t *testing.T) {
	db := testutil.NewDB(t)
	userRepo := NewUserRepo(db, testutil.NewLogger())
	tokenRepo := NewUserTokenRepo(db, testutil.NewLogger())
	ctx := context.Background()

	user := &types.User{OpenID: "oauth|789", Role: types.RoleUser, LastSignedIn: time.Now()}
	if _, err := userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}

	now := time.Now()
	stale := &types.UserToken{ID: "stale", UserID: user.ID, SecretHash: "x", ExpiresAt: now.Add(-time.Hour)}
	live := &types.UserToken{ID: "live", UserID: user.ID, SecretHash: "x", ExpiresAt: now.Add(time.Hour)}
	if _, err := tokenRepo.Create(ctx, nil, []*types.UserToken{stale, live}); err != nil {
		t.Fatalf("Create tokens failed: %v", err)
	}

	if err := tokenRepo.DeleteExpired(ctx, nil, now); err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}

	if row, err := tokenRepo.GetByID(ctx, nil, "stale"); err != nil || row != nil {
		t.Fatalf("expected stale token gone, got %+v (err %v)", row, err)
	}
	if row, err := tokenRepo.GetByID(ctx, nil, "live"); err != nil || row == nil {
		t.Fatalf("expected live token kept, got %+v (err %v)", row, err)
	}
}

func TestCategoryAndTagRepoListOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	categoryRepo := NewCategoryRepo(db, testutil.NewLogger())
	tagRepo := NewTagRepo(db, testutil.NewLogger())
	ctx := context.Background()

	categories := []*types.Category{
		{Name: "Travel", Slug: "travel"},
		{Name: "Education", Slug: "education"},
		{Name: "Music", Slug: "music"},
	}
	if _, err := categoryRepo.Create(ctx, nil, categories); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}
	tags := []*types.Tag{
		{Name: "zebra", Slug: "zebra"},
		{Name: "alpha", Slug: "alpha"},
	}
	if _, err := tagRepo.Create(ctx, nil, tags); err != nil {
		t.Fatalf("failed to seed tags: %v", err)
	}

	gotCategories, err := categoryRepo.List(ctx, nil)
	if err != nil {
		t.Fatalf("category List failed: %v", err)
	}
	wantCategories := []string{"Education", "Music", "Travel"}
	for i, want := range wantCategories {
		if gotCategories[i].Name != want {
			t.Fatalf("expected category order %v, got %q at %d", wantCategories, gotCategories[i].Name, i)
		}
	}

	gotTags, err := tagRepo.List(ctx, nil)
	if err != nil {
		t.Fatalf("tag List failed: %v", err)
	}
	if gotTags[0].Name != "alpha" || gotTags[1].Name != "zebra" {
		t.Fatalf("expected tags sorted by name, got %q then %q", gotTags[0].Name, gotTags[1].Name)
	}
}
