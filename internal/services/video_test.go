package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/videoshowcase/backend/internal/apierr"
	"github.com/videoshowcase/backend/internal/repos"
	"github.com/videoshowcase/backend/internal/requestdata"
	"github.com/videoshowcase/backend/internal/testutil"
	"github.com/videoshowcase/backend/internal/types"
)

type videoServiceFixture struct {
	svc          VideoService
	tagRepo      repos.TagRepo
	videoTagRepo repos.VideoTagRepo
	bucket       *fakeBucket
}

func newVideoServiceFixture(t *testing.T) *videoServiceFixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	videoTagRepo := repos.NewVideoTagRepo(db, log)
	bucket := newFakeBucket()
	return &videoServiceFixture{
		svc:          NewVideoService(db, log, repos.NewVideoRepo(db, log), videoTagRepo, bucket),
		tagRepo:      repos.NewTagRepo(db, log),
		videoTagRepo: videoTagRepo,
		bucket:       bucket,
	}
}

func adminContext(userID int64) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Role:   types.RoleAdmin,
	})
}

func (f *videoServiceFixture) seedTags(t *testing.T, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		tag := &types.Tag{Name: name, Slug: name}
		if _, err := f.tagRepo.Create(context.Background(), nil, []*types.Tag{tag}); err != nil {
			t.Fatalf("failed to seed tag %q: %v", name, err)
		}
		ids = append(ids, tag.ID)
	}
	return ids
}

func minimalCreateInput(slug string) CreateVideoInput {
	return CreateVideoInput{
		Title:    "Video " + slug,
		Slug:     slug,
		VideoURL: "https://cdn.example.com/" + slug + ".mp4",
		VideoKey: "videos/1/" + slug + ".mp4",
	}
}

func TestVideoServiceCreateRequiresIdentity(t *testing.T) {
	f := newVideoServiceFixture(t)
	_, err := f.svc.Create(context.Background(), minimalCreateInput("anon"))
	if apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}
}

func TestVideoServiceCreateValidation(t *testing.T) {
	f := newVideoServiceFixture(t)
	ctx := adminContext(1)

	cases := []struct {
		name  string
		mut   func(*CreateVideoInput)
		wantC string
	}{
		{"missing title", func(in *CreateVideoInput) { in.Title = "  " }, "missing_title"},
		{"missing slug", func(in *CreateVideoInput) { in.Slug = "" }, "missing_slug"},
		{"missing source", func(in *CreateVideoInput) { in.VideoKey = "" }, "missing_video_source"},
		{"bad status", func(in *CreateVideoInput) { in.Status = "banana" }, "invalid_status"},
	}
	for _, tc := range cases {
		in := minimalCreateInput("validation")
		tc.mut(&in)
		_, err := f.svc.Create(ctx, in)
		if apierr.StatusOf(err) != http.StatusBadRequest || apierr.CodeOf(err) != tc.wantC {
			t.Fatalf("%s: expected 400 %s, got %v", tc.name, tc.wantC, err)
		}
	}
}

func TestVideoServiceCreateWithTags(t *testing.T) {
	f := newVideoServiceFixture(t)
	ctx := adminContext(42)
	tagIDs := f.seedTags(t, "golang", "tutorial")

	in := minimalCreateInput("intro")
	in.TagIDs = tagIDs
	videoID, err := f.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	video, err := f.svc.GetByID(ctx, videoID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if video.UploadedBy != 42 {
		t.Fatalf("uploadedBy must come from the caller, got %d", video.UploadedBy)
	}
	if video.Status != types.VideoStatusPublished {
		t.Fatalf("omitted status should default to published, got %q", video.Status)
	}

	tags, err := f.svc.GetTags(ctx, videoID)
	if err != nil {
		t.Fatalf("GetTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
}

func TestVideoServiceListPublicPinsPublished(t *testing.T) {
	f := newVideoServiceFixture(t)
	ctx := adminContext(1)

	published := minimalCreateInput("live")
	if _, err := f.svc.Create(ctx, published); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	draft := minimalCreateInput("wip")
	draft.Status = types.VideoStatusDraft
	if _, err := f.svc.Create(ctx, draft); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A caller-supplied status is overridden, not honored.
	videos, err := f.svc.ListPublic(context.Background(), types.VideoFilter{Status: types.VideoStatusDraft})
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}
	if len(videos) != 1 || videos[0].Slug != "live" {
		t.Fatalf("expected only the published video, got %v", slugsOf(videos))
	}

	all, err := f.svc.ListAdmin(context.Background(), types.VideoFilter{})
	if err != nil {
		t.Fatalf("ListAdmin failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin listing should span statuses, got %v", slugsOf(all))
	}

	if _, err := f.svc.ListAdmin(context.Background(), types.VideoFilter{Status: "bogus"}); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus admin status, got %v", err)
	}
}

func TestVideoServiceUpdateReplacesTags(t *testing.T) {
	f := newVideoServiceFixture(t)
	ctx := adminContext(1)
	tagIDs := f.seedTags(t, "a", "b", "c")

	in := minimalCreateInput("retag")
	in.TagIDs = tagIDs[:2]
	videoID, err := f.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// nil TagIDs leaves associations alone.
	title := "Renamed"
	if err := f.svc.Update(ctx, videoID, UpdateVideoInput{Title: &title}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	tags, _ := f.svc.GetTags(ctx, videoID)
	if len(tags) != 2 {
		t.Fatalf("nil TagIDs must not touch tags, got %d", len(tags))
	}

	// A non-nil set fully replaces.
	replacement := tagIDs[2:]
	if err := f.svc.Update(ctx, videoID, UpdateVideoInput{TagIDs: &replacement}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	tags, _ = f.svc.GetTags(ctx, videoID)
	if len(tags) != 1 || tags[0].Name != "c" {
		t.Fatalf("expected only tag c, got %d tags", len(tags))
	}

	// The empty slice clears everything.
	empty := []int64{}
	if err := f.svc.Update(ctx, videoID, UpdateVideoInput{TagIDs: &empty}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	tags, _ = f.svc.GetTags(ctx, videoID)
	if len(tags) != 0 {
		t.Fatalf("expected cleared tags, got %d", len(tags))
	}

	video, err := f.svc.GetByID(ctx, videoID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if video.Title != "Renamed" {
		t.Fatalf("field update lost: %q", video.Title)
	}
}

func TestVideoServiceDeleteRemovesAssociations(t *testing.T) {
	f := newVideoServiceFixture(t)
	ctx := adminContext(1)
	tagIDs := f.seedTags(t, "doomed")

	in := minimalCreateInput("gone")
	in.TagIDs = tagIDs
	videoID, err := f.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	f.bucket.objects[in.VideoKey] = []byte("payload")

	if err := f.svc.Delete(ctx, videoID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, ok := f.bucket.objects[in.VideoKey]; ok {
		t.Fatalf("expected stored object %q to be deleted", in.VideoKey)
	}

	if _, err := f.svc.GetByID(ctx, videoID); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
	rows, err := f.videoTagRepo.ListByVideoIDs(ctx, nil, []int64{videoID})
	if err != nil {
		t.Fatalf("ListByVideoIDs failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected join rows gone, got %d", len(rows))
	}
}

func TestVideoServiceGetBySlugAndViews(t *testing.T) {
	f := newVideoServiceFixture(t)
	ctx := adminContext(1)

	videoID, err := f.svc.Create(ctx, minimalCreateInput("watchme"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.svc.GetBySlug(ctx, "missing"); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slug, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := f.svc.IncrementViews(context.Background(), videoID); err != nil {
			t.Fatalf("IncrementViews failed: %v", err)
		}
	}
	video, err := f.svc.GetBySlug(ctx, "watchme")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if video.ViewCount != 3 {
		t.Fatalf("expected 3 views, got %d", video.ViewCount)
	}
}

func slugsOf(videos []*types.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.Slug)
	}
	return out
}
