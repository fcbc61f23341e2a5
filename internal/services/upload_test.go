package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/videoshowcase/backend/internal/apierr"
	"github.com/videoshowcase/backend/internal/testutil"
)

type fakeBucket struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (fb *fakeBucket) UploadObject(_ context.Context, key string, data []byte, contentType string) error {
	fb.objects[key] = data
	fb.types[key] = contentType
	return nil
}

func (fb *fakeBucket) DeleteObject(_ context.Context, key string) error {
	delete(fb.objects, key)
	return nil
}

func (fb *fakeBucket) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestUploadServiceStoresDecodedBytes(t *testing.T) {
	bucket := newFakeBucket()
	svc := NewUploadService(testutil.NewLogger(), bucket)
	ctx := adminContext(7)

	payload := []byte("fake mp4 bytes")
	result, err := svc.UploadVideo(ctx, "clip.mp4", base64.StdEncoding.EncodeToString(payload), "video/mp4")
	if err != nil {
		t.Fatalf("UploadVideo failed: %v", err)
	}
	if !strings.HasPrefix(result.Key, "videos/7/") || !strings.HasSuffix(result.Key, "-clip.mp4") {
		t.Fatalf("unexpected key %q", result.Key)
	}
	if result.URL != bucket.PublicURL(result.Key) {
		t.Fatalf("url %q does not match key %q", result.URL, result.Key)
	}
	if string(bucket.objects[result.Key]) != string(payload) {
		t.Fatalf("stored bytes differ")
	}
	if bucket.types[result.Key] != "video/mp4" {
		t.Fatalf("content type lost: %q", bucket.types[result.Key])
	}

	thumb, err := svc.UploadThumbnail(ctx, "cover.png", base64.StdEncoding.EncodeToString([]byte{1}), "image/png")
	if err != nil {
		t.Fatalf("UploadThumbnail failed: %v", err)
	}
	if !strings.HasPrefix(thumb.Key, "thumbnails/7/") {
		t.Fatalf("thumbnail key in wrong namespace: %q", thumb.Key)
	}
}

func TestUploadServiceRejectsBadInput(t *testing.T) {
	svc := NewUploadService(testutil.NewLogger(), newFakeBucket())
	ctx := adminContext(7)

	if _, err := svc.UploadVideo(context.Background(), "a.mp4", "aGk=", "video/mp4"); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}
	if _, err := svc.UploadVideo(ctx, "a.mp4", "not base64 !!!", "video/mp4"); apierr.CodeOf(err) != "invalid_file_data" {
		t.Fatalf("expected invalid_file_data, got %v", err)
	}
	if _, err := svc.UploadVideo(ctx, "a.mp4", "", "video/mp4"); apierr.CodeOf(err) != "empty_file" {
		t.Fatalf("expected empty_file, got %v", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"clip.mp4", "clip.mp4"},
		{"  spaced name.mp4 ", "spaced-name.mp4"},
		{"../../etc/passwd", "passwd"},
		{"weird$chars%.mp4", "weird-chars-.mp4"},
	}
	for _, tc := range cases {
		if got := sanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("sanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
