package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/http/handlers"
	"github.com/videoshowcase/backend/internal/middleware"
	"github.com/videoshowcase/backend/internal/repos"
	"github.com/videoshowcase/backend/internal/services"
	"github.com/videoshowcase/backend/internal/testutil"
)

const ownerOpenID = "oauth|owner"

type stubUploads struct{}

func (stubUploads) UploadVideo(ctx context.Context, fileName, fileData, mimeType string) (*services.UploadResult, error) {
	return &services.UploadResult{URL: "https://cdn.example.com/videos/1/" + fileName, Key: "videos/1/" + fileName}, nil
}

func (stubUploads) UploadThumbnail(ctx context.Context, fileName, fileData, mimeType string) (*services.UploadResult, error) {
	return &services.UploadResult{URL: "https://cdn.example.com/thumbnails/1/" + fileName, Key: "thumbnails/1/" + fileName}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	log := testutil.NewLogger()

	userRepo := repos.NewUserRepo(db, log)
	userTokenRepo := repos.NewUserTokenRepo(db, log)
	videoRepo := repos.NewVideoRepo(db, log)
	videoTagRepo := repos.NewVideoTagRepo(db, log)
	categoryRepo := repos.NewCategoryRepo(db, log)
	tagRepo := repos.NewTagRepo(db, log)

	authSvc := services.NewAuthService(db, log, userRepo, userTokenRepo,
		"test-secret", ownerOpenID, time.Hour, 24*time.Hour)
	userSvc := services.NewUserService(db, log, userRepo, userTokenRepo)
	videoSvc := services.NewVideoService(db, log, videoRepo, videoTagRepo, nil)
	categorySvc := services.NewCategoryService(db, log, categoryRepo, videoRepo)
	tagSvc := services.NewTagService(db, log, tagRepo, videoTagRepo)

	authMiddleware := middleware.NewAuthMiddleware(log, authSvc)
	return NewRouter(RouterConfig{
		AllowOrigins:         []string{"http://localhost:3000"},
		AuthMiddleware:       authMiddleware,
		AuthHandler:          handlers.NewAuthHandler(authSvc, userSvc, false),
		VideoHandler:         handlers.NewVideoHandler(videoSvc),
		CategoryHandler:      handlers.NewCategoryHandler(categorySvc),
		TagHandler:           handlers.NewTagHandler(tagSvc),
		AdminVideoHandler:    handlers.NewAdminVideoHandler(videoSvc, stubUploads{}),
		AdminCategoryHandler: handlers.NewAdminCategoryHandler(categorySvc),
		AdminTagHandler:      handlers.NewAdminTagHandler(tagSvc),
		AdminUserHandler:     handlers.NewAdminUserHandler(userSvc),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
}

func startSession(t *testing.T, router *gin.Engine, openID string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/session", "", map[string]string{"openId": openID})
	if rec.Code != http.StatusOK {
		t.Fatalf("session for %q: expected 200, got %d: %s", openID, rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	decodeInto(t, rec, &resp)
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	return resp.AccessToken
}

func TestRouterPublicCatalogFlow(t *testing.T) {
	router := newTestRouter(t)
	adminToken := startSession(t, router, ownerOpenID)

	// Build the catalog: a category, a tag, then a published and a draft video.
	rec := doJSON(t, router, http.MethodPost, "/api/admin/categories", adminToken,
		map[string]string{"name": "Tech", "slug": "tech"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create category: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeInto(t, rec, &created)
	categoryID := created.ID

	rec = doJSON(t, router, http.MethodPost, "/api/admin/tags", adminToken,
		map[string]string{"name": "golang", "slug": "golang"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create tag: %d %s", rec.Code, rec.Body.String())
	}
	decodeInto(t, rec, &created)
	tagID := created.ID

	rec = doJSON(t, router, http.MethodPost, "/api/admin/videos", adminToken, map[string]interface{}{
		"title":      "Intro to Go",
		"slug":       "intro-to-go",
		"videoUrl":   "https://cdn.example.com/intro.mp4",
		"videoKey":   "videos/1/intro.mp4",
		"categoryId": categoryID,
		"tagIds":     []int64{tagID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create video: %d %s", rec.Code, rec.Body.String())
	}
	decodeInto(t, rec, &created)
	videoID := created.ID

	rec = doJSON(t, router, http.MethodPost, "/api/admin/videos", adminToken, map[string]interface{}{
		"title":    "Unfinished",
		"slug":     "unfinished",
		"videoUrl": "https://cdn.example.com/wip.mp4",
		"videoKey": "videos/1/wip.mp4",
		"status":   "draft",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create draft: %d %s", rec.Code, rec.Body.String())
	}

	// Public listing hides the draft.
	rec = doJSON(t, router, http.MethodGet, "/api/videos", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list videos: %d", rec.Code)
	}
	var listed []struct {
		Slug string `json:"slug"`
	}
	decodeInto(t, rec, &listed)
	if len(listed) != 1 || listed[0].Slug != "intro-to-go" {
		t.Fatalf("expected only the published video, got %v", listed)
	}

	// Filters flow through the query string.
	rec = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/videos?categoryId=%d&tagIds=%d&search=go", categoryID, tagID), "", nil)
	decodeInto(t, rec, &listed)
	if len(listed) != 1 {
		t.Fatalf("filtered listing should still match, got %v", listed)
	}

	// Detail by slug, tags, and the view counter.
	rec = doJSON(t, router, http.MethodGet, "/api/videos/slug/intro-to-go", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug: %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/videos/%d/tags", videoID), "", nil)
	var tags []struct {
		Name string `json:"name"`
	}
	decodeInto(t, rec, &tags)
	if len(tags) != 1 || tags[0].Name != "golang" {
		t.Fatalf("expected golang tag, got %v", tags)
	}

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/videos/%d/views", videoID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("increment views: %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/videos/slug/intro-to-go", "", nil)
	var detail struct {
		ViewCount int64 `json:"viewCount"`
	}
	decodeInto(t, rec, &detail)
	if detail.ViewCount != 1 {
		t.Fatalf("expected 1 view, got %d", detail.ViewCount)
	}

	// Public reference lists.
	rec = doJSON(t, router, http.MethodGet, "/api/categories", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list categories: %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/tags", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tags: %d", rec.Code)
	}
}

func TestRouterAdminGateAndUserManagement(t *testing.T) {
	router := newTestRouter(t)
	adminToken := startSession(t, router, ownerOpenID)
	memberToken := startSession(t, router, "oauth|member")

	// Unauthenticated and non-admin callers bounce off every admin route.
	rec := doJSON(t, router, http.MethodGet, "/api/admin/videos", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous admin access: expected 401, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/api/admin/categories", memberToken,
		map[string]string{"name": "Sneaky", "slug": "sneaky"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member admin access: expected 403, got %d", rec.Code)
	}
	// The rejected write left nothing behind.
	rec = doJSON(t, router, http.MethodGet, "/api/categories", "", nil)
	var categories []struct {
		Slug string `json:"slug"`
	}
	decodeInto(t, rec, &categories)
	if len(categories) != 0 {
		t.Fatalf("forbidden create must not persist, got %v", categories)
	}

	// The owner promotes the member, who can then reach the console.
	rec = doJSON(t, router, http.MethodGet, "/api/admin/users", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: %d", rec.Code)
	}
	var users []struct {
		ID     int64  `json:"id"`
		OpenID string `json:"openId"`
	}
	decodeInto(t, rec, &users)
	var memberID int64
	for _, u := range users {
		if u.OpenID == "oauth|member" {
			memberID = u.ID
		}
	}
	if memberID == 0 {
		t.Fatalf("member not in user list: %v", users)
	}

	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d", memberID), adminToken,
		map[string]string{"role": "admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("promote member: %d %s", rec.Code, rec.Body.String())
	}

	// Roles live in the token, so the member signs in again to pick it up.
	promotedToken := startSession(t, router, "oauth|member")
	rec = doJSON(t, router, http.MethodGet, "/api/admin/videos", promotedToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("promoted member admin access: expected 200, got %d", rec.Code)
	}
}

func TestRouterAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	// me is null for anonymous callers.
	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "null" {
		t.Fatalf("anonymous me: expected null, got %d %q", rec.Code, rec.Body.String())
	}

	// Session sets the refresh cookie.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/session", "", map[string]string{"openId": "oauth|member"})
	if rec.Code != http.StatusOK {
		t.Fatalf("session: %d", rec.Code)
	}
	var refreshCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == handlers.RefreshCookieName {
			refreshCookie = cookie
		}
	}
	if refreshCookie == nil || refreshCookie.Value == "" || !refreshCookie.HttpOnly {
		t.Fatalf("expected an httponly refresh cookie, got %+v", refreshCookie)
	}

	var sessionResp struct {
		AccessToken string `json:"accessToken"`
		ExpiresIn   int    `json:"expiresIn"`
	}
	decodeInto(t, rec, &sessionResp)
	if sessionResp.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s access ttl, got %d", sessionResp.ExpiresIn)
	}

	// me with the token returns the user.
	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", sessionResp.AccessToken, nil)
	var me struct {
		OpenID string `json:"openId"`
	}
	decodeInto(t, rec, &me)
	if me.OpenID != "oauth|member" {
		t.Fatalf("expected member identity, got %q", me.OpenID)
	}

	// Refresh with the cookie rotates it and returns a fresh token.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rr.Code, rr.Body.String())
	}
	var rotated *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == handlers.RefreshCookieName {
			rotated = cookie
		}
	}
	if rotated == nil || rotated.Value == "" || rotated.Value == refreshCookie.Value {
		t.Fatal("expected a rotated refresh cookie")
	}

	// The consumed cookie is dead, and the failed refresh clears it.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh: expected 401, got %d", rr.Code)
	}

	// Missing cookie entirely.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh without cookie: expected 401, got %d", rec.Code)
	}

	// Logout revokes the rotated credential.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(rotated)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: %d", rr.Code)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(rotated)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", rr.Code)
	}
}

func TestRouterAdminUpload(t *testing.T) {
	router := newTestRouter(t)
	adminToken := startSession(t, router, ownerOpenID)

	rec := doJSON(t, router, http.MethodPost, "/api/admin/videos/upload", adminToken, map[string]string{
		"fileName": "clip.mp4",
		"fileData": "aGVsbG8=",
		"mimeType": "video/mp4",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
		Key string `json:"key"`
	}
	decodeInto(t, rec, &resp)
	if resp.URL == "" || resp.Key == "" {
		t.Fatalf("expected url and key, got %+v", resp)
	}

	// Missing fields fail binding before the service runs.
	rec = doJSON(t, router, http.MethodPost, "/api/admin/videos/upload", adminToken, map[string]string{
		"fileName": "clip.mp4",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("incomplete upload: expected 400, got %d", rec.Code)
	}
}
