package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/videoshowcase/backend/internal/types"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (%d %s)", e.Status, e.Code)
}

// Client talks to the catalog backend. Every request carries the session's
// bearer token; a 401 triggers exactly one refresh-and-retry, with the
// refresh shared across concurrent callers (see Session). The refresh
// credential itself travels in an httponly cookie managed by the client's
// cookie jar, so it is never readable by calling code.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.session.store = store }
}

func WithOnExpired(onExpired func()) Option {
	return func(c *Client) { c.session.onExpired = onExpired }
}

// New builds a client for baseURL. An empty baseURL falls back to the
// VIDEOSHOWCASE_API_URL environment variable and then to localhost.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = os.Getenv("VIDEOSHOWCASE_API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
	c.session = NewSession(NewMemoryTokenStore(), c.refreshAccessToken, nil)
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c, nil
}

func (c *Client) Session() *Session {
	return c.session
}

// ==================== Auth ====================

type SessionRequest struct {
	OpenID      string `json:"openId"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	LoginMethod string `json:"loginMethod,omitempty"`
}

type sessionResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int         `json:"expiresIn"`
	User        *types.User `json:"user"`
}

// StartSession logs in: the server sets the refresh cookie on the jar and the
// returned access token is installed on the session.
func (c *Client) StartSession(ctx context.Context, req SessionRequest) (*types.User, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/session", req, &resp); err != nil {
		return nil, err
	}
	c.session.SetAuthenticated(resp.AccessToken)
	return resp.User, nil
}

// Me returns the authenticated user, or nil for anonymous sessions.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var user *types.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.session.Expire()
	return nil
}

func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	var resp sessionResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh", nil, &resp, ""); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// ==================== Public catalog ====================

type ListVideosParams struct {
	CategoryID int64
	TagIDs     []int64
	Search     string
	Status     string
}

func (p ListVideosParams) query() string {
	values := url.Values{}
	if p.CategoryID != 0 {
		values.Set("categoryId", strconv.FormatInt(p.CategoryID, 10))
	}
	if len(p.TagIDs) > 0 {
		parts := make([]string, 0, len(p.TagIDs))
		for _, id := range p.TagIDs {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		values.Set("tagIds", strings.Join(parts, ","))
	}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.Status != "" {
		values.Set("status", p.Status)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func (c *Client) ListVideos(ctx context.Context, params ListVideosParams) ([]*types.Video, error) {
	var videos []*types.Video
	if err := c.do(ctx, http.MethodGet, "/api/videos"+params.query(), nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (c *Client) GetVideoBySlug(ctx context.Context, slug string) (*types.Video, error) {
	var video types.Video
	if err := c.do(ctx, http.MethodGet, "/api/videos/slug/"+url.PathEscape(slug), nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) GetVideoTags(ctx context.Context, videoID int64) ([]*types.Tag, error) {
	var tags []*types.Tag
	path := fmt.Sprintf("/api/videos/%d/tags", videoID)
	if err := c.do(ctx, http.MethodGet, path, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) IncrementVideoViews(ctx context.Context, videoID int64) error {
	path := fmt.Sprintf("/api/videos/%d/views", videoID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]*types.Category, error) {
	var categories []*types.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ListTags(ctx context.Context) ([]*types.Tag, error) {
	var tags []*types.Tag
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ==================== Admin ====================

func (c *Client) AdminListVideos(ctx context.Context, params ListVideosParams) ([]*types.Video, error) {
	var videos []*types.Video
	if err := c.do(ctx, http.MethodGet, "/api/admin/videos"+params.query(), nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (c *Client) AdminGetVideo(ctx context.Context, videoID int64) (*types.Video, error) {
	var video types.Video
	path := fmt.Sprintf("/api/admin/videos/%d", videoID)
	if err := c.do(ctx, http.MethodGet, path, nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) AdminCreateVideo(ctx context.Context, payload map[string]interface{}) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/videos", payload, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) AdminUpdateVideo(ctx context.Context, videoID int64, payload map[string]interface{}) error {
	path := fmt.Sprintf("/api/admin/videos/%d", videoID)
	return c.do(ctx, http.MethodPatch, path, payload, nil)
}

func (c *Client) AdminDeleteVideo(ctx context.Context, videoID int64) error {
	path := fmt.Sprintf("/api/admin/videos/%d", videoID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

type UploadRequest struct {
	FileName string `json:"fileName"`
	FileData string `json:"fileData"`
	MimeType string `json:"mimeType"`
}

type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

func (c *Client) AdminUploadVideo(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	var resp UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/videos/upload", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AdminUploadThumbnail(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	var resp UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/videos/upload-thumbnail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ==================== Transport ====================

// do runs one request with the 401 interception: on the first 401 the session
// refreshes (coalesced across goroutines) and the request replays exactly
// once with the new token.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	err := c.doOnce(ctx, method, path, body, out, c.session.AccessToken())
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != http.StatusUnauthorized {
		return err
	}
	token, refreshErr := c.session.Refresh(ctx)
	if refreshErr != nil {
		return err
	}
	return c.doOnce(ctx, method, path, body, out, token)
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, out interface{}, token string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(data, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
