package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/http/response"
	"github.com/videoshowcase/backend/internal/services"
	"github.com/videoshowcase/backend/internal/types"
)

// AdminVideoHandler is the management surface: full CRUD over any status,
// plus upload proxying to the object store. The router guards every route
// with RequireAuth + RequireAdmin.
type AdminVideoHandler struct {
	videoService  services.VideoService
	uploadService services.UploadService
}

func NewAdminVideoHandler(videoService services.VideoService, uploadService services.UploadService) *AdminVideoHandler {
	return &AdminVideoHandler{videoService: videoService, uploadService: uploadService}
}

func (avh *AdminVideoHandler) List(c *gin.Context) {
	filter, err := parseVideoFilter(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	videos, err := avh.videoService.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, videos)
}

func (avh *AdminVideoHandler) GetByID(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	video, err := avh.videoService.GetByID(c.Request.Context(), videoID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, video)
}

func (avh *AdminVideoHandler) Create(c *gin.Context) {
	var req struct {
		Title        string            `json:"title" binding:"required"`
		Slug         string            `json:"slug" binding:"required"`
		Description  string            `json:"description"`
		VideoURL     string            `json:"videoUrl" binding:"required"`
		VideoKey     string            `json:"videoKey" binding:"required"`
		ThumbnailURL string            `json:"thumbnailUrl"`
		ThumbnailKey string            `json:"thumbnailKey"`
		Duration     *int              `json:"duration"`
		FileSize     *int64            `json:"fileSize"`
		MimeType     string            `json:"mimeType"`
		CategoryID   *int64            `json:"categoryId"`
		Status       types.VideoStatus `json:"status"`
		TagIDs       []int64           `json:"tagIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	videoID, err := avh.videoService.Create(c.Request.Context(), services.CreateVideoInput{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		VideoKey:     req.VideoKey,
		ThumbnailURL: req.ThumbnailURL,
		ThumbnailKey: req.ThumbnailKey,
		Duration:     req.Duration,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		CategoryID:   req.CategoryID,
		Status:       req.Status,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": videoID})
}

func (avh *AdminVideoHandler) Update(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Title        *string            `json:"title"`
		Slug         *string            `json:"slug"`
		Description  *string            `json:"description"`
		VideoURL     *string            `json:"videoUrl"`
		VideoKey     *string            `json:"videoKey"`
		ThumbnailURL *string            `json:"thumbnailUrl"`
		ThumbnailKey *string            `json:"thumbnailKey"`
		Duration     *int               `json:"duration"`
		FileSize     *int64             `json:"fileSize"`
		MimeType     *string            `json:"mimeType"`
		CategoryID   *int64             `json:"categoryId"`
		Status       *types.VideoStatus `json:"status"`
		TagIDs       *[]int64           `json:"tagIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	err = avh.videoService.Update(c.Request.Context(), videoID, services.UpdateVideoInput{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		VideoKey:     req.VideoKey,
		ThumbnailURL: req.ThumbnailURL,
		ThumbnailKey: req.ThumbnailKey,
		Duration:     req.Duration,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		CategoryID:   req.CategoryID,
		Status:       req.Status,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

func (avh *AdminVideoHandler) Delete(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := avh.videoService.Delete(c.Request.Context(), videoID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

type uploadRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileData string `json:"fileData" binding:"required"`
	MimeType string `json:"mimeType" binding:"required"`
}

func (avh *AdminVideoHandler) UploadVideo(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := avh.uploadService.UploadVideo(c.Request.Context(), req.FileName, req.FileData, req.MimeType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": result.URL, "key": result.Key})
}

func (avh *AdminVideoHandler) UploadThumbnail(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := avh.uploadService.UploadThumbnail(c.Request.Context(), req.FileName, req.FileData, req.MimeType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": result.URL, "key": result.Key})
}
