package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/http/response"
	"github.com/videoshowcase/backend/internal/services"
	"github.com/videoshowcase/backend/internal/types"
)

// VideoHandler serves the public catalog surface. Listing always pins
// status=published; drafts and archived videos are invisible here.
type VideoHandler struct {
	videoService services.VideoService
}

func NewVideoHandler(videoService services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

func (vh *VideoHandler) List(c *gin.Context) {
	filter, err := parseVideoFilter(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	videos, err := vh.videoService.ListPublic(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, videos)
}

func (vh *VideoHandler) GetBySlug(c *gin.Context) {
	video, err := vh.videoService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, video)
}

func (vh *VideoHandler) GetTags(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	tags, err := vh.videoService.GetTags(c.Request.Context(), videoID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tags)
}

func (vh *VideoHandler) IncrementViews(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := vh.videoService.IncrementViews(c.Request.Context(), videoID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// parseVideoFilter reads the shared listing query params. Status is parsed
// here too; public routes overwrite it downstream.
func parseVideoFilter(c *gin.Context) (types.VideoFilter, error) {
	var filter types.VideoFilter
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = categoryID
	}
	if raw := c.Query("tagIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			tagID, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return filter, err
			}
			filter.TagIDs = append(filter.TagIDs, tagID)
		}
	}
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Status = types.VideoStatus(strings.TrimSpace(c.Query("status")))
	return filter, nil
}
