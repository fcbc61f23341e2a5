package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/http/response"
	"github.com/videoshowcase/backend/internal/services"
)

type AdminTagHandler struct {
	tagService services.TagService
}

func NewAdminTagHandler(tagService services.TagService) *AdminTagHandler {
	return &AdminTagHandler{tagService: tagService}
}

func (ath *AdminTagHandler) List(c *gin.Context) {
	tags, err := ath.tagService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tags)
}

func (ath *AdminTagHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tagID, err := ath.tagService.Create(c.Request.Context(), services.CreateTagInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": tagID})
}

func (ath *AdminTagHandler) Update(c *gin.Context) {
	tagID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Name *string `json:"name"`
		Slug *string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	err = ath.tagService.Update(c.Request.Context(), tagID, services.UpdateTagInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

func (ath *AdminTagHandler) Delete(c *gin.Context) {
	tagID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ath.tagService.Delete(c.Request.Context(), tagID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
