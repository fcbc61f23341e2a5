package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/http/response"
	"github.com/videoshowcase/backend/internal/services"
	"github.com/videoshowcase/backend/internal/types"
)

type AdminUserHandler struct {
	userService services.UserService
}

func NewAdminUserHandler(userService services.UserService) *AdminUserHandler {
	return &AdminUserHandler{userService: userService}
}

func (auh *AdminUserHandler) List(c *gin.Context) {
	users, err := auh.userService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, users)
}

func (auh *AdminUserHandler) UpdateRole(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Role types.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := auh.userService.UpdateRole(c.Request.Context(), userID, req.Role); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

func (auh *AdminUserHandler) Delete(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := auh.userService.Delete(c.Request.Context(), userID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
