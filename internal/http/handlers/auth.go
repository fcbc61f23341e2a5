package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videoshowcase/backend/internal/http/response"
	"github.com/videoshowcase/backend/internal/requestdata"
	"github.com/videoshowcase/backend/internal/services"
)

// RefreshCookieName is the httponly cookie carrying the rotating refresh
// credential. It is scoped to the auth endpoints and never readable by
// client-side code.
const RefreshCookieName = "vs_refresh"

const refreshCookiePath = "/api/auth"

type AuthHandler struct {
	authService   services.AuthService
	userService   services.UserService
	secureCookies bool
}

func NewAuthHandler(authService services.AuthService, userService services.UserService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, secureCookies: secureCookies}
}

// Session exchanges the OAuth callback identity for an access token and a
// refresh cookie, upserting the user record keyed on openId.
func (ah *AuthHandler) Session(c *gin.Context) {
	var req struct {
		OpenID      string `json:"openId" binding:"required"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		LoginMethod string `json:"loginMethod"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	accessToken, refreshCredential, user, err := ah.authService.StartSession(c.Request.Context(), services.SessionInput{
		OpenID:      req.OpenID,
		Name:        req.Name,
		Email:       req.Email,
		LoginMethod: req.LoginMethod,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	ah.setRefreshCookie(c, refreshCredential, int(ah.authService.GetRefreshTTL().Seconds()))
	response.RespondOK(c, gin.H{
		"accessToken": accessToken,
		"expiresIn":   int(ah.authService.GetAccessTTL().Seconds()),
		"user":        user,
	})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	credential, err := c.Cookie(RefreshCookieName)
	if err != nil || credential == "" {
		response.RespondError(c, http.StatusUnauthorized, "missing_refresh_token", err)
		return
	}
	accessToken, newCredential, err := ah.authService.Refresh(c.Request.Context(), credential)
	if err != nil {
		ah.setRefreshCookie(c, "", -1)
		response.RespondServiceError(c, err)
		return
	}
	ah.setRefreshCookie(c, newCredential, int(ah.authService.GetRefreshTTL().Seconds()))
	response.RespondOK(c, gin.H{
		"accessToken": accessToken,
		"expiresIn":   int(ah.authService.GetAccessTTL().Seconds()),
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if credential, err := c.Cookie(RefreshCookieName); err == nil && credential != "" {
		if err := ah.authService.Logout(c.Request.Context(), credential); err != nil {
			response.RespondServiceError(c, err)
			return
		}
	}
	ah.setRefreshCookie(c, "", -1)
	response.RespondOK(c, gin.H{"success": true})
}

// Me returns the authenticated user, or null for anonymous callers. It sits
// behind OptionalAuth, so an invalid token degrades to anonymous rather than
// erroring.
func (ah *AuthHandler) Me(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondOK(c, nil)
		return
	}
	user, err := ah.userService.GetByID(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondOK(c, nil)
		return
	}
	response.RespondOK(c, user)
}

func (ah *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, value, maxAge, refreshCookiePath, "", ah.secureCookies, true)
}
