package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/config"
	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
	cookie  config.SessionConfig
}

func NewAuthHandler(service services.AuthService, cookie config.SessionConfig, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		cookie:      cookie,
	}
}

// Login verifies credentials and issues a session token. The token is
// returned in the body and set as an HttpOnly cookie for page navigation.
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, resp.Token, int(h.service.SessionTTL().Seconds()), "/", "", h.cookie.Secure, true)

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Logged out"})
}

// Session returns the verified identity of the caller.
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	id := h.requireIdentity(c)
	if id == nil {
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: id})
}
