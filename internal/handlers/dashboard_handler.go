package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
	gate    *auth.Gate
}

func NewDashboardHandler(service services.DashboardService, gate *auth.Gate, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		gate:        gate,
	}
}

// Overview returns the headline counts of the admin dashboard.
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard overview")

	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: overview})
}

// RolePage serves the landing page of role. The gate has already redirected
// callers without a session and non-admins away from the admin page.
func (h *DashboardHandler) RolePage(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := h.service.ForRole(c.Request.Context(), h.identity(c), role)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: page})
	}
}

// Root is the welcome dispatcher: every caller is sent to their landing path,
// or to the login page without a session.
func (h *DashboardHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.gate.Dispatch(h.identity(c)))
}
