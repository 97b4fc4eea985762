package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

type ManagementHandler struct {
	BaseHandler
	service services.ManagementService
}

func NewManagementHandler(service services.ManagementService, logger utils.Logger) *ManagementHandler {
	return &ManagementHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Register is the public staff sign-up. New accounts are always EMPLOYEE.
// @Router /management [post]
func (h *ManagementHandler) Register(c *gin.Context) {
	var req services.RegisterStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}

	staff, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    staff,
	})
}

// @Router /management [get]
func (h *ManagementHandler) List(c *gin.Context) {
	h.LogRequest(c, "Listing staff")

	var req services.StaffListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	staff, err := h.service.List(c.Request.Context(), h.identity(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: staff})
}

// UpdateRole changes another member's role. The acting admin is the session
// identity; a body adminId is only cross-checked against it.
// @Router /management/update-role [post]
func (h *ManagementHandler) UpdateRole(c *gin.Context) {
	var req services.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	staff, err := h.service.UpdateRole(c.Request.Context(), h.identity(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Role updated successfully",
		Data:    staff,
	})
}

// @Router /management/{id} [delete]
func (h *ManagementHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), h.identity(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "User deleted successfully"})
}
