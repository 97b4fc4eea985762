package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RegistrationHandler struct {
	BaseHandler
	service services.RegistrationService
}

func NewRegistrationHandler(service services.RegistrationService, logger utils.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Intake is the public online registration form.
// @Router /online-registration [post]
func (h *RegistrationHandler) Intake(c *gin.Context) {
	var req services.CreateRegistrationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	reg, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Message: "Registration submitted successfully", Data: reg})
}

// @Router /users [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	var req services.RegistrationListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: result.Data, Pagination: result.Pagination})
}

// @Router /users/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	reg, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: reg})
}

// @Router /users/{id} [patch]
func (h *RegistrationHandler) Update(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateRegistrationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	reg, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Registration updated successfully", Data: reg})
}

// @Router /users/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Registration deleted successfully"})
}

// @Router /users/bulk-delete [post]
func (h *RegistrationHandler) BulkDelete(c *gin.Context) {
	var req services.BulkDeleteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	deleted, err := h.service.BulkDelete(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": deleted})
}

// @Router /users/bulk-edit [post]
func (h *RegistrationHandler) BulkEdit(c *gin.Context) {
	var req services.BulkEditRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.service.BulkEdit(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updatedCount": updated})
}

// Export streams the filtered roster as an XLSX attachment. The workbook is
// built in memory first so a failure still yields a JSON error.
// @Router /users/export [get]
func (h *RegistrationHandler) Export(c *gin.Context) {
	var req services.RegistrationListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &req, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("registrations-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
