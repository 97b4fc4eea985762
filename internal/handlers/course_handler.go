package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req services.CreateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Message: "Course created successfully", Data: course})
}

// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var req services.CourseListRequest
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

// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	course, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: course})
}

// @Router /courses/{id} [patch]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Course updated successfully", Data: course})
}

// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Course deleted successfully"})
}

// BulkDelete reports only how many rows the store removed.
// @Router /courses/bulk-delete [post]
func (h *CourseHandler) BulkDelete(c *gin.Context) {
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

// @Router /courses/bulk-edit [post]
func (h *CourseHandler) BulkEdit(c *gin.Context) {
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
