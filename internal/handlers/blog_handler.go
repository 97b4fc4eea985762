package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

type BlogHandler struct {
	BaseHandler
	service services.BlogService
}

func NewBlogHandler(service services.BlogService, logger utils.Logger) *BlogHandler {
	return &BlogHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req services.CreateBlogRequest
	if !h.bindJSON(c, &req) {
		return
	}

	blog, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Message: "Blog created successfully", Data: blog})
}

func (h *BlogHandler) List(c *gin.Context) {
	var req services.PageQuery
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

func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	blog, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: blog})
}

func (h *BlogHandler) GetBySlug(c *gin.Context) {
	slug, ok := h.idParam(c, "slug")
	if !ok {
		return
	}

	blog, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: blog})
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBlogRequest
	if !h.bindJSON(c, &req) {
		return
	}

	blog, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Blog updated successfully", Data: blog})
}

func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Blog deleted successfully"})
}
