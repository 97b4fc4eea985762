package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

type UploadHandler struct {
	BaseHandler
	service services.MediaService
}

func NewUploadHandler(service services.MediaService, logger utils.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Upload stores one multipart "file" in the requested folder and returns its URL.
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, closeFile, err := formUpload(c, "file")
	if err != nil {
		h.LogError(c, err, "Failed to open upload")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid file"})
		return
	}
	defer closeFile()

	url, err := h.service.Upload(c.Request.Context(), file, c.PostForm("folder"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: gin.H{"url": url}})
}
