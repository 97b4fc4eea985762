package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

// maxUploadMemory bounds the multipart form held in memory; larger parts spill to disk.
const maxUploadMemory = 32 << 20

type VideoHandler struct {
	BaseHandler
	service services.VideoService
}

func NewVideoHandler(service services.VideoService, logger utils.Logger) *VideoHandler {
	return &VideoHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Create accepts a multipart form: title, description, video (or file) and
// an optional thumbnail.
// @Router /videos [post]
func (h *VideoHandler) Create(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid multipart form", Details: err.Error()})
		return
	}

	req := services.CreateVideoRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	video, closeVideo, err := formUpload(c, "video", "file")
	if err != nil {
		h.LogError(c, err, "Failed to open video upload")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid video file"})
		return
	}
	defer closeVideo()
	req.Video = video

	thumb, closeThumb, err := formUpload(c, "thumbnail")
	if err != nil {
		h.LogError(c, err, "Failed to open thumbnail upload")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid thumbnail file"})
		return
	}
	defer closeThumb()
	req.Thumbnail = thumb

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Message: "Video uploaded successfully", Data: created})
}

func (h *VideoHandler) List(c *gin.Context) {
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

func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	video, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: video})
}

func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Video deleted successfully"})
}

// formUpload opens the first present file field among names. A missing field
// yields a nil upload and no error.
func formUpload(c *gin.Context, names ...string) (*services.Upload, func(), error) {
	noop := func() {}
	for _, name := range names {
		header, err := c.FormFile(name)
		if err != nil {
			continue
		}
		file, err := header.Open()
		if err != nil {
			return nil, noop, err
		}
		return uploadFrom(file, header), func() { _ = file.Close() }, nil
	}
	return nil, noop, nil
}

func uploadFrom(file multipart.File, header *multipart.FileHeader) *services.Upload {
	return &services.Upload{
		Reader:      file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
}
