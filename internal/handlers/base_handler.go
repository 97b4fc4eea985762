package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps a single record or acknowledgement.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse is the paginated list envelope.
type ListResponse struct {
	Success    bool                `json:"success"`
	Data       interface{}         `json:"data"`
	Pagination services.Pagination `json:"pagination"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.LoggerFromContext(c.Request.Context(), h.logger)
}

// LogRequest logs an incoming request with additional key/value pairs.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	h.log(c).Debug(msg, append([]any{"method", c.Request.Method, "path", c.FullPath()}, args...)...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	h.log(c).Error(msg, append([]any{"error", err}, args...)...)
}

// identity returns the verified caller placed on the request context by SessionMiddleware.
func (h *BaseHandler) identity(c *gin.Context) *auth.Identity {
	id, _ := auth.IdentityFromContext(c.Request.Context())
	return id
}

// requireIdentity writes a 401 and returns nil when the request carries no session.
func (h *BaseHandler) requireIdentity(c *gin.Context) *auth.Identity {
	id := h.identity(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	}
	return id
}

// idParam returns the trimmed path parameter or writes a 400.
func (h *BaseHandler) idParam(c *gin.Context, name string) (string, bool) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing " + name})
		return "", false
	}
	return id, true
}

func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (h *BaseHandler) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// handleServiceError maps service errors onto HTTP statuses. Unknown errors
// are logged and reported as a generic 500.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: permissionError.Reason,
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
			},
		})
		return
	}

	var conflictError *services.ConflictError
	if errors.As(err, &conflictError) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: conflictError.Message,
			Details: map[string]interface{}{"field": conflictError.Field},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid name or password"})
	case errors.Is(err, services.ErrAdminMismatch):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Unauthorized"})
	case errors.Is(err, services.ErrActingUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Admin user not found"})
	case errors.Is(err, services.ErrStaffNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found"})
	case errors.Is(err, services.ErrSelfRoleChange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "You cannot change your own role"})
	case errors.Is(err, services.ErrSelfDelete):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "You cannot delete your own account"})
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Course not found"})
	case errors.Is(err, services.ErrBlogNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Blog not found"})
	case errors.Is(err, services.ErrVideoNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Video not found"})
	case errors.Is(err, services.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Registration not found"})
	case errors.Is(err, services.ErrNoIDs):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "No ids provided"})
	case errors.Is(err, services.ErrNoUpdates):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "No updates provided"})
	case errors.Is(err, services.ErrNoValidFields):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "No valid fields to update"})
	case errors.Is(err, services.ErrMissingFile):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "File is required"})
	default:
		h.LogError(c, err, "Unhandled service error", "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
