package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"github.com/rkjewellers/billing-api/pkg/pagination"
	"go.uber.org/zap"
)

// APIResponse is the JSON envelope of every API reply
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// newMeta reuses the request id assigned by the logger middleware so the
// envelope and the log line can be matched
func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// OK sends a 200 reply carrying data
func OK(c *gin.Context, message string, data interface{}) {
	success(c, http.StatusOK, message, data)
}

// Created sends a 201 reply carrying the new record
func Created(c *gin.Context, message string, data interface{}) {
	success(c, http.StatusCreated, message, data)
}

// SuccessWithPagination sends one page of a listing
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	success(c, statusCode, message, result)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps err onto its AppError status. Anything that is not an AppError
// is a 500, and every 5xx is logged.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()), zap.Int("status", appErr.Code), zap.Error(err))
	}
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
		Meta:    newMeta(c),
	})
}

func errorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Meta:    newMeta(c),
	})
}

// ValidationError sends a 422 listing the offending fields
func ValidationError(c *gin.Context, fields []apperror.FieldError) {
	Error(c, apperror.NewValidationError(fields))
}

func NotFound(c *gin.Context, message string) {
	errorWithCode(c, http.StatusNotFound, message)
}

func BadRequest(c *gin.Context, message string) {
	errorWithCode(c, http.StatusBadRequest, message)
}

// Attachment sends data as a file download. Exports change with every
// payment, so they are never cached.
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// Text sends a plain text body, used for messages the UI hands to other apps
func Text(c *gin.Context, body string) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
