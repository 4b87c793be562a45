package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/response"
	"github.com/rkjewellers/billing-api/pkg/apperror"
)

// bindJSON decodes the request body into req. Binding rule failures reply
// 422 with one entry per field, anything else replies 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   fe.Field(),
				Message: "failed on the '" + fe.Tag() + "' rule",
			})
		}
		response.ValidationError(c, fields)
		return false
	}

	response.BadRequest(c, "Invalid request body: "+err.Error())
	return false
}

// pathID returns the trimmed :id path parameter, replying 400 when blank
func pathID(c *gin.Context, resource string) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return "", false
	}
	return id, true
}
