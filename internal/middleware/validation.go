package middleware

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/pkg/validation"
)

// HandleBindError answers 400 for a request that failed binding, listing every invalid field
func HandleBindError(c *gin.Context, err error) {
	fields := validation.FieldMessages(err)
	if fields == nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	errs := make([]dto.FieldError, 0, len(fields))
	for field, msg := range fields {
		errs = append(errs, dto.FieldError{Field: field, Message: msg})
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(errs)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
