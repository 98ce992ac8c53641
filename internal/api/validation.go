package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"shawedgym/internal/apperror"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error   string       `json:"error" example:"validation failed"`
	Code    string       `json:"code" example:"validation"`
	Details []FieldError `json:"details,omitempty"`
}

// ValidationDetails flattens validator errors produced by gin binding. It
// returns nil for any other error, such as malformed JSON.
func ValidationDetails(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// BadRequest is used for bodies and queries rejected by gin binding.
func BadRequest(c *gin.Context, err error) {
	resp := ValidationErrorResponse{
		Error: "invalid request body",
		Code:  string(apperror.KindValidation),
	}
	if details := ValidationDetails(err); details != nil {
		resp.Error = "validation failed"
		resp.Details = details
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
