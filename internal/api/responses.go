package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/apperror"
	"shawedgym/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Code  string `json:"code,omitempty" example:"not_found"`
}

type QuotaErrorResponse struct {
	Error   string `json:"error" example:"members quota exceeded for gym 1: 50/50"`
	Code    string `json:"code" example:"quota_exceeded"`
	Limit   int    `json:"limit" example:"50"`
	Current int    `json:"current" example:"50"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// StatusFor returns the HTTP status used for err.
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindConflict, apperror.KindQuotaExceeded:
		return http.StatusConflict
	case apperror.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as JSON and aborts the gin chain.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	kind := apperror.KindOf(err)

	var qe *apperror.QuotaExceededError
	if errors.As(err, &qe) {
		c.AbortWithStatusJSON(status, QuotaErrorResponse{
			Error:   qe.Error(),
			Code:    string(apperror.KindQuotaExceeded),
			Limit:   qe.Limit,
			Current: qe.Current,
		})
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
	}
	if kind == apperror.KindUnavailable {
		c.Header("Retry-After", "1")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: apperror.Message(err),
		Code:  string(kind),
	})
}
