package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawedgym/internal/apperror"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.Validation("op", "bad"), http.StatusBadRequest},
		{"not found", apperror.NotFound("op", "missing"), http.StatusNotFound},
		{"forbidden", apperror.Forbidden("op"), http.StatusForbidden},
		{"conflict", apperror.Conflict("op", "dup"), http.StatusConflict},
		{"quota", &apperror.QuotaExceededError{}, http.StatusConflict},
		{"unavailable", apperror.Unavailable("op", errors.New("down")), http.StatusServiceUnavailable},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func runRespondError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		RespondError(c, err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRespondError_Quota(t *testing.T) {
	w := runRespondError(&apperror.QuotaExceededError{GymID: 1, Resource: "members", Current: 50, Limit: 50})

	assert.Equal(t, http.StatusConflict, w.Code)

	var body QuotaErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "quota_exceeded", body.Code)
	assert.Equal(t, 50, body.Limit)
	assert.Equal(t, 50, body.Current)
}

func TestRespondError_Unavailable(t *testing.T) {
	w := runRespondError(apperror.Unavailable("member.create", errors.New("dial tcp")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestRespondError_InternalHidesDetails(t *testing.T) {
	w := runRespondError(errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRespondError_ForbiddenIsUniform(t *testing.T) {
	a := runRespondError(apperror.Forbidden("gym.get"))
	b := runRespondError(apperror.Forbidden("member.get"))

	assert.Equal(t, http.StatusForbidden, a.Code)
	assert.Equal(t, a.Body.String(), b.Body.String())
}
