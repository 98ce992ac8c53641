package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email  string `json:"email" binding:"required,email"`
	Method string `json:"method" binding:"required,oneof=cash card"`
}

func bind(body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/x", func(c *gin.Context) {
		var req signup
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBadRequest_FieldDetails(t *testing.T) {
	w := bind(`{"email":"nope","method":"barter"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation", body.Code)
	require.Len(t, body.Details, 2)
	assert.Equal(t, "Email", body.Details[0].Field)
	assert.Equal(t, "email", body.Details[0].Tag)
	assert.Equal(t, "Method must be one of: cash card", body.Details[1].Message)
}

func TestBadRequest_MalformedJSON(t *testing.T) {
	w := bind(`{"email":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid request body", body.Error)
	assert.Empty(t, body.Details)
}
