package payment

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawedgym/internal/auth"
	"shawedgym/internal/scope"
)

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	h := NewHandler(sqlx.NewDb(sqlDB, "sqlmock"))
	r := gin.New()
	g := r.Group("/gyms/:id", func(c *gin.Context) {
		auth.SetPrincipal(c, auth.Principal{UserID: 3, Role: auth.RoleCashier})
		scope.SetGymID(c, 10)
		c.Next()
	})
	g.POST("/payments", h.Record)
	g.GET("/payments", h.List)
	return r, mock
}

func TestHandler_Record(t *testing.T) {
	r, mock := setupRouter(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(10, 5, int64(2500), "mobile", nil, sqlmock.AnyArg(), 3).
		WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(1, 10, 5, 2500, "mobile", nil, now, 3, now))

	req := httptest.NewRequest(http.MethodPost, "/gyms/10/payments", bytes.NewBufferString(`{"member_id":5,"amount_cents":2500,"method":"mobile"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Record_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative amount", `{"member_id":5,"amount_cents":-1,"method":"cash"}`},
		{"unknown method", `{"member_id":5,"amount_cents":100,"method":"barter"}`},
		{"missing member", `{"amount_cents":100,"method":"cash"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupRouter(t)
			req := httptest.NewRequest(http.MethodPost, "/gyms/10/payments", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_List(t *testing.T) {
	r, mock := setupRouter(t)
	mock.ExpectQuery(`FROM payments`).
		WithArgs(10, 0, 20, 0).
		WillReturnRows(sqlmock.NewRows(paymentCols))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gyms/10/payments?limit=20", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
