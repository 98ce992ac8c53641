package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawedgym/internal/apperror"
)

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestWithTx_Commit(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE gyms`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), dbx, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`UPDATE gyms SET name = 'x'`)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := apperror.Validation("test", "bad input")
	err := WithTx(context.Background(), dbx, func(tx *sqlx.Tx) error {
		return sentinel
	})
	assert.Equal(t, sentinel, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTx(context.Background(), dbx, func(tx *sqlx.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CancelledBeforeCommit(t *testing.T) {
	dbx, mock := setupMock(t)

	ctx, cancel := context.WithCancel(context.Background())

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTx(ctx, dbx, func(tx *sqlx.Tx) error {
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestWithTx_BeginFailure(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin().WillReturnError(&pq.Error{Code: "57P01"})

	err := WithTx(context.Background(), dbx, func(tx *sqlx.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, apperror.ErrNotFound},
		{"unique", &pq.Error{Code: "23505", Constraint: "subscription_plans_name_key"}, apperror.ErrConflict},
		{"fk", &pq.Error{Code: "23503"}, apperror.ErrNotFound},
		{"check", &pq.Error{Code: "23514"}, apperror.ErrValidation},
		{"serialization", &pq.Error{Code: "40001"}, apperror.ErrUnavailable},
		{"connection class", &pq.Error{Code: "08006"}, apperror.ErrUnavailable},
		{"admin shutdown", &pq.Error{Code: "57P01"}, apperror.ErrUnavailable},
		{"bad conn", driver.ErrBadConn, apperror.ErrUnavailable},
		{"deadline", context.DeadlineExceeded, apperror.ErrUnavailable},
		{"wrapped", fmt.Errorf("query: %w", sql.ErrConnDone), apperror.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Classify("op", tt.err), tt.want)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, Classify("op", nil))

	quota := &apperror.QuotaExceededError{GymID: 1, Resource: "members", Current: 5, Limit: 5}
	assert.Same(t, quota, Classify("op", quota))

	other := errors.New("something odd")
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(Classify("op", other)))
}

func TestClassify_UniqueMessage(t *testing.T) {
	err := Classify("plan.create", &pq.Error{Code: "23505", Constraint: "subscription_plans_name_key"})
	assert.Equal(t, "a plan with this name already exists", apperror.Message(err))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "gyms_auto_provisioned_for_key"})
	assert.True(t, IsUniqueViolation(err, "gyms_auto_provisioned_for_key"))
	assert.True(t, IsUniqueViolation(err, ""))
	assert.False(t, IsUniqueViolation(err, "other"))
	assert.False(t, IsUniqueViolation(errors.New("x"), ""))

	classified := Classify("gym.provision", err)
	assert.ErrorIs(t, classified, apperror.ErrConflict)
	assert.True(t, IsUniqueViolation(classified, "gyms_auto_provisioned_for_key"))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := Classify("payment.create", &pq.Error{Code: "23503", Constraint: "payments_member_id_gym_id_fkey"})
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
}

func TestExists(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Exists(context.Background(), dbx, `SELECT EXISTS(SELECT 1 FROM gyms WHERE id = $1)`, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNullableID(t *testing.T) {
	assert.Nil(t, NullableID(0))
	if id := NullableID(7); assert.NotNil(t, id) {
		assert.Equal(t, 7, *id)
	}
}
