package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawedgym/internal/apperror"
)

var paymentCols = []string{"id", "gym_id", "member_id", "amount_cents", "method", "note", "paid_at", "recorded_by", "created_at"}

func setupPaymentMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewRepository(sqlx.NewDb(sqlDB, "sqlmock")), mock
}

func TestRecord_Success(t *testing.T) {
	repo, mock := setupPaymentMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments (gym_id, member_id, amount_cents, method, note, paid_at, recorded_by)")).
		WithArgs(10, 5, int64(2500), "cash", nil, sqlmock.AnyArg(), 3).
		WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(1, 10, 5, 2500, "cash", nil, now, 3, now))

	p, err := repo.Record(context.Background(), 10, 3, RecordRequest{MemberID: 5, AmountCents: 2500, Method: MethodCash})
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, int64(2500), p.AmountCents)
	require.NotNil(t, p.RecordedBy)
	assert.Equal(t, 3, *p.RecordedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_ExplicitPaidAt(t *testing.T) {
	repo, mock := setupPaymentMock(t)
	paidAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(10, 5, int64(900), "card", nil, paidAt, 3).
		WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(2, 10, 5, 900, "card", nil, paidAt, 3, time.Now()))

	p, err := repo.Record(context.Background(), 10, 3, RecordRequest{MemberID: 5, AmountCents: 900, Method: MethodCard, PaidAt: &paidAt})
	require.NoError(t, err)
	assert.True(t, p.PaidAt.Equal(paidAt))
}

func TestRecord_MemberOfAnotherGym(t *testing.T) {
	repo, mock := setupPaymentMock(t)

	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "payments_member_id_gym_id_fkey"})

	_, err := repo.Record(context.Background(), 10, 3, RecordRequest{MemberID: 99, AmountCents: 100, Method: MethodCash})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestRecord_NonPositiveAmount(t *testing.T) {
	repo, mock := setupPaymentMock(t)

	_, err := repo.Record(context.Background(), 10, 3, RecordRequest{MemberID: 5, AmountCents: 0, Method: MethodCash})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ByMember(t *testing.T) {
	repo, mock := setupPaymentMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE gym_id = $1 AND ($2::int = 0 OR member_id = $2::int)")).
		WithArgs(10, 5, 50, 0).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(2, 10, 5, 900, "card", nil, now, 3, now).
			AddRow(1, 10, 5, 2500, "cash", nil, now, nil, now))

	payments, err := repo.List(context.Background(), 10, ListFilter{MemberID: 5})
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Nil(t, payments[1].RecordedBy)
}
