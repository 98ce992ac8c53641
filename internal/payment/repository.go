package payment

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
)

const paymentColumns = `id, gym_id, member_id, amount_cents, method, note, paid_at, recorded_by, created_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts a payment for a member of gymID. The composite foreign key on
// (member_id, gym_id) refuses a member of any other gym, which surfaces as
// Forbidden just like every other out-of-scope reference.
func (r *Repository) Record(ctx context.Context, gymID, recordedBy int, req RecordRequest) (*Payment, error) {
	if req.AmountCents <= 0 {
		return nil, apperror.Validation("payment.record", "amount_cents must be positive")
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	var p Payment
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO payments (gym_id, member_id, amount_cents, method, note, paid_at, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+paymentColumns,
		gymID, req.MemberID, req.AmountCents, req.Method, req.Note, paidAt, db.NullableID(recordedBy),
	).StructScan(&p)
	if db.IsForeignKeyViolation(err) {
		return nil, apperror.Forbidden("payment.record")
	}
	if err != nil {
		return nil, db.Classify("payment.record", err)
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context, gymID int, f ListFilter) ([]Payment, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}

	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE gym_id = $1 AND ($2::int = 0 OR member_id = $2::int)
		ORDER BY paid_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, gymID, f.MemberID, f.Limit, f.Offset)
	if err != nil {
		return nil, db.Classify("payment.list", err)
	}
	return payments, nil
}
