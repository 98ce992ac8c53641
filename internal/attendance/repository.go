package attendance

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
)

const checkInColumns = `id, gym_id, member_id, checked_in_at, recorded_by`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, gymID, memberID, recordedBy int) (*CheckIn, error) {
	var ci CheckIn
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO attendance (gym_id, member_id, recorded_by)
		VALUES ($1, $2, $3)
		RETURNING `+checkInColumns,
		gymID, memberID, db.NullableID(recordedBy),
	).StructScan(&ci)
	// (member_id, gym_id) references members, so a member of another gym
	// fails here even if it was never looked up.
	if db.IsForeignKeyViolation(err) {
		return nil, apperror.Forbidden("attendance.create")
	}
	if err != nil {
		return nil, db.Classify("attendance.create", err)
	}
	return &ci, nil
}

func (r *repository) List(ctx context.Context, gymID int, f ListFilter) ([]CheckIn, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}

	var since *time.Time
	if !f.Since.IsZero() {
		since = &f.Since
	}

	checkIns := []CheckIn{}
	err := r.db.SelectContext(ctx, &checkIns, `
		SELECT `+checkInColumns+`
		FROM attendance
		WHERE gym_id = $1
		  AND ($2::int = 0 OR member_id = $2::int)
		  AND ($3::timestamptz IS NULL OR checked_in_at >= $3::timestamptz)
		ORDER BY checked_in_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`, gymID, f.MemberID, since, f.Limit, f.Offset)
	if err != nil {
		return nil, db.Classify("attendance.list", err)
	}
	return checkIns, nil
}
