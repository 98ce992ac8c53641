package member

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
)

const memberColumns = `id, gym_id, first_name, last_name, email, phone, status, joined_at, created_at, updated_at`

const defaultListLimit = 100

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// scoped maps a miss on a gym-scoped lookup to Forbidden.
func scoped(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.Forbidden(op)
	}
	return db.Classify(op, err)
}

func insert(ctx context.Context, q sqlx.QueryerContext, m *Member) error {
	if m.Status == "" {
		m.Status = StatusActive
	}
	err := q.QueryRowxContext(ctx, `
		INSERT INTO members (gym_id, first_name, last_name, email, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+memberColumns,
		m.GymID, m.FirstName, m.LastName, m.Email, m.Phone, m.Status,
	).StructScan(m)
	return db.Classify("member.create", err)
}

func (r *repository) Create(ctx context.Context, m *Member) error {
	return insert(ctx, r.db, m)
}

func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, m *Member) error {
	return insert(ctx, tx, m)
}

func (r *repository) Get(ctx context.Context, gymID, id int) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE id = $1 AND gym_id = $2`, id, gymID)
	if err != nil {
		return nil, scoped("member.get", err)
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, gymID int, f ListFilter) ([]Member, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}

	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+memberColumns+`
		FROM members
		WHERE gym_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, gymID, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, db.Classify("member.list", err)
	}
	return members, nil
}

func (r *repository) Update(ctx context.Context, gymID, id int, req UpdateMemberRequest) (*Member, error) {
	var m Member
	err := r.db.QueryRowxContext(ctx, `
		UPDATE members
		SET first_name = COALESCE($1, first_name),
		    last_name = COALESCE($2, last_name),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    updated_at = NOW()
		WHERE id = $5 AND gym_id = $6
		RETURNING `+memberColumns,
		req.FirstName, req.LastName, req.Email, req.Phone, id, gymID,
	).StructScan(&m)
	if err != nil {
		return nil, scoped("member.update", err)
	}
	return &m, nil
}

func setStatus(ctx context.Context, q sqlx.QueryerContext, gymID, id int, status Status) (*Member, error) {
	var m Member
	err := q.QueryRowxContext(ctx, `
		UPDATE members
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND gym_id = $3
		RETURNING `+memberColumns,
		status, id, gymID,
	).StructScan(&m)
	if err != nil {
		return nil, scoped("member.status", err)
	}
	return &m, nil
}

// SetStatus is only used for transitions that cannot raise the active count.
func (r *repository) SetStatus(ctx context.Context, gymID, id int, status Status) (*Member, error) {
	return setStatus(ctx, r.db, gymID, id, status)
}

// errAlreadyActive is returned by ActivateTx when the member became active
// before the admission lock was taken.
var errAlreadyActive = apperror.Conflict("member.activate", "member is already active")

// ActivateTx flips a non-active member to active inside the admission
// transaction.
func (r *repository) ActivateTx(ctx context.Context, tx *sqlx.Tx, gymID, id int) (*Member, error) {
	var m Member
	err := tx.QueryRowxContext(ctx, `
		UPDATE members
		SET status = 'active', updated_at = NOW()
		WHERE id = $1 AND gym_id = $2 AND status <> 'active'
		RETURNING `+memberColumns,
		id, gymID,
	).StructScan(&m)
	if !errors.Is(err, sql.ErrNoRows) {
		if err != nil {
			return nil, db.Classify("member.activate", err)
		}
		return &m, nil
	}

	active, err := db.Exists(ctx, tx,
		`SELECT TRUE FROM members WHERE id = $1 AND gym_id = $2 AND status = 'active'`, id, gymID)
	if err != nil {
		return nil, db.Classify("member.activate", err)
	}
	if active {
		return nil, errAlreadyActive
	}
	return nil, apperror.Forbidden("member.activate")
}

func (r *repository) Delete(ctx context.Context, gymID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1 AND gym_id = $2`, id, gymID)
	if err != nil {
		return db.Classify("member.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.Classify("member.delete", err)
	}
	if n == 0 {
		return apperror.Forbidden("member.delete")
	}
	return nil
}
