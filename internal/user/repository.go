package user

import (
	"context"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/auth"
	"shawedgym/internal/db"
)

const userColumns = `id, name, email, password_hash, role, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func insert(ctx context.Context, q sqlx.QueryerContext, name, email, passwordHash, role string) (*User, error) {
	var user User
	err := sqlx.GetContext(ctx, q, &user, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		name, email, passwordHash, role,
	)
	if err != nil {
		return nil, db.Classify("user.create", err)
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	return insert(ctx, r.db, name, email, passwordHash, role)
}

// CreateStaff inserts a cashier and binds it to gymID in one transaction.
func (r *repository) CreateStaff(ctx context.Context, gymID int, name, email, passwordHash string) (*User, error) {
	var user *User
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		u, err := insert(ctx, tx, name, email, passwordHash, auth.RoleCashier)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO gym_staff (user_id, gym_id) VALUES ($1, $2)`, u.ID, gymID); err != nil {
			return db.Classify("user.staff", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return nil, db.Classify("user.find", err)
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, db.Classify("user.find", err)
	}
	return &user, nil
}
