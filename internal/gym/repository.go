package gym

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
	"shawedgym/internal/plan"
	"shawedgym/internal/subscription"
)

const (
	gymColumns = `id, name, owner_name, owner_email, phone, address, created_by, created_at, updated_at`

	ownedGymColumns = `g.id, g.name, g.owner_name, g.owner_email, g.phone, g.address, g.created_by, g.created_at, g.updated_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// provision defaults owner_name and owner_email to the owner's profile.
func provision(ctx context.Context, tx *sqlx.Tx, ownerID int, draft Draft, autoFor *int) (*Provisioned, error) {
	p, err := plan.FindByName(ctx, tx, draft.PlanName)
	if err != nil {
		return nil, err
	}

	var g Gym
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO gyms (name, owner_name, owner_email, phone, address, created_by, auto_provisioned_for)
		 VALUES (
		     $1,
		     COALESCE(NULLIF($2::text, ''), (SELECT name FROM users WHERE id = $6)),
		     COALESCE(NULLIF($3::text, ''), (SELECT email FROM users WHERE id = $6)),
		     $4, $5, $6, $7
		 )
		 RETURNING `+gymColumns,
		draft.Name, draft.OwnerName, draft.OwnerEmail, draft.Phone, draft.Address, ownerID, autoFor,
	).StructScan(&g)
	if err != nil {
		return nil, db.Classify("gym.provision", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO gym_owners (user_id, gym_id) VALUES ($1, $2)`,
		ownerID, g.ID,
	); err != nil {
		return nil, db.Classify("gym.provision", err)
	}

	if _, err := subscription.Activate(ctx, tx, g.ID, p.ID); err != nil {
		return nil, err
	}

	return &Provisioned{Gym: g, PlanName: p.Name, MemberLimit: p.MemberLimit}, nil
}

func (r *repository) Provision(ctx context.Context, ownerID int, draft Draft) (*Provisioned, error) {
	var result *Provisioned
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		result, err = provision(ctx, tx, ownerID, draft, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) ProvisionFirst(ctx context.Context, ownerID int, planName string, build func(o Owner) Draft) (*Provisioned, bool, error) {
	var (
		result  *Provisioned
		created bool
	)
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var o Owner
		err := tx.GetContext(ctx, &o,
			`SELECT id, name, email, role FROM users WHERE id = $1 FOR NO KEY UPDATE`, ownerID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("gym.auto_provision", "user not found")
		}
		if err != nil {
			return db.Classify("gym.auto_provision", err)
		}

		var g Gym
		err = tx.GetContext(ctx, &g, `
			SELECT `+ownedGymColumns+`
			FROM gyms g
			JOIN gym_owners o ON o.gym_id = g.id
			WHERE o.user_id = $1
			ORDER BY g.created_at DESC, g.id DESC
			LIMIT 1
		`, ownerID)
		switch {
		case err == nil:
			result = &Provisioned{Gym: g}
			if sub, err := subscription.Active(ctx, tx, g.ID); err == nil {
				result.PlanName = sub.PlanName
				result.MemberLimit = sub.MemberLimit
			}
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return db.Classify("gym.auto_provision", err)
		}

		draft := build(o)
		if draft.PlanName == "" {
			draft.PlanName = planName
		}
		result, err = provision(ctx, tx, ownerID, draft, &ownerID)
		created = err == nil
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Gym, error) {
	var g Gym
	err := r.db.GetContext(ctx, &g, `SELECT `+gymColumns+` FROM gyms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("gym.get", "gym not found")
	}
	if err != nil {
		return nil, db.Classify("gym.get", err)
	}
	return &g, nil
}

func (r *repository) ListByIDs(ctx context.Context, ids []int) ([]Gym, error) {
	gyms := []Gym{}
	if len(ids) == 0 {
		return gyms, nil
	}

	err := r.db.SelectContext(ctx, &gyms, `
		SELECT `+gymColumns+`
		FROM gyms
		WHERE id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`, pq.Array(ids))
	if err != nil {
		return nil, db.Classify("gym.list", err)
	}
	return gyms, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error) {
	var g Gym
	err := r.db.QueryRowxContext(ctx, `
		UPDATE gyms
		SET name = COALESCE($1, name),
		    owner_name = COALESCE($2, owner_name),
		    owner_email = COALESCE($3, owner_email),
		    phone = COALESCE($4, phone),
		    address = COALESCE($5, address),
		    updated_at = NOW()
		WHERE id = $6
		RETURNING `+gymColumns,
		req.Name, req.OwnerName, req.OwnerEmail, req.Phone, req.Address, id,
	).StructScan(&g)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("gym.update", "gym not found")
	}
	if err != nil {
		return nil, db.Classify("gym.update", err)
	}
	return &g, nil
}

// Delete removes the gym; tenant rows and subscriptions go with it through
// ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gyms WHERE id = $1`, id)
	if err != nil {
		return db.Classify("gym.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.Classify("gym.delete", err)
	}
	if n == 0 {
		return apperror.NotFound("gym.delete", "gym not found")
	}
	return nil
}

func (r *repository) OwnedGymIDs(ctx context.Context, userID int) ([]int, error) {
	ids := []int{}
	err := r.db.SelectContext(ctx, &ids, `SELECT gym_id FROM gym_owners WHERE user_id = $1 ORDER BY gym_id`, userID)
	if err != nil {
		return nil, db.Classify("gym.owned", err)
	}
	return ids, nil
}

func (r *repository) StaffGymID(ctx context.Context, userID int) (int, error) {
	var id int
	err := r.db.GetContext(ctx, &id, `SELECT gym_id FROM gym_staff WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperror.NotFound("gym.staff", "user is not bound to a gym")
	}
	if err != nil {
		return 0, db.Classify("gym.staff", err)
	}
	return id, nil
}
