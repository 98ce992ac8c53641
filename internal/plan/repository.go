package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
)

const planColumns = `id, name, price_cents, member_limit, features, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Plan, error) {
	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans, `SELECT `+planColumns+` FROM subscription_plans ORDER BY member_limit, id`)
	if err != nil {
		return nil, db.Classify("plan.list", err)
	}
	return plans, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	return FindByID(ctx, r.db, id)
}

func FindByID(ctx context.Context, q sqlx.QueryerContext, id int) (*Plan, error) {
	var p Plan
	err := sqlx.GetContext(ctx, q, &p, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("plan.get", "plan not found")
	}
	if err != nil {
		return nil, db.Classify("plan.get", err)
	}
	return &p, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Plan, error) {
	return FindByName(ctx, r.db, name)
}

// FindByName looks a plan up case-insensitively. It accepts a transaction so
// provisioning can resolve the plan inside its own unit of work.
func FindByName(ctx context.Context, q sqlx.QueryerContext, name string) (*Plan, error) {
	var p Plan
	err := sqlx.GetContext(ctx, q, &p, `SELECT `+planColumns+` FROM subscription_plans WHERE lower(name) = lower($1)`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("plan.get", "plan "+name+" not found")
	}
	if err != nil {
		return nil, db.Classify("plan.get", err)
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Plan) error {
	if p.Features == nil {
		p.Features = []string{}
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO subscription_plans (name, price_cents, member_limit, features)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+planColumns,
		p.Name, p.PriceCents, p.MemberLimit, p.Features,
	).StructScan(p)
	return db.Classify("plan.create", err)
}

func lockPlan(ctx context.Context, tx *sqlx.Tx, id int) (*Plan, bool, error) {
	var p Plan
	err := tx.GetContext(ctx, &p, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, apperror.NotFound("plan.lock", "plan not found")
	}
	if err != nil {
		return nil, false, err
	}

	inUse, err := db.Exists(ctx, tx,
		`SELECT EXISTS(SELECT 1 FROM gym_subscriptions WHERE plan_id = $1 AND status = 'active')`, id)
	if err != nil {
		return nil, false, err
	}
	return &p, inUse, nil
}

func (r *repository) Update(ctx context.Context, id int, apply func(p *Plan, inUse bool) error) (*Plan, error) {
	var updated *Plan
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		p, inUse, err := lockPlan(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := apply(p, inUse); err != nil {
			return err
		}
		if p.Features == nil {
			p.Features = []string{}
		}

		err = tx.QueryRowxContext(ctx,
			`UPDATE subscription_plans
			 SET name = $1, price_cents = $2, member_limit = $3, features = $4, updated_at = NOW()
			 WHERE id = $5
			 RETURNING `+planColumns,
			p.Name, p.PriceCents, p.MemberLimit, p.Features, id,
		).StructScan(p)
		if err != nil {
			return db.Classify("plan.update", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, db.Classify("plan.update", err)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, inUse, err := lockPlan(ctx, tx, id)
		if err != nil {
			return db.Classify("plan.delete", err)
		}
		if inUse {
			return apperror.Conflict("plan.delete", "plan is referenced by an active subscription")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id); err != nil {
			return db.Classify("plan.delete", err)
		}
		return nil
	})
}

// EnsureDefaults inserts the given plans unless a plan with the same name
// already exists, and reports how many rows were written.
func (r *repository) EnsureDefaults(ctx context.Context, plans []Plan) (int, error) {
	inserted := 0
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, p := range plans {
			features := p.Features
			if features == nil {
				features = []string{}
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO subscription_plans (name, price_cents, member_limit, features)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT DO NOTHING`,
				p.Name, p.PriceCents, p.MemberLimit, features,
			)
			if err != nil {
				return db.Classify("plan.ensure_defaults", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return db.Classify("plan.ensure_defaults", err)
			}
			inserted += int(n)
		}
		return nil
	})
	return inserted, err
}
