package subscription

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
	"shawedgym/internal/plan"
)

const subscriptionColumns = `id, gym_id, plan_id, status, start_date, end_date, created_at`

// LockGym takes the per-gym write lock that serializes plan switches and
// quota admissions for one tenant. FOR NO KEY UPDATE does not conflict with
// the KEY SHARE locks taken by foreign key inserts, so member rows can still
// be written by the lock holder and other gyms are never blocked.
func LockGym(ctx context.Context, q sqlx.QueryerContext, gymID int) error {
	var id int
	err := sqlx.GetContext(ctx, q, &id, `SELECT id FROM gyms WHERE id = $1 FOR NO KEY UPDATE`, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound("gym.lock", "gym not found")
	}
	return db.Classify("gym.lock", err)
}

// Active returns the gym's active subscription with its plan. A gym without
// one yields a NotFound error.
func Active(ctx context.Context, q sqlx.QueryerContext, gymID int) (*ActiveSubscription, error) {
	var s ActiveSubscription
	err := sqlx.GetContext(ctx, q, &s, `
		SELECT gs.id, gs.gym_id, gs.plan_id, gs.status, gs.start_date, gs.end_date, gs.created_at,
		       p.name AS plan_name, p.member_limit, p.price_cents
		FROM gym_subscriptions gs
		JOIN subscription_plans p ON p.id = gs.plan_id
		WHERE gs.gym_id = $1 AND gs.status = 'active'
	`, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("subscription.active", "gym has no active subscription")
	}
	if err != nil {
		return nil, db.Classify("subscription.active", err)
	}
	return &s, nil
}

// Activate cancels the gym's current active row, if any, and inserts a new
// active row for planID. The caller must hold the gym lock.
func Activate(ctx context.Context, tx sqlx.ExtContext, gymID, planID int) (*GymSubscription, error) {
	_, err := tx.ExecContext(ctx, `
		UPDATE gym_subscriptions
		SET status = 'cancelled', end_date = NOW()
		WHERE gym_id = $1 AND status = 'active'
	`, gymID)
	if err != nil {
		return nil, db.Classify("subscription.cancel", err)
	}

	var s GymSubscription
	err = sqlx.GetContext(ctx, tx, &s, `
		INSERT INTO gym_subscriptions (gym_id, plan_id, status, start_date)
		VALUES ($1, $2, 'active', NOW())
		RETURNING `+subscriptionColumns,
		gymID, planID,
	)
	if err != nil {
		return nil, db.Classify("subscription.activate", err)
	}
	return &s, nil
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Subscribe(ctx context.Context, gymID, planID int) (*ActiveSubscription, error) {
	var result *ActiveSubscription
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := LockGym(ctx, tx, gymID); err != nil {
			return err
		}

		p, err := plan.FindByID(ctx, tx, planID)
		if err != nil {
			return err
		}

		s, err := Activate(ctx, tx, gymID, p.ID)
		if err != nil {
			return err
		}

		result = &ActiveSubscription{
			GymSubscription: *s,
			PlanName:        p.Name,
			MemberLimit:     p.MemberLimit,
			PriceCents:      p.PriceCents,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) GetActive(ctx context.Context, gymID int) (*ActiveSubscription, error) {
	return Active(ctx, r.db, gymID)
}

func (r *repository) History(ctx context.Context, gymID int) ([]GymSubscription, error) {
	subs := []GymSubscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM gym_subscriptions
		WHERE gym_id = $1
		ORDER BY created_at DESC, id DESC
	`, gymID)
	if err != nil {
		return nil, db.Classify("subscription.history", err)
	}
	return subs, nil
}
