// Package quota admits quota-counted resources against a gym's active plan.
//
// Every admission runs in one transaction that first locks the gym row, then
// reads the plan limit and the live active-member count, then performs the
// caller's write. Two admissions for the same gym therefore never observe
// the same count, and admissions for different gyms never wait on each other.
package quota

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
	"shawedgym/internal/logger"
	"shawedgym/internal/metrics"
	"shawedgym/internal/subscription"
)

const ResourceMembers = "members"

// Admission describes the gym's occupancy right after a successful write.
type Admission struct {
	GymID  int
	Active int
	Limit  int
}

// NearLimit reports whether usage reached at least 90 percent of the limit.
func (a Admission) NearLimit() bool {
	return a.Limit > 0 && a.Active*10 >= a.Limit*9
}

// ShouldWarn reports whether this admission crossed the 90 percent mark or
// filled the plan.
func (a Admission) ShouldWarn() bool {
	if !a.NearLimit() {
		return false
	}
	prev := Admission{Active: a.Active - 1, Limit: a.Limit}
	return !prev.NearLimit() || a.Active == a.Limit
}

type Enforcer struct {
	db *sqlx.DB
}

func NewEnforcer(db *sqlx.DB) *Enforcer {
	return &Enforcer{db: db}
}

// CountActiveMembers returns the live number of active members of a gym.
func CountActiveMembers(ctx context.Context, q sqlx.QueryerContext, gymID int) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM members WHERE gym_id = $1 AND status = 'active'`, gymID)
	if err != nil {
		return 0, db.Classify("quota.count", err)
	}
	return n, nil
}

// Admit runs write inside the admission transaction when one more active
// member fits the gym's plan. Nothing is written when the quota is full.
func (e *Enforcer) Admit(ctx context.Context, gymID int, write func(tx *sqlx.Tx) error) (Admission, error) {
	var adm Admission
	err := db.WithTx(ctx, e.db, func(tx *sqlx.Tx) error {
		if err := subscription.LockGym(ctx, tx, gymID); err != nil {
			return err
		}

		sub, err := subscription.Active(ctx, tx, gymID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Conflict("quota.admit", "gym has no active subscription")
		}
		if err != nil {
			return err
		}

		active, err := CountActiveMembers(ctx, tx, gymID)
		if err != nil {
			return err
		}
		if active >= sub.MemberLimit {
			return &apperror.QuotaExceededError{
				GymID:    gymID,
				Resource: ResourceMembers,
				Current:  active,
				Limit:    sub.MemberLimit,
			}
		}

		if err := write(tx); err != nil {
			return db.Classify("quota.write", err)
		}

		adm = Admission{GymID: gymID, Active: active + 1, Limit: sub.MemberLimit}
		return nil
	})

	var qe *apperror.QuotaExceededError
	if errors.As(err, &qe) {
		metrics.RecordQuotaRejection(qe.Resource)
		logger.Warn("quota exceeded",
			"gym_id", qe.GymID,
			"resource", qe.Resource,
			"current", qe.Current,
			"limit", qe.Limit,
		)
		return Admission{}, err
	}
	if err != nil {
		return Admission{}, err
	}

	metrics.RecordMemberAdmitted()
	return adm, nil
}
