package subscription

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

type GymSubscription struct {
	ID        int        `db:"id" json:"id"`
	GymID     int        `db:"gym_id" json:"gym_id"`
	PlanID    *int       `db:"plan_id" json:"plan_id"`
	Status    Status     `db:"status" json:"status"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// ActiveSubscription is a gym's active row joined with its plan.
type ActiveSubscription struct {
	GymSubscription
	PlanName    string `db:"plan_name" json:"plan_name"`
	MemberLimit int    `db:"member_limit" json:"member_limit"`
	PriceCents  int64  `db:"price_cents" json:"price_cents"`
}

type SubscribeRequest struct {
	PlanID int `json:"plan_id" binding:"required,min=1"`
}
