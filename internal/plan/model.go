package plan

import (
	"time"

	"github.com/lib/pq"
)

type Plan struct {
	ID          int            `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	PriceCents  int64          `db:"price_cents" json:"price_cents"`
	MemberLimit int            `db:"member_limit" json:"member_limit"`
	Features    pq.StringArray `db:"features" json:"features"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

type CreatePlanRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	PriceCents  int64    `json:"price_cents" binding:"min=0"`
	MemberLimit int      `json:"member_limit" binding:"required,min=1"`
	Features    []string `json:"features"`
}

// UpdatePlanRequest is a partial update; nil fields are left unchanged.
type UpdatePlanRequest struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,max=100"`
	PriceCents  *int64    `json:"price_cents,omitempty" binding:"omitempty,min=0"`
	MemberLimit *int      `json:"member_limit,omitempty" binding:"omitempty,min=1"`
	Features    *[]string `json:"features,omitempty"`
}

// DefaultPlans is the catalog written by EnsureDefaults.
var DefaultPlans = []Plan{
	{
		Name:        "basic",
		PriceCents:  3500,
		MemberLimit: 50,
		Features:    pq.StringArray{"members", "payments", "attendance"},
	},
	{
		Name:        "pro",
		PriceCents:  7500,
		MemberLimit: 200,
		Features:    pq.StringArray{"members", "payments", "attendance", "classes", "trainers"},
	},
	{
		Name:        "enterprise",
		PriceCents:  15000,
		MemberLimit: 1000,
		Features:    pq.StringArray{"members", "payments", "attendance", "classes", "trainers", "assets", "expenses"},
	},
}
