package payment

import "time"

const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
	MethodMobile   = "mobile"
)

// Payment is a bookkeeping row. It records money received from a member and
// never touches a balance.
type Payment struct {
	ID          int       `db:"id" json:"id"`
	GymID       int       `db:"gym_id" json:"gym_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Method      string    `db:"method" json:"method"` // cash, card, transfer, mobile
	Note        *string   `db:"note" json:"note,omitempty"`
	PaidAt      time.Time `db:"paid_at" json:"paid_at"`
	RecordedBy  *int      `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type RecordRequest struct {
	MemberID    int        `json:"member_id" binding:"required,min=1"`
	AmountCents int64      `json:"amount_cents" binding:"required,gt=0"`
	Method      string     `json:"method" binding:"required,oneof=cash card transfer mobile"`
	Note        *string    `json:"note,omitempty" binding:"omitempty,max=500"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type ListFilter struct {
	MemberID int `form:"member_id" binding:"omitempty,min=1"`
	Limit    int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset   int `form:"offset" binding:"omitempty,min=0"`
}
