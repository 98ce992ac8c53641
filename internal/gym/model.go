package gym

import "time"

type Gym struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	OwnerName  string    `db:"owner_name" json:"owner_name"`
	OwnerEmail string    `db:"owner_email" json:"owner_email"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Address    *string   `db:"address" json:"address,omitempty"`
	CreatedBy  *int      `db:"created_by" json:"created_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Owner is the profile of the user a gym is provisioned for.
type Owner struct {
	ID    int    `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	Role  string `db:"role"`
}

// CreateGymRequest creates a gym for the caller. Blank owner_name and
// owner_email default to the caller's profile.
type CreateGymRequest struct {
	Name       string  `json:"name" binding:"required,max=255"`
	OwnerName  string  `json:"owner_name" binding:"omitempty,max=255"`
	OwnerEmail string  `json:"owner_email" binding:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" binding:"omitempty,max=50"`
	Address    *string `json:"address,omitempty"`
	PlanName   string  `json:"plan_name,omitempty"`
}

type UpdateGymRequest struct {
	Name       *string `json:"name,omitempty" binding:"omitempty,max=255"`
	OwnerName  *string `json:"owner_name,omitempty" binding:"omitempty,max=255"`
	OwnerEmail *string `json:"owner_email,omitempty" binding:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" binding:"omitempty,max=50"`
	Address    *string `json:"address,omitempty"`
}

// Draft is a validated gym about to be provisioned.
type Draft struct {
	Name       string
	OwnerName  string
	OwnerEmail string
	Phone      *string
	Address    *string
	PlanName   string
}

// Provisioned is the result of a committed provisioning transaction.
type Provisioned struct {
	Gym         Gym    `json:"gym"`
	PlanName    string `json:"plan_name"`
	MemberLimit int    `json:"member_limit"`
}

const (
	TriggerExplicit   = "explicit"
	TriggerFirstLogin = "first_login"
)
