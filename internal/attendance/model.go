package attendance

import "time"

type CheckIn struct {
	ID          int       `db:"id" json:"id"`
	GymID       int       `db:"gym_id" json:"gym_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checked_in_at"`
	RecordedBy  *int      `db:"recorded_by" json:"recorded_by,omitempty"`
}

type CheckInRequest struct {
	MemberID int `json:"member_id" binding:"required,min=1"`
}

type ListFilter struct {
	MemberID int       `form:"member_id" binding:"omitempty,min=1"`
	Since    time.Time `form:"since" time_format:"2006-01-02" time_utc:"1"`
	Limit    int       `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset   int       `form:"offset" binding:"omitempty,min=0"`
}
