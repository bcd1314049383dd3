package rsvp

import "time"

const (
	StatusGoing    = "going"
	StatusNotGoing = "not_going"
)

type RSVP struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	OccurrenceID int       `db:"occurrence_id" json:"occurrence_id"`
	Status       string    `db:"status" json:"status"`
	SetByUserID  *int      `db:"set_by_user_id" json:"set_by_user_id,omitempty"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type RSVPWithUser struct {
	RSVP
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type SetRSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=going not_going"`
}

type OverrideRSVPRequest struct {
	UserID int    `json:"user_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=going not_going"`
}
