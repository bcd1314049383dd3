package rsvp

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrOccurrenceNotFound = errors.New("occurrence not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Upsert relies on the (user_id, occurrence_id) unique key: concurrent writes
// against the same pair collapse into last-write-wins without app locking.
func (r *repository) Upsert(ctx context.Context, userID, occurrenceID int, status string, setBy *int) (*RSVP, error) {
	query := `
		INSERT INTO rsvps (user_id, occurrence_id, status, set_by_user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, occurrence_id)
		DO UPDATE SET status = EXCLUDED.status, set_by_user_id = EXCLUDED.set_by_user_id, updated_at = NOW()
		RETURNING id, user_id, occurrence_id, status, set_by_user_id, updated_at
	`

	var rsvp RSVP
	err := r.db.GetContext(ctx, &rsvp, query, userID, occurrenceID, status, setBy)
	if err != nil {
		return nil, err
	}

	return &rsvp, nil
}

func (r *repository) ListByOccurrence(ctx context.Context, occurrenceID int) ([]RSVPWithUser, error) {
	query := `
		SELECT
			r.id,
			r.user_id,
			r.occurrence_id,
			r.status,
			r.set_by_user_id,
			r.updated_at,
			u.name AS user_name,
			u.email AS user_email
		FROM rsvps r
		JOIN users u ON r.user_id = u.id
		WHERE r.occurrence_id = $1
		ORDER BY u.name
	`

	var rsvps []RSVPWithUser
	err := r.db.SelectContext(ctx, &rsvps, query, occurrenceID)
	if err != nil {
		return nil, err
	}

	return rsvps, nil
}

// OccurrenceGym resolves the tenant owning an occurrence via its event.
func (r *repository) OccurrenceGym(ctx context.Context, occurrenceID int) (int, error) {
	query := `
		SELECT e.gym_id
		FROM event_occurrences o
		JOIN events e ON o.event_id = e.id
		WHERE o.id = $1
	`

	var gymID int
	err := r.db.GetContext(ctx, &gymID, query, occurrenceID)
	if err == sql.ErrNoRows {
		return 0, ErrOccurrenceNotFound
	}
	if err != nil {
		return 0, err
	}

	return gymID, nil
}

func (r *repository) UserGym(ctx context.Context, userID int) (*int, error) {
	query := `SELECT gym_id FROM users WHERE id = $1`

	var gymID *int
	err := r.db.GetContext(ctx, &gymID, query, userID)
	if err != nil {
		return nil, err
	}

	return gymID, nil
}
