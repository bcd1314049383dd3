package event

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/db"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrOccurrenceNotFound = errors.New("occurrence not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const eventColumns = `id, gym_id, title, description, start_time, end_time, weekdays, interval_weeks, reminder_offsets, created_at`

func (r *repository) CreateEvent(ctx context.Context, gymID int, req CreateEventRequest) (*Event, error) {
	query := `
		INSERT INTO events (gym_id, title, description, start_time, end_time, weekdays, interval_weeks, reminder_offsets)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns + `
	`

	intervalWeeks := req.IntervalWeeks
	if intervalWeeks < 1 {
		intervalWeeks = 1
	}

	var event Event
	err := r.db.GetContext(ctx, &event, query,
		gymID,
		req.Title,
		req.Description,
		req.StartTime,
		req.EndTime,
		intArray(req.Weekdays),
		intervalWeeks,
		pq.Float64Array(req.ReminderOffsets),
	)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int) (*Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`

	var event Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *repository) ListEventsByGym(ctx context.Context, gymID int) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE gym_id = $1
		ORDER BY title
	`

	var events []Event
	err := db.Retry(ctx, 3, func() error {
		events = events[:0]
		return r.db.SelectContext(ctx, &events, query, gymID)
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *repository) UpdateEvent(ctx context.Context, id int, req CreateEventRequest) (*Event, error) {
	query := `
		UPDATE events
		SET title = $2, description = $3, start_time = $4, end_time = $5,
		    weekdays = $6, interval_weeks = $7, reminder_offsets = $8
		WHERE id = $1
		RETURNING ` + eventColumns + `
	`

	intervalWeeks := req.IntervalWeeks
	if intervalWeeks < 1 {
		intervalWeeks = 1
	}

	var event Event
	err := r.db.GetContext(ctx, &event, query,
		id,
		req.Title,
		req.Description,
		req.StartTime,
		req.EndTime,
		intArray(req.Weekdays),
		intervalWeeks,
		pq.Float64Array(req.ReminderOffsets),
	)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *repository) DeleteEvent(ctx context.Context, id int) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *repository) CountOccurrences(ctx context.Context, eventID int) (int, error) {
	query := `SELECT COUNT(*) FROM event_occurrences WHERE event_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, eventID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

const occurrenceColumns = `id, event_id, occur_date, status, is_custom, note, created_at`

// InsertRuleOccurrence persists a rule-derived date. The unique key on
// (event_id, occur_date) makes materialization idempotent.
func (r *repository) InsertRuleOccurrence(ctx context.Context, eventID int, date time.Time) error {
	query := `
		INSERT INTO event_occurrences (event_id, occur_date, status, is_custom)
		VALUES ($1, $2, 'scheduled', false)
		ON CONFLICT (event_id, occur_date) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, eventID, date)
	return err
}

func (r *repository) CreateCustomOccurrence(ctx context.Context, eventID int, date time.Time, note *string) (*Occurrence, error) {
	query := `
		INSERT INTO event_occurrences (event_id, occur_date, status, is_custom, note)
		VALUES ($1, $2, 'scheduled', true, $3)
		RETURNING ` + occurrenceColumns + `
	`

	var occ Occurrence
	err := r.db.GetContext(ctx, &occ, query, eventID, date, note)
	if err != nil {
		return nil, err
	}

	return &occ, nil
}

func (r *repository) OccurrenceExistsOn(ctx context.Context, eventID int, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM event_occurrences
			WHERE event_id = $1 AND occur_date = $2
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, eventID, date)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) ListOccurrences(ctx context.Context, eventID int, from, to time.Time) ([]Occurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM event_occurrences
		WHERE event_id = $1 AND occur_date >= $2 AND occur_date <= $3
		ORDER BY occur_date
	`

	var occurrences []Occurrence
	err := db.Retry(ctx, 3, func() error {
		occurrences = occurrences[:0]
		return r.db.SelectContext(ctx, &occurrences, query, eventID, from, to)
	})
	if err != nil {
		return nil, err
	}

	return occurrences, nil
}

func (r *repository) GetOccurrenceByID(ctx context.Context, id int) (*Occurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM event_occurrences
		WHERE id = $1
	`

	var occ Occurrence
	err := r.db.GetContext(ctx, &occ, query, id)
	if err != nil {
		return nil, err
	}

	return &occ, nil
}

func (r *repository) SetOccurrenceStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE event_occurrences SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOccurrenceNotFound
	}

	return nil
}

// DeleteCustomOccurrence removes a manually added date. Rule-derived rows are
// never deleted so historical RSVPs keep their reference.
func (r *repository) DeleteCustomOccurrence(ctx context.Context, id int) error {
	query := `DELETE FROM event_occurrences WHERE id = $1 AND is_custom = true`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOccurrenceNotFound
	}

	return nil
}

func (r *repository) ListGoingRecipients(ctx context.Context, occurrenceID int) ([]Recipient, error) {
	query := `
		SELECT u.id AS user_id, u.name, COALESCE(u.alternate_email, u.email) AS email
		FROM rsvps r
		JOIN users u ON r.user_id = u.id
		WHERE r.occurrence_id = $1 AND r.status = 'going'
		ORDER BY u.name
	`

	var recipients []Recipient
	err := r.db.SelectContext(ctx, &recipients, query, occurrenceID)
	if err != nil {
		return nil, err
	}

	return recipients, nil
}

func intArray(vals []int) pq.Int64Array {
	if vals == nil {
		return nil
	}
	out := make(pq.Int64Array, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return out
}
