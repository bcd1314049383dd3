package reminder

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"gymhub/internal/db"
)

var ErrOccurrenceNotFound = errors.New("occurrence not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const remindableColumns = `
	o.id AS occurrence_id,
	e.id AS event_id,
	e.gym_id,
	e.title,
	o.occur_date,
	e.start_time,
	e.reminder_offsets
`

func (r *repository) ListRemindable(ctx context.Context, from, to time.Time) ([]RemindableOccurrence, error) {
	query := `
		SELECT ` + remindableColumns + `
		FROM event_occurrences o
		JOIN events e ON o.event_id = e.id
		WHERE o.status = 'scheduled'
		  AND e.reminder_offsets IS NOT NULL
		  AND array_length(e.reminder_offsets, 1) > 0
		  AND o.occur_date >= $1 AND o.occur_date <= $2
		ORDER BY o.occur_date
	`

	var occurrences []RemindableOccurrence
	err := r.db.SelectContext(ctx, &occurrences, query, from, to)
	if err != nil {
		return nil, err
	}

	return occurrences, nil
}

func (r *repository) GetRemindableByID(ctx context.Context, occurrenceID int) (*RemindableOccurrence, error) {
	query := `
		SELECT ` + remindableColumns + `
		FROM event_occurrences o
		JOIN events e ON o.event_id = e.id
		WHERE o.id = $1
	`

	var occ RemindableOccurrence
	err := r.db.GetContext(ctx, &occ, query, occurrenceID)
	if err == sql.ErrNoRows {
		return nil, ErrOccurrenceNotFound
	}
	if err != nil {
		return nil, err
	}

	return &occ, nil
}

// ListRecipients selects on the opt-out model: every athlete in the gym who
// has not explicitly declined, including those who never responded. Mail
// goes to the alternate address when the member has set one.
func (r *repository) ListRecipients(ctx context.Context, gymID, occurrenceID int) ([]Recipient, error) {
	query := `
		SELECT u.id AS user_id, u.name, COALESCE(u.alternate_email, u.email) AS email
		FROM users u
		WHERE u.gym_id = $1
		  AND u.role = 'athlete'
		  AND NOT EXISTS (
			SELECT 1 FROM rsvps r
			WHERE r.user_id = u.id AND r.occurrence_id = $2 AND r.status = 'not_going'
		  )
		ORDER BY u.id
	`

	var recipients []Recipient
	err := r.db.SelectContext(ctx, &recipients, query, gymID, occurrenceID)
	if err != nil {
		return nil, err
	}

	return recipients, nil
}

func (r *repository) ReminderSent(ctx context.Context, occurrenceID, userID int, reminderType string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reminder_log
			WHERE occurrence_id = $1 AND user_id = $2 AND reminder_type = $3
		)
	`

	return db.Exists(ctx, r.db, query, occurrenceID, userID, reminderType)
}

// MarkReminderSent is write-once; the unique key absorbs a lost race between
// overlapping dispatcher runs.
func (r *repository) MarkReminderSent(ctx context.Context, occurrenceID, userID int, reminderType string) error {
	query := `
		INSERT INTO reminder_log (occurrence_id, user_id, reminder_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (occurrence_id, user_id, reminder_type) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, occurrenceID, userID, reminderType)
	return err
}
