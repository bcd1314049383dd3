package reminder

import (
	"context"
	"time"
)

type Repository interface {
	ListRemindable(ctx context.Context, from, to time.Time) ([]RemindableOccurrence, error)
	GetRemindableByID(ctx context.Context, occurrenceID int) (*RemindableOccurrence, error)
	ListRecipients(ctx context.Context, gymID, occurrenceID int) ([]Recipient, error)
	ReminderSent(ctx context.Context, occurrenceID, userID int, reminderType string) (bool, error)
	MarkReminderSent(ctx context.Context, occurrenceID, userID int, reminderType string) error
}
