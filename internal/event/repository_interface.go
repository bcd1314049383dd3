package event

import (
	"context"
	"time"
)

type Repository interface {
	CreateEvent(ctx context.Context, gymID int, req CreateEventRequest) (*Event, error)
	GetEventByID(ctx context.Context, id int) (*Event, error)
	ListEventsByGym(ctx context.Context, gymID int) ([]Event, error)
	UpdateEvent(ctx context.Context, id int, req CreateEventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, id int) error
	CountOccurrences(ctx context.Context, eventID int) (int, error)

	InsertRuleOccurrence(ctx context.Context, eventID int, date time.Time) error
	CreateCustomOccurrence(ctx context.Context, eventID int, date time.Time, note *string) (*Occurrence, error)
	OccurrenceExistsOn(ctx context.Context, eventID int, date time.Time) (bool, error)
	ListOccurrences(ctx context.Context, eventID int, from, to time.Time) ([]Occurrence, error)
	GetOccurrenceByID(ctx context.Context, id int) (*Occurrence, error)
	SetOccurrenceStatus(ctx context.Context, id int, status string) error
	DeleteCustomOccurrence(ctx context.Context, id int) error

	ListGoingRecipients(ctx context.Context, occurrenceID int) ([]Recipient, error)
}
