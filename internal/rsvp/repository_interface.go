package rsvp

import "context"

type Repository interface {
	Upsert(ctx context.Context, userID, occurrenceID int, status string, setBy *int) (*RSVP, error)
	ListByOccurrence(ctx context.Context, occurrenceID int) ([]RSVPWithUser, error)
	OccurrenceGym(ctx context.Context, occurrenceID int) (int, error)
	UserGym(ctx context.Context, userID int) (*int, error)
}
