package rsvp

import (
	"context"
	"errors"

	"gymhub/internal/auth"
	"gymhub/internal/metrics"
)

var (
	ErrAthletesOnly = errors.New("only athletes can RSVP for themselves")
	ErrUserNotInGym = errors.New("user does not belong to this gym")
)

type Service interface {
	SetOwn(ctx context.Context, userID int, role string, gymID, occurrenceID int, status string) (*RSVP, error)
	Override(ctx context.Context, staffID, gymID, targetUserID, occurrenceID int, status string) (*RSVP, error)
	ListByOccurrence(ctx context.Context, gymID, occurrenceID int) ([]RSVPWithUser, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

// checkOccurrence hides occurrences of other tenants behind not-found.
func (s *service) checkOccurrence(ctx context.Context, gymID, occurrenceID int) error {
	occurrenceGym, err := s.repo.OccurrenceGym(ctx, occurrenceID)
	if err != nil {
		return ErrOccurrenceNotFound
	}
	if occurrenceGym != gymID {
		return ErrOccurrenceNotFound
	}
	return nil
}

func (s *service) SetOwn(ctx context.Context, userID int, role string, gymID, occurrenceID int, status string) (*RSVP, error) {
	if role != auth.RoleAthlete {
		return nil, ErrAthletesOnly
	}

	if err := s.checkOccurrence(ctx, gymID, occurrenceID); err != nil {
		return nil, err
	}

	rsvp, err := s.repo.Upsert(ctx, userID, occurrenceID, status, nil)
	if err != nil {
		return nil, err
	}

	metrics.RecordRSVP(status, "self")
	return rsvp, nil
}

// Override lets staff set any gym member's RSVP, stamping the acting staff
// member onto the row for auditability.
func (s *service) Override(ctx context.Context, staffID, gymID, targetUserID, occurrenceID int, status string) (*RSVP, error) {
	targetGym, err := s.repo.UserGym(ctx, targetUserID)
	if err != nil {
		return nil, ErrUserNotInGym
	}
	if targetGym == nil || *targetGym != gymID {
		return nil, ErrUserNotInGym
	}

	if err := s.checkOccurrence(ctx, gymID, occurrenceID); err != nil {
		return nil, err
	}

	rsvp, err := s.repo.Upsert(ctx, targetUserID, occurrenceID, status, &staffID)
	if err != nil {
		return nil, err
	}

	metrics.RecordRSVP(status, "staff")
	return rsvp, nil
}

func (s *service) ListByOccurrence(ctx context.Context, gymID, occurrenceID int) ([]RSVPWithUser, error) {
	if err := s.checkOccurrence(ctx, gymID, occurrenceID); err != nil {
		return nil, err
	}

	return s.repo.ListByOccurrence(ctx, occurrenceID)
}
