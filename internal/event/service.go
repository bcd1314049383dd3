package event

import (
	"context"
	"errors"
	"time"

	"gymhub/internal/logger"
	"gymhub/internal/metrics"
)

var (
	ErrInvalidTimeOfDay    = errors.New("start/end must be HH:MM with end after start")
	ErrInvalidDate         = errors.New("date must be YYYY-MM-DD")
	ErrDuplicateDate       = errors.New("an occurrence already exists on that date")
	ErrNotCustom           = errors.New("only custom occurrences can be deleted")
	ErrEventHasOccurrences = errors.New("event still has occurrences")
)

// EmailSender is the slice of the email service the cancellation fan-out needs.
type EmailSender interface {
	SendEventCancellation(ctx context.Context, email, name, eventTitle string, date time.Time) error
}

type Service interface {
	CreateEvent(ctx context.Context, gymID int, req CreateEventRequest) (*Event, error)
	ListEvents(ctx context.Context, gymID int) ([]Event, error)
	GetEvent(ctx context.Context, gymID, eventID int) (*Event, error)
	UpdateEvent(ctx context.Context, gymID, eventID int, req CreateEventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, gymID, eventID int) error

	Occurrences(ctx context.Context, gymID, eventID int, from, to time.Time) ([]Occurrence, error)
	AddCustomOccurrence(ctx context.Context, gymID, eventID int, req AddOccurrenceRequest) (*Occurrence, error)
	CancelOccurrence(ctx context.Context, gymID, occurrenceID int, notify bool) (*Occurrence, int, int, error)
	RestoreOccurrence(ctx context.Context, gymID, occurrenceID int) (*Occurrence, error)
	DeleteOccurrence(ctx context.Context, gymID, occurrenceID int) error
}

type service struct {
	repo  Repository
	email EmailSender
}

func NewService(repo Repository, emailSender EmailSender) Service {
	return &service{
		repo:  repo,
		email: emailSender,
	}
}

func validateTimes(req CreateEventRequest) error {
	start, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		return ErrInvalidTimeOfDay
	}
	end, err := time.Parse(timeLayout, req.EndTime)
	if err != nil {
		return ErrInvalidTimeOfDay
	}
	if !end.After(start) {
		return ErrInvalidTimeOfDay
	}
	return nil
}

func (s *service) CreateEvent(ctx context.Context, gymID int, req CreateEventRequest) (*Event, error) {
	if err := validateTimes(req); err != nil {
		return nil, err
	}
	return s.repo.CreateEvent(ctx, gymID, req)
}

func (s *service) ListEvents(ctx context.Context, gymID int) ([]Event, error) {
	return s.repo.ListEventsByGym(ctx, gymID)
}

// getOwnedEvent loads an event and hides cross-tenant rows behind not-found.
func (s *service) getOwnedEvent(ctx context.Context, gymID, eventID int) (*Event, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if event.GymID != gymID {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *service) GetEvent(ctx context.Context, gymID, eventID int) (*Event, error) {
	return s.getOwnedEvent(ctx, gymID, eventID)
}

func (s *service) UpdateEvent(ctx context.Context, gymID, eventID int, req CreateEventRequest) (*Event, error) {
	if _, err := s.getOwnedEvent(ctx, gymID, eventID); err != nil {
		return nil, err
	}
	if err := validateTimes(req); err != nil {
		return nil, err
	}
	return s.repo.UpdateEvent(ctx, eventID, req)
}

func (s *service) DeleteEvent(ctx context.Context, gymID, eventID int) error {
	if _, err := s.getOwnedEvent(ctx, gymID, eventID); err != nil {
		return err
	}

	count, err := s.repo.CountOccurrences(ctx, eventID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEventHasOccurrences
	}

	return s.repo.DeleteEvent(ctx, eventID)
}

// Occurrences materializes the recurrence rule over [from, to] and returns
// the merged, date-ordered set: rule-derived rows, custom adds and existing
// cancellations, each date exactly once. Re-running over the same window is
// idempotent.
func (s *service) Occurrences(ctx context.Context, gymID, eventID int, from, to time.Time) ([]Occurrence, error) {
	event, err := s.getOwnedEvent(ctx, gymID, eventID)
	if err != nil {
		return nil, err
	}

	if len(event.Weekdays) > 0 {
		weekdays := make([]int, len(event.Weekdays))
		for i, wd := range event.Weekdays {
			weekdays[i] = int(wd)
		}

		for _, date := range ExpandRule(weekdays, event.IntervalWeeks, event.CreatedAt, from, to) {
			if err := s.repo.InsertRuleOccurrence(ctx, eventID, date); err != nil {
				return nil, err
			}
		}
	}

	return s.repo.ListOccurrences(ctx, eventID, truncateToDay(from), truncateToDay(to))
}

func (s *service) AddCustomOccurrence(ctx context.Context, gymID, eventID int, req AddOccurrenceRequest) (*Occurrence, error) {
	if _, err := s.getOwnedEvent(ctx, gymID, eventID); err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	exists, err := s.repo.OccurrenceExistsOn(ctx, eventID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateDate
	}

	return s.repo.CreateCustomOccurrence(ctx, eventID, date, req.Note)
}

// getOwnedOccurrence resolves an occurrence through its event's tenant.
func (s *service) getOwnedOccurrence(ctx context.Context, gymID, occurrenceID int) (*Occurrence, *Event, error) {
	occ, err := s.repo.GetOccurrenceByID(ctx, occurrenceID)
	if err != nil {
		return nil, nil, ErrOccurrenceNotFound
	}

	event, err := s.getOwnedEvent(ctx, gymID, occ.EventID)
	if err != nil {
		return nil, nil, ErrOccurrenceNotFound
	}

	return occ, event, nil
}

// CancelOccurrence persists the status flip first; the notification fan-out
// runs afterward and its failures only surface as a count.
func (s *service) CancelOccurrence(ctx context.Context, gymID, occurrenceID int, notify bool) (*Occurrence, int, int, error) {
	occ, event, err := s.getOwnedOccurrence(ctx, gymID, occurrenceID)
	if err != nil {
		return nil, 0, 0, err
	}

	if err := s.repo.SetOccurrenceStatus(ctx, occurrenceID, StatusCanceled); err != nil {
		return nil, 0, 0, err
	}
	occ.Status = StatusCanceled
	metrics.RecordOccurrenceCancellation()

	if !notify {
		return occ, 0, 0, nil
	}

	recipients, err := s.repo.ListGoingRecipients(ctx, occurrenceID)
	if err != nil {
		logger.Errorf("Cancellation notify: failed to load recipients for occurrence %d: %v", occurrenceID, err)
		return occ, 0, 0, nil
	}

	notified, failed := 0, 0
	for _, recipient := range recipients {
		if err := s.email.SendEventCancellation(ctx, recipient.Email, recipient.Name, event.Title, occ.Date); err != nil {
			logger.Errorf("Cancellation notify: send to %s failed: %v", recipient.Email, err)
			failed++
			continue
		}
		notified++
	}

	return occ, notified, failed, nil
}

func (s *service) RestoreOccurrence(ctx context.Context, gymID, occurrenceID int) (*Occurrence, error) {
	occ, _, err := s.getOwnedOccurrence(ctx, gymID, occurrenceID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetOccurrenceStatus(ctx, occurrenceID, StatusScheduled); err != nil {
		return nil, err
	}
	occ.Status = StatusScheduled

	return occ, nil
}

func (s *service) DeleteOccurrence(ctx context.Context, gymID, occurrenceID int) error {
	occ, _, err := s.getOwnedOccurrence(ctx, gymID, occurrenceID)
	if err != nil {
		return err
	}

	if !occ.IsCustom {
		return ErrNotCustom
	}

	return s.repo.DeleteCustomOccurrence(ctx, occurrenceID)
}
