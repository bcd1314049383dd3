package reminder

import (
	"context"
	"time"

	"gymhub/internal/logger"
	"gymhub/internal/metrics"
)

// How far ahead occurrences are scanned. Day offsets larger than this window
// simply fire later, once the occurrence date scrolls into range.
const scanAheadDays = 45

// EmailSender is the slice of the email service the dispatcher needs.
type EmailSender interface {
	SendEventReminder(ctx context.Context, email, name, eventTitle string, startsAt time.Time) error
}

// Dispatcher is stateless between runs: all idempotency lives in the
// reminder_log table, so overlapping or repeated invocations are safe.
type Dispatcher struct {
	repo  Repository
	email EmailSender
}

func NewDispatcher(repo Repository, emailSender EmailSender) *Dispatcher {
	return &Dispatcher{
		repo:  repo,
		email: emailSender,
	}
}

// Run ticks Dispatch until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	logger.Infof("Reminder dispatcher started (interval %s)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder dispatcher stopped")
			return
		case <-ticker.C:
			results, err := d.Dispatch(ctx, time.Now())
			if err != nil {
				logger.Errorf("Reminder dispatch failed: %v", err)
				continue
			}
			if len(results) > 0 {
				sent, failed := tally(results)
				logger.Info("Reminder dispatch completed", "sent", sent, "failed", failed)
			}
		}
	}
}

// Dispatch scans every scheduled occurrence with configured offsets and sends
// whatever is due at `now`. A recipient already present in the reminder log
// for the (occurrence, user, type) triple is skipped silently; one failed
// send never blocks the rest of the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, now time.Time) ([]Result, error) {
	metrics.ReminderRunsTotal.Inc()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	occurrences, err := d.repo.ListRemindable(ctx, today, today.AddDate(0, 0, scanAheadDays))
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, occ := range occurrences {
		start := occ.StartAt()

		for _, offset := range occ.Offsets {
			reminderType, due := dueReminder(offset, start, now)
			if !due {
				continue
			}

			results = append(results, d.fanOut(ctx, occ, start, reminderType, true)...)
		}
	}

	return results, nil
}

// SendManual pushes an immediate reminder for one occurrence. Staff asked
// explicitly, so the reminder log is not consulted and nothing is recorded.
func (d *Dispatcher) SendManual(ctx context.Context, gymID, occurrenceID int) ([]Result, error) {
	occ, err := d.repo.GetRemindableByID(ctx, occurrenceID)
	if err != nil {
		return nil, err
	}
	if occ.GymID != gymID {
		return nil, ErrOccurrenceNotFound
	}

	return d.fanOut(ctx, *occ, occ.StartAt(), "manual", false), nil
}

func (d *Dispatcher) fanOut(ctx context.Context, occ RemindableOccurrence, start time.Time, reminderType string, useLog bool) []Result {
	recipients, err := d.repo.ListRecipients(ctx, occ.GymID, occ.OccurrenceID)
	if err != nil {
		logger.Errorf("Reminder: failed to load recipients for occurrence %d: %v", occ.OccurrenceID, err)
		return []Result{{
			OccurrenceID: occ.OccurrenceID,
			ReminderType: reminderType,
			Error:        "failed to load recipients",
		}}
	}

	var results []Result
	for _, recipient := range recipients {
		result := Result{
			OccurrenceID: occ.OccurrenceID,
			UserID:       recipient.UserID,
			Email:        recipient.Email,
			ReminderType: reminderType,
		}

		if useLog {
			sent, err := d.repo.ReminderSent(ctx, occ.OccurrenceID, recipient.UserID, reminderType)
			if err != nil {
				result.Error = "failed to check reminder log"
				results = append(results, result)
				metrics.RecordReminder(reminderType, "failed")
				continue
			}
			if sent {
				continue
			}
		}

		if err := d.email.SendEventReminder(ctx, recipient.Email, recipient.Name, occ.Title, start); err != nil {
			logger.Errorf("Reminder: send to %s failed: %v", recipient.Email, err)
			result.Error = err.Error()
			results = append(results, result)
			metrics.RecordReminder(reminderType, "failed")
			continue
		}

		if useLog {
			if err := d.repo.MarkReminderSent(ctx, occ.OccurrenceID, recipient.UserID, reminderType); err != nil {
				logger.Errorf("Reminder: failed to record send for occurrence %d user %d: %v",
					occ.OccurrenceID, recipient.UserID, err)
			}
		}

		result.OK = true
		results = append(results, result)
		metrics.RecordReminder(reminderType, "sent")
	}

	return results
}

func tally(results []Result) (sent, failed int) {
	for _, r := range results {
		if r.OK {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}
