package reminder

import (
	"fmt"
	"math"
	"time"

	"github.com/lib/pq"
)

// tolerance around the exact minute-reminder instant. The dispatcher runs on
// a coarse tick, so a band is needed to avoid missing the minute entirely.
const tolerance = 5 * time.Minute

// RemindableOccurrence is a scheduled occurrence joined with the slice of its
// event the dispatcher needs.
type RemindableOccurrence struct {
	OccurrenceID int             `db:"occurrence_id"`
	EventID      int             `db:"event_id"`
	GymID        int             `db:"gym_id"`
	Title        string          `db:"title"`
	Date         time.Time       `db:"occur_date"`
	StartTime    string          `db:"start_time"`
	Offsets      pq.Float64Array `db:"reminder_offsets"`
}

// StartAt is the occurrence's concrete start timestamp in local time.
func (o *RemindableOccurrence) StartAt() time.Time {
	t, err := time.ParseInLocation("15:04", o.StartTime, o.Date.Location())
	if err != nil {
		return o.Date
	}
	return time.Date(o.Date.Year(), o.Date.Month(), o.Date.Day(), t.Hour(), t.Minute(), 0, 0, o.Date.Location())
}

type Recipient struct {
	UserID int    `db:"user_id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
}

// Result is the per-recipient outcome of one dispatch pass.
type Result struct {
	OccurrenceID int    `json:"occurrence_id"`
	UserID       int    `json:"user_id"`
	Email        string `json:"email"`
	ReminderType string `json:"reminder_type"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dueReminder decides whether an offset is inside its send window at `now`.
//
// Offsets >= 1 are whole-day reminders: due any time on the calendar day N
// days before the occurrence, as long as the occurrence has not started.
// Offsets < 1 are fractions of a day read as a minute count before start,
// due within the tolerance band around the exact instant.
func dueReminder(offset float64, start, now time.Time) (string, bool) {
	if !start.After(now) {
		return "", false
	}

	if offset >= 1 {
		days := int(offset)
		target := start.AddDate(0, 0, -days)
		if sameDay(now, target) {
			return fmt.Sprintf("%d_day", days), true
		}
		return "", false
	}

	// Minutes are rounded to the nearest five so fractional offsets land on
	// clean marks: 0.02 days (28.8 minutes) becomes a 30_min reminder.
	minutes := 5 * int(math.Round(offset*24*60/5))
	if minutes <= 0 {
		return "", false
	}
	target := start.Add(-time.Duration(minutes) * time.Minute)
	diff := now.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	if diff <= tolerance {
		return fmt.Sprintf("%d_min", minutes), true
	}
	return "", false
}
