package event

import (
	"time"

	"github.com/lib/pq"
)

const (
	StatusScheduled = "scheduled"
	StatusCanceled  = "canceled"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Event is the recurring template; concrete dates live on occurrences.
type Event struct {
	ID              int             `db:"id" json:"id"`
	GymID           int             `db:"gym_id" json:"gym_id"`
	Title           string          `db:"title" json:"title"`
	Description     *string         `db:"description" json:"description,omitempty"`
	StartTime       string          `db:"start_time" json:"start_time"`
	EndTime         string          `db:"end_time" json:"end_time"`
	Weekdays        pq.Int64Array   `db:"weekdays" json:"weekdays"`
	IntervalWeeks   int             `db:"interval_weeks" json:"interval_weeks"`
	ReminderOffsets pq.Float64Array `db:"reminder_offsets" json:"reminder_offsets"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// StartAt combines an occurrence date with the event's start time-of-day.
// Comparisons are timezone-naive: everything runs in server local time.
func (e *Event) StartAt(date time.Time) time.Time {
	t, err := time.ParseInLocation(timeLayout, e.StartTime, date.Location())
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

type Occurrence struct {
	ID        int       `db:"id" json:"id"`
	EventID   int       `db:"event_id" json:"event_id"`
	Date      time.Time `db:"occur_date" json:"date"`
	Status    string    `db:"status" json:"status"`
	IsCustom  bool      `db:"is_custom" json:"is_custom"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateEventRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     *string   `json:"description"`
	StartTime       string    `json:"start_time" binding:"required"`
	EndTime         string    `json:"end_time" binding:"required"`
	Weekdays        []int     `json:"weekdays" binding:"omitempty,dive,gte=0,lte=6"`
	IntervalWeeks   int       `json:"interval_weeks" binding:"omitempty,gte=1"`
	ReminderOffsets []float64 `json:"reminder_offsets" binding:"omitempty,dive,gt=0"`
}

type AddOccurrenceRequest struct {
	Date string  `json:"date" binding:"required"`
	Note *string `json:"note"`
}

type CancelOccurrenceRequest struct {
	Notify bool `json:"notify"`
}

type CancelOccurrenceResponse struct {
	Occurrence  Occurrence `json:"occurrence"`
	Notified    int        `json:"notified"`
	SendFailed  int        `json:"send_failed"`
}

// Recipient is a member resolved for notification fan-out.
type Recipient struct {
	UserID int    `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
	Email  string `db:"email" json:"email"`
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns local midnight of the Sunday on or before t.
// Weekday numbering follows time.Weekday: 0=Sunday .. 6=Saturday.
func startOfWeek(t time.Time) time.Time {
	day := truncateToDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// ExpandRule produces every date in [from, to] that matches the weekday set,
// keeping only weeks aligned to intervalWeeks counted from anchor's week.
// Dates come out in ascending order, each at most once.
func ExpandRule(weekdays []int, intervalWeeks int, anchor, from, to time.Time) []time.Time {
	if len(weekdays) == 0 || to.Before(from) {
		return nil
	}
	if intervalWeeks < 1 {
		intervalWeeks = 1
	}

	wanted := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		if wd >= 0 && wd <= 6 {
			wanted[time.Weekday(wd)] = true
		}
	}

	anchorWeek := startOfWeek(anchor)
	end := truncateToDay(to)

	var dates []time.Time
	for d := truncateToDay(from); !d.After(end); d = d.AddDate(0, 0, 1) {
		if !wanted[d.Weekday()] {
			continue
		}
		weeks := int(startOfWeek(d).Sub(anchorWeek).Hours() / (24 * 7))
		if weeks < 0 || weeks%intervalWeeks != 0 {
			continue
		}
		dates = append(dates, d)
	}

	return dates
}
