package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WindowKind is the calendar window a velocity counter covers.
type WindowKind string

const (
	WindowDay   WindowKind = "day"
	WindowWeek  WindowKind = "week"
	WindowMonth WindowKind = "month"
)

// AllWindows lists the windows the velocity gate increments, in order.
var AllWindows = []WindowKind{WindowDay, WindowWeek, WindowMonth}

// VelocityCounter is a per-subject windowed count and amount accumulator.
type VelocityCounter struct {
	SubjectID         uuid.UUID       `json:"subject_id"`
	Window            WindowKind      `json:"window"`
	WindowStart       time.Time       `json:"window_start"`
	Count             int64           `json:"count"`
	AmountAccumulated decimal.Decimal `json:"amount_accumulated"`
	ResetAt           time.Time       `json:"reset_at"`
}

// WindowBounds returns the UTC calendar window containing t.
// Weeks start on Monday.
func WindowBounds(kind WindowKind, t time.Time) (start, reset time.Time) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch kind {
	case WindowWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case WindowMonth:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

// DayStart returns 00:00 UTC of t's day.
func DayStart(t time.Time) time.Time {
	s, _ := WindowBounds(WindowDay, t)
	return s
}

// MonthStart returns 00:00 UTC on the first of t's month.
func MonthStart(t time.Time) time.Time {
	s, _ := WindowBounds(WindowMonth, t)
	return s
}
