package shift

import (
	"context"
	"time"
)

// ShiftRepository is the read-only port over recorded shifts.
type ShiftRepository interface {
	// ListShifts returns shifts starting in [start, endExclusive) with code and absence joined.
	// A nil userID lists shifts of every user.
	ListShifts(ctx context.Context, userID *string, start, endExclusive time.Time) ([]Shift, error)
}

// HolidayRepository is the read-only port over public holidays.
type HolidayRepository interface {
	ListHolidays(ctx context.Context, start, endExclusive time.Time) ([]Holiday, error)
}
