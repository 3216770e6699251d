package payrule

import (
	"time"

	"github.com/shopspring/decimal"
)

// StackingPolicy decides how minutes matched by several rules are credited.
type StackingPolicy string

const (
	// StackingAdditive credits every matching rule independently.
	StackingAdditive StackingPolicy = "additive"
	// StackingHighestPercent credits each minute only to the matching rule with the highest percent.
	StackingHighestPercent StackingPolicy = "highest_percent"
)

var StackingPolicyValues = []string{
	string(StackingAdditive),
	string(StackingHighestPercent),
}

// PayRule - Premium percentage for minutes worked inside a time-of-day window
type PayRule struct {
	ID              string
	UserID          *string // nil = applies to all users
	WindowStartMin  int
	WindowEndMin    int
	DaysOfWeek      []int // 0=Monday, ..., 6=Sunday
	HolidayOnly     bool
	ExcludeHolidays bool
	ValidFrom       time.Time
	ValidUntil      *time.Time
	Percent         decimal.Decimal
}

// AppliesTo reports whether the rule targets the given user.
func (r PayRule) AppliesTo(userID string) bool {
	return r.UserID == nil || *r.UserID == userID
}

// ValidOn reports whether date lies in [ValidFrom, ValidUntil]. Only the calendar day is compared.
func (r PayRule) ValidOn(date time.Time) bool {
	d := dateOnly(date)
	if d.Before(dateOnly(r.ValidFrom)) {
		return false
	}
	if r.ValidUntil != nil && d.After(dateOnly(*r.ValidUntil)) {
		return false
	}
	return true
}

// HasDay reports whether weekday (0=Monday) is enabled.
func (r PayRule) HasDay(weekday int) bool {
	for _, d := range r.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
