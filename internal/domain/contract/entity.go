package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract - Compensation basis valid for a user over a date range
type Contract struct {
	ID                 string
	UserID             string
	ValidFrom          time.Time
	ValidUntil         *time.Time // nil = open-ended
	SalaryMonthlyCents *int64
	HourlyRateCents    *int64
	WeeklyHours        decimal.Decimal
	VacationDaysAnnual int
	VacationBonus      bool
	ChristmasBonus     bool
}

// IsSalaried reports whether the monthly salary is the pay basis.
func (c Contract) IsSalaried() bool {
	return c.SalaryMonthlyCents != nil
}

// CoversDate reports whether the calendar day of date lies in [ValidFrom, ValidUntil].
func (c Contract) CoversDate(date time.Time) bool {
	d := DateOnly(date)
	if d.Before(DateOnly(c.ValidFrom)) {
		return false
	}
	if c.ValidUntil != nil && d.After(DateOnly(*c.ValidUntil)) {
		return false
	}
	return true
}

// ManualAdjustment - Yearly flat hour correction outside shift accounting
type ManualAdjustment struct {
	UserID          string
	Year            int
	HoursAdjustment decimal.Decimal // signed
}

// Minutes returns the adjustment in whole minutes, rounded half away from zero.
func (a ManualAdjustment) Minutes() int {
	return int(a.HoursAdjustment.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

// DateOnly truncates t to its calendar day in UTC, keeping the wall-clock date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ActiveOn returns the contract covering date. When several do, the one with
// the latest ValidFrom wins, then the greatest ID.
func ActiveOn(contracts []Contract, date time.Time) (Contract, bool) {
	var (
		best  Contract
		found bool
	)
	for _, c := range contracts {
		if !c.CoversDate(date) {
			continue
		}
		if !found || c.ValidFrom.After(best.ValidFrom) || (c.ValidFrom.Equal(best.ValidFrom) && c.ID > best.ID) {
			best, found = c, true
		}
	}
	return best, found
}
