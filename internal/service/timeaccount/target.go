package timeaccount

import (
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/contract"
	"github.com/shopspring/decimal"
)

var (
	minutesPerHour = decimal.NewFromInt(60)
	daysPerWeek    = decimal.NewFromInt(7)
)

// TargetMinutes sums weeklyHours*60/7 over every contract-covered calendar day
// in [from, to). Dates are compared as calendar days.
func TargetMinutes(contracts []contract.Contract, from, to time.Time) int {
	total := decimal.Zero
	for d := contract.DateOnly(from); d.Before(contract.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		c, ok := contract.ActiveOn(contracts, d)
		if !ok {
			continue
		}
		total = total.Add(c.WeeklyHours.Mul(minutesPerHour).Div(daysPerWeek))
	}
	return int(total.Round(0).IntPart())
}

// VacationEntitlement returns the annual vacation days of the contract active
// on date, falling back to the latest contract that started on or before it.
func VacationEntitlement(contracts []contract.Contract, date time.Time) int {
	if c, ok := contract.ActiveOn(contracts, date); ok {
		return c.VacationDaysAnnual
	}
	var (
		latest contract.Contract
		found  bool
	)
	for _, c := range contracts {
		if contract.DateOnly(c.ValidFrom).After(contract.DateOnly(date)) {
			continue
		}
		if !found || c.ValidFrom.After(latest.ValidFrom) {
			latest, found = c, true
		}
	}
	return latest.VacationDaysAnnual
}
