// Package kpitest provides in-memory upstream ports and standard shift codes
// and pay rules for tests of the KPI engine. Only _test.go files import it.
package kpitest

import (
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/payrule"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func intPtr(i int) *int { return &i }

// Date returns midnight UTC of the given calendar day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ==========================================
// SHIFT CODES
// ==========================================

// DefaultShiftCodes returns the standard early, late, night and rest codes.
func DefaultShiftCodes() []shift.ShiftCode {
	return []shift.ShiftCode{
		{ID: "code-early", Code: "F", WindowStartMin: intPtr(6 * 60), WindowEndMin: intPtr(14 * 60), IsWorkingShift: true},
		{ID: "code-late", Code: "S", WindowStartMin: intPtr(14 * 60), WindowEndMin: intPtr(22 * 60), IsWorkingShift: true},
		{ID: "code-night", Code: "N", WindowStartMin: intPtr(22 * 60), WindowEndMin: intPtr(6 * 60), IsWorkingShift: true},
		{ID: "code-rest", Code: "R", IsWorkingShift: false},
	}
}

// ==========================================
// PAY RULES
// ==========================================

var allWeek = []int{0, 1, 2, 3, 4, 5, 6}

// DefaultPayRules returns the common premium set: night work, Sundays and public holidays.
// Night and Sunday premiums are not paid on holidays, where the holiday premium applies.
func DefaultPayRules(validFrom time.Time) []payrule.PayRule {
	return []payrule.PayRule{
		{
			ID:              "night",
			WindowStartMin:  22 * 60,
			WindowEndMin:    6 * 60,
			DaysOfWeek:      allWeek,
			ExcludeHolidays: true,
			ValidFrom:       validFrom,
			Percent:         decimal.NewFromInt(25),
		},
		{
			ID:              "sunday",
			WindowStartMin:  0,
			WindowEndMin:    0,
			DaysOfWeek:      []int{6},
			ExcludeHolidays: true,
			ValidFrom:       validFrom,
			Percent:         decimal.NewFromInt(50),
		},
		{
			ID:             "holiday",
			WindowStartMin: 0,
			WindowEndMin:   0,
			DaysOfWeek:     allWeek,
			HolidayOnly:    true,
			ValidFrom:      validFrom,
			Percent:        decimal.NewFromInt(100),
		},
	}
}
