package kpi

import (
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/service/timeaccount"
	"github.com/shopspring/decimal"
)

// BuildDashboard summarises all users of the snapshot.
func BuildDashboard(s Snapshot) kpi.DashboardPayload {
	out := kpi.DashboardPayload{
		Year:           s.Key.Year,
		Month:          s.Key.Month,
		Users:          len(s.Users),
		ReviewShiftIDs: []string{},
	}

	for _, u := range s.Users {
		m := u.Month
		out.ShiftsTotal += m.ShiftsTotal
		out.ShiftsStamped += m.ShiftsStamped
		out.NeedsManualFix += len(m.NeedsManualFix)
		out.LateClockIns += len(m.LateClockIns)
		out.EarlyClockOuts += len(m.EarlyClockOuts)
		out.SickDays += m.SickDays
		out.WorkedMinutes += m.WorkedMinutes
		out.PremiumMinutes += u.Premium.Total()
		out.GrossCents += u.Pay.GrossCents
		out.ReviewShiftIDs = append(out.ReviewShiftIDs, m.NeedsManualFix...)
		if len(m.NeedsManualFix) > 0 || u.Pay.NeedsManualReview {
			out.FlaggedUsers++
		}
	}
	sort.Strings(out.ReviewShiftIDs)

	out.StampedPercent = percentOf(out.ShiftsStamped, out.ShiftsTotal)
	out.NeedsManualFixPercent = percentOf(out.NeedsManualFix, out.ShiftsTotal)
	out.LatePercent = percentOf(out.LateClockIns, out.ShiftsTotal)
	out.EarlyPercent = percentOf(out.EarlyClockOuts, out.ShiftsTotal)
	return out
}

// BuildPayroll produces one row per user plus totals.
func BuildPayroll(s Snapshot) kpi.PayrollPayload {
	out := kpi.PayrollPayload{
		Year:  s.Key.Year,
		Month: s.Key.Month,
		Rows:  make([]kpi.PayrollRow, 0, len(s.Users)),
	}

	for _, u := range s.Users {
		row := kpi.PayrollRow{
			UserID:            u.UserID,
			EmployeeName:      u.Name,
			MonthMinutes:      u.Month.MonthMinutes,
			WorkedMinutes:     u.Month.WorkedMinutes,
			CreditedMinutes:   u.Month.CreditedMinutes,
			AdjustmentMinutes: u.AdjustmentMinutes,
			PremiumMinutes:    u.Premium.Total(),
			PremiumByRule:     ruleMinutes(u, s.Percents),
			BaseCents:         u.Pay.BaseCents,
			PremiumCents:      u.Pay.PremiumCents,
			GrossCents:        u.Pay.GrossCents,
			NeedsManualReview: u.Pay.NeedsManualReview,
			Clamped:           u.Pay.Clamped,
			NeedsManualFix:    orEmpty(u.Month.NeedsManualFix),
			Warnings:          append(append([]kpi.Warning{}, u.Month.Warnings...), u.Pay.Warnings...),
		}
		out.Rows = append(out.Rows, row)

		out.Totals.Users++
		out.Totals.MonthMinutes += row.MonthMinutes
		out.Totals.PremiumMinutes += row.PremiumMinutes
		out.Totals.BaseCents += row.BaseCents
		out.Totals.PremiumCents += row.PremiumCents
		out.Totals.GrossCents += row.GrossCents
		if row.NeedsManualReview || len(row.NeedsManualFix) > 0 {
			out.Totals.FlaggedRows++
		}
	}
	return out
}

// BuildTimeAccount produces monthly and year-to-date balances per user.
func BuildTimeAccount(s Snapshot) kpi.TimeAccountPayload {
	out := kpi.TimeAccountPayload{
		Year:            s.Key.Year,
		Month:           s.Key.Month,
		AdjustmentMonth: s.AdjustmentMonth,
		Rows:            make([]kpi.TimeAccountRow, 0, len(s.Users)),
	}

	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	periodStart, periodEnd := s.Key.PeriodStart(loc), s.Key.PeriodEnd(loc)
	yearStart := time.Date(s.Key.Year, time.January, 1, 0, 0, 0, 0, loc)
	lastDay := periodEnd.AddDate(0, 0, -1)

	for _, u := range s.Users {
		ytd := u.Month
		if u.YearToDate != nil {
			ytd = *u.YearToDate
		}

		row := kpi.TimeAccountRow{
			UserID:                u.UserID,
			EmployeeName:          u.Name,
			MonthWorkedMinutes:    u.Month.MonthMinutes,
			MonthTargetMinutes:    timeaccount.TargetMinutes(u.Contracts, periodStart, periodEnd),
			AdjustmentMinutes:     u.AdjustmentMinutes,
			YearWorkedMinutes:     ytd.MonthMinutes,
			YearTargetMinutes:     timeaccount.TargetMinutes(u.Contracts, yearStart, periodEnd),
			YearAdjustmentMinutes: u.YearAdjustmentMinutes,
			VacationDaysEntitled:  timeaccount.VacationEntitlement(u.Contracts, lastDay),
			VacationDaysTaken:     ytd.VacationDays,
			SickDays:              u.Month.SickDays,
			NeedsManualFix:        orEmpty(u.Month.NeedsManualFix),
		}
		row.MonthBalanceMinutes = row.MonthWorkedMinutes + row.AdjustmentMinutes - row.MonthTargetMinutes
		row.YearBalanceMinutes = row.YearWorkedMinutes + row.YearAdjustmentMinutes - row.YearTargetMinutes
		row.VacationDaysRemaining = row.VacationDaysEntitled - row.VacationDaysTaken

		out.Rows = append(out.Rows, row)
	}
	return out
}

func ruleMinutes(u UserAggregate, percents map[string]decimal.Decimal) []kpi.RuleMinutes {
	out := make([]kpi.RuleMinutes, 0, len(u.Premium))
	for id, mins := range u.Premium {
		out = append(out, kpi.RuleMinutes{RuleID: id, Percent: percents[id], Minutes: mins})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out
}

// percentOf returns n/total as a percentage with two decimals.
func percentOf(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*10000/float64(total)) / 100
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
