package payroll

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/contract"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/shopspring/decimal"
)

// WeeksPerMonth converts weekly hours into a monthly hour figure for salaried
// contracts without an explicit hourly rate.
var WeeksPerMonth = decimal.RequireFromString("4.33")

var (
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
)

// Day carries minutes attributed to one calendar date of the month.
type Day struct {
	Date    time.Time // midnight UTC
	Minutes int       // worked + credited
	Premium map[string]int
}

// Input is everything needed to price one user's month.
type Input struct {
	UserID            string
	Year              int
	Month             time.Month
	Days              []Day
	Percents          map[string]decimal.Decimal
	Contracts         []contract.Contract
	AdjustmentMinutes int
}

type Result struct {
	BaseCents         int64
	PremiumCents      int64
	GrossCents        int64
	NeedsManualReview bool
	Clamped           bool
	Warnings          []kpi.Warning
}

// Calculate prices a month day by day, using the contract active on each date.
// Days without a contract are paid zero and flag the row for review.
func Calculate(in Input) Result {
	var res Result

	first := time.Date(in.Year, in.Month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	contracts := make([]contract.Contract, 0, len(in.Contracts))
	for _, c := range in.Contracts {
		if c.UserID == "" || c.UserID == in.UserID {
			contracts = append(contracts, c)
		}
	}
	sort.Slice(contracts, func(i, j int) bool {
		if !contracts[i].ValidFrom.Equal(contracts[j].ValidFrom) {
			return contracts[i].ValidFrom.Before(contracts[j].ValidFrom)
		}
		return contracts[i].ID < contracts[j].ID
	})

	active := make(map[time.Time]*contract.Contract, daysInMonth)
	validDays := make(map[string]int)
	overlaps := make(map[string]struct{})
	uncovered := 0
	var lastCovered *contract.Contract

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(in.Year, in.Month, d, 0, 0, 0, 0, time.UTC)
		var chosen *contract.Contract
		for i := range contracts {
			c := &contracts[i]
			if !c.CoversDate(date) {
				continue
			}
			if chosen != nil {
				pair := chosen.ID + "/" + c.ID
				if _, seen := overlaps[pair]; !seen {
					overlaps[pair] = struct{}{}
					res.Warnings = append(res.Warnings, kpi.Warning{
						Code:    kpi.WarningContractOverlap,
						Ref:     c.ID,
						Message: fmt.Sprintf("contract overlaps %s from %s; the later contract is used", chosen.ID, date.Format("2006-01-02")),
					})
				}
			}
			// sorted by ValidFrom, so the last covering contract starts latest
			chosen = c
		}
		if chosen == nil {
			uncovered++
			continue
		}
		active[date] = chosen
		validDays[chosen.ID]++
		lastCovered = chosen
	}

	if uncovered > 0 {
		res.NeedsManualReview = true
		res.Warnings = append(res.Warnings, kpi.Warning{
			Code:    kpi.WarningContractMissing,
			Ref:     in.UserID,
			Message: fmt.Sprintf("%d of %d days have no contract and are paid zero", uncovered, daysInMonth),
		})
	}

	base := decimal.Zero
	for _, c := range contracts {
		n := validDays[c.ID]
		if n == 0 {
			continue
		}
		if c.SalaryMonthlyCents == nil && c.HourlyRateCents == nil {
			res.NeedsManualReview = true
			res.Warnings = append(res.Warnings, kpi.Warning{
				Code:    kpi.WarningNoPayBasis,
				Ref:     c.ID,
				Message: "contract has neither a monthly salary nor an hourly rate",
			})
			continue
		}
		if c.IsSalaried() {
			base = base.Add(decimal.NewFromInt(*c.SalaryMonthlyCents).
				Mul(decimal.NewFromInt(int64(n))).
				Div(decimal.NewFromInt(int64(daysInMonth))))
		}
	}

	premium := decimal.Zero
	unknown := make(map[string]struct{})
	for _, day := range in.Days {
		c, ok := active[contract.DateOnly(day.Date)]
		if !ok {
			continue
		}
		rate := hourlyRate(*c)
		if !c.IsSalaried() {
			base = base.Add(perMinute(rate, day.Minutes))
		}
		for ruleID, mins := range day.Premium {
			pct, ok := in.Percents[ruleID]
			if !ok {
				unknown[ruleID] = struct{}{}
				continue
			}
			premium = premium.Add(perMinute(rate, mins).Mul(pct).Div(hundred))
		}
	}

	if in.AdjustmentMinutes != 0 && lastCovered != nil && !lastCovered.IsSalaried() {
		base = base.Add(perMinute(hourlyRate(*lastCovered), in.AdjustmentMinutes))
	}

	if len(unknown) > 0 {
		ids := make([]string, 0, len(unknown))
		for id := range unknown {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			res.Warnings = append(res.Warnings, kpi.Warning{
				Code:    kpi.WarningRuleUnknown,
				Ref:     id,
				Message: "premium minutes reference an unknown pay rule and are unpaid",
			})
		}
	}

	res.BaseCents = base.Round(0).IntPart()
	res.PremiumCents = premium.Round(0).IntPart()
	res.GrossCents = res.BaseCents + res.PremiumCents
	if res.GrossCents < 0 {
		res.Warnings = append(res.Warnings, kpi.Warning{
			Code:    kpi.WarningGrossClamped,
			Ref:     in.UserID,
			Message: fmt.Sprintf("gross %d clamped to zero", res.GrossCents),
		})
		res.GrossCents = 0
		res.Clamped = true
	}

	return res
}

// hourlyRate returns the rate in cents per hour used for minute-based pay.
func hourlyRate(c contract.Contract) decimal.Decimal {
	if c.HourlyRateCents != nil {
		return decimal.NewFromInt(*c.HourlyRateCents)
	}
	if c.SalaryMonthlyCents != nil && c.WeeklyHours.IsPositive() {
		return decimal.NewFromInt(*c.SalaryMonthlyCents).Div(c.WeeklyHours.Mul(WeeksPerMonth))
	}
	return decimal.Zero
}

func perMinute(rate decimal.Decimal, minutes int) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(minutes))).Div(sixty)
}
