package kpi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/contract"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/payrule"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
	payrollService "github.com/cmlabs-hris/hris-kpi-engine/internal/service/payroll"
	payruleService "github.com/cmlabs-hris/hris-kpi-engine/internal/service/payrule"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/service/timeaccount"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAdjustmentMonth  = 12
	DefaultMaxParallelUsers = 8
)

// Ports groups the read-only repositories a computation depends on.
type Ports struct {
	Shifts    shift.ShiftRepository
	Holidays  shift.HolidayRepository
	PayRules  payrule.PayRuleRepository
	Contracts contract.ContractRepository
	Employees employee.EmployeeRepository
}

type Options struct {
	Location         *time.Location
	Stacking         payrule.StackingPolicy
	AdjustmentMonth  int
	MaxParallelUsers int
	GraceMinutes     int
	CreditedReasons  []shift.AbsenceReason
}

// UserAggregate is everything known about one user for one period.
type UserAggregate struct {
	UserID            string
	Name              string
	Month             timeaccount.Result
	Premium           payruleService.Breakdown
	Pay               payrollService.Result
	AdjustmentMinutes int // applied in this month only
	Contracts         []contract.Contract

	// Set only for time-account computations.
	YearToDate            *timeaccount.Result
	YearAdjustmentMinutes int
}

// Snapshot is the input of the payload builders.
type Snapshot struct {
	Key             kpi.Key
	Location        *time.Location
	AdjustmentMonth int
	Percents        map[string]decimal.Decimal
	Users           []UserAggregate // sorted by UserID
}

// Pipeline reads upstream data and derives per-user aggregates.
type Pipeline struct {
	ports Ports
	opts  Options
}

func NewPipeline(ports Ports, opts Options) *Pipeline {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Stacking == "" {
		opts.Stacking = payrule.StackingAdditive
	}
	if opts.AdjustmentMonth < 1 || opts.AdjustmentMonth > 12 {
		opts.AdjustmentMonth = DefaultAdjustmentMonth
	}
	if opts.MaxParallelUsers <= 0 {
		opts.MaxParallelUsers = DefaultMaxParallelUsers
	}
	return &Pipeline{ports: ports, opts: opts}
}

// Compute implements Computer.
func (p *Pipeline) Compute(ctx context.Context, key kpi.Key) (json.RawMessage, error) {
	var build func(Snapshot) any
	switch key.Kind {
	case kpi.KindDashboard:
		build = func(s Snapshot) any { return BuildDashboard(s) }
	case kpi.KindPayroll:
		build = func(s Snapshot) any { return BuildPayroll(s) }
	case kpi.KindTimeAccount:
		build = func(s Snapshot) any { return BuildTimeAccount(s) }
	default:
		return nil, fmt.Errorf("%q: %w", key.Kind, kpi.ErrInvalidKind)
	}

	snap, err := p.Collect(ctx, key)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(build(snap))
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", key.Kind, err)
	}
	return payload, nil
}

// Collect reads every port needed for key and aggregates each relevant user.
// Any failed read aborts the whole run.
func (p *Pipeline) Collect(ctx context.Context, key kpi.Key) (Snapshot, error) {
	loc := p.opts.Location
	periodStart, periodEnd := key.PeriodStart(loc), key.PeriodEnd(loc)
	yearStart := time.Date(key.Year, time.January, 1, 0, 0, 0, 0, loc)
	withYear := key.Kind == kpi.KindTimeAccount

	shiftsFrom := periodStart
	if withYear {
		shiftsFrom = yearStart
	}

	var (
		shifts    []shift.Shift
		holidays  []shift.Holiday
		rules     []payrule.PayRule
		employees []employee.Employee
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shifts, err = p.ports.Shifts.ListShifts(gCtx, nil, shiftsFrom, periodEnd)
		return kpi.Upstream("shifts", err)
	})
	g.Go(func() error {
		var err error
		// one extra day for overnight shifts starting on the last day of the month
		holidays, err = p.ports.Holidays.ListHolidays(gCtx, periodStart, periodEnd.AddDate(0, 0, 1))
		return kpi.Upstream("holidays", err)
	})
	g.Go(func() error {
		var err error
		rules, err = p.ports.PayRules.ListPayRules(gCtx, nil)
		return kpi.Upstream("pay_rules", err)
	})
	g.Go(func() error {
		var err error
		employees, err = p.ports.Employees.ListActive(gCtx, periodStart, periodEnd)
		return kpi.Upstream("employees", err)
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	engine := payruleService.NewEngine(rules, holidays, payruleService.Options{Location: loc, Stacking: p.opts.Stacking})
	if skipped := engine.Skipped(); len(skipped) > 0 {
		slog.Warn("Skipping invalid pay rules", "rule_ids", skipped)
	}
	percents := make(map[string]decimal.Decimal, len(rules))
	for _, r := range rules {
		percents[r.ID] = r.Percent
	}

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.FullName
	}
	byUser := make(map[string][]shift.Shift)
	for _, s := range shifts {
		byUser[s.UserID] = append(byUser[s.UserID], s)
		if !s.Start.Before(periodStart) {
			if _, ok := names[s.UserID]; !ok {
				names[s.UserID] = ""
			}
		}
	}
	userIDs := make([]string, 0, len(names))
	for id := range names {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	users := make([]UserAggregate, len(userIDs))
	g, gCtx = errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxParallelUsers)
	for i, id := range userIDs {
		i, id := i, id
		g.Go(func() error {
			contracts, err := p.ports.Contracts.ListContracts(gCtx, id)
			if err != nil {
				return kpi.Upstream("contracts", err)
			}
			adjustment, err := p.ports.Contracts.GetManualAdjustment(gCtx, id, key.Year)
			if err != nil {
				return kpi.Upstream("manual_adjustments", err)
			}

			agg := p.aggregateUser(key, id, byUser[id], contracts, adjustment, engine, percents)
			agg.Name = names[id]
			if withYear {
				ytd := timeaccount.Aggregate(id, timeaccount.Period{Start: yearStart, End: periodEnd}, byUser[id], p.policy())
				agg.YearToDate = &ytd
			}
			users[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Key:             key,
		Location:        loc,
		AdjustmentMonth: p.opts.AdjustmentMonth,
		Percents:        percents,
		Users:           users,
	}, nil
}

func (p *Pipeline) policy() timeaccount.Policy {
	return timeaccount.Policy{
		Location:        p.opts.Location,
		CreditedReasons: p.opts.CreditedReasons,
		GraceMinutes:    p.opts.GraceMinutes,
	}
}

func (p *Pipeline) aggregateUser(
	key kpi.Key,
	userID string,
	shifts []shift.Shift,
	contracts []contract.Contract,
	adjustment *contract.ManualAdjustment,
	engine *payruleService.Engine,
	percents map[string]decimal.Decimal,
) UserAggregate {
	period := timeaccount.Period{Start: key.PeriodStart(p.opts.Location), End: key.PeriodEnd(p.opts.Location)}
	month := timeaccount.Aggregate(userID, period, shifts, p.policy())

	premium := make(payruleService.Breakdown)
	dayPremium := make(map[time.Time]map[string]int)
	for _, iv := range month.Intervals {
		b := engine.Evaluate(userID, iv.Start, iv.End)
		premium.Add(b)
		dp, ok := dayPremium[iv.Date]
		if !ok {
			dp = make(map[string]int)
			dayPremium[iv.Date] = dp
		}
		for ruleID, mins := range b {
			dp[ruleID] += mins
		}
	}

	days := make([]payrollService.Day, 0, len(month.Days))
	for _, d := range month.Days {
		days = append(days, payrollService.Day{
			Date:    d.Date,
			Minutes: d.Worked + d.Credited,
			Premium: dayPremium[d.Date],
		})
	}

	yearAdjustment := 0
	if adjustment != nil {
		yearAdjustment = adjustment.Minutes()
	}
	agg := UserAggregate{
		UserID:    userID,
		Month:     month,
		Premium:   premium,
		Contracts: contracts,
	}
	if key.Month == p.opts.AdjustmentMonth {
		agg.AdjustmentMinutes = yearAdjustment
	}
	if key.Month >= p.opts.AdjustmentMonth {
		agg.YearAdjustmentMinutes = yearAdjustment
	}

	agg.Pay = payrollService.Calculate(payrollService.Input{
		UserID:            userID,
		Year:              key.Year,
		Month:             time.Month(key.Month),
		Days:              days,
		Percents:          percents,
		Contracts:         contracts,
		AdjustmentMinutes: agg.AdjustmentMinutes,
	})
	return agg
}
