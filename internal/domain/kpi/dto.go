package kpi

import (
	"encoding/json"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// ========== REQUEST DTOs ==========

type KpiRequest struct {
	Kind  string `json:"kind"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
}

func (r *KpiRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.OneOf("kind", r.Kind, KindValues)
	validatePeriod(&errs, r.Year, r.Month)
	return errs.Err()
}

func (r *KpiRequest) Key() Key {
	return Key{Kind: Kind(r.Kind), Year: r.Year, Month: r.Month}
}

type RecalcRequest struct {
	Kind  string `json:"kind,omitempty"` // Empty = every kind
	Year  int    `json:"year"`
	Month int    `json:"month"`
}

func (r *RecalcRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Kind != "" {
		errs.OneOf("kind", r.Kind, KindValues)
	}
	validatePeriod(&errs, r.Year, r.Month)
	return errs.Err()
}

// Keys returns the cache keys targeted by the request.
func (r *RecalcRequest) Keys() []Key {
	if r.Kind != "" {
		return []Key{{Kind: Kind(r.Kind), Year: r.Year, Month: r.Month}}
	}
	keys := make([]Key, 0, len(KindValues))
	for _, k := range KindValues {
		keys = append(keys, Key{Kind: Kind(k), Year: r.Year, Month: r.Month})
	}
	return keys
}

func validatePeriod(errs *validator.ValidationErrors, year, month int) {
	errs.Between("year", year, MinYear, MaxYear)
	errs.Between("month", month, 1, 12)
}

// ========== RESPONSE DTOs ==========

type KpiResponse struct {
	Kind          string          `json:"kind"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	ComputedAt    string          `json:"computed_at"`
	ComputationID string          `json:"computation_id"`
	Payload       json.RawMessage `json:"payload"`
}

// ========== PAYLOADS ==========

// DashboardPayload - Organization-wide attendance and pay summary
type DashboardPayload struct {
	Year                  int      `json:"year"`
	Month                 int      `json:"month"`
	Users                 int      `json:"users"`
	ShiftsTotal           int      `json:"shifts_total"`
	ShiftsStamped         int      `json:"shifts_stamped"`
	StampedPercent        float64  `json:"stamped_percent"`
	NeedsManualFix        int      `json:"needs_manual_fix"`
	NeedsManualFixPercent float64  `json:"needs_manual_fix_percent"`
	LateClockIns          int      `json:"late_clock_ins"`
	LatePercent           float64  `json:"late_percent"`
	EarlyClockOuts        int      `json:"early_clock_outs"`
	EarlyPercent          float64  `json:"early_percent"`
	SickDays              int      `json:"sick_days"`
	WorkedMinutes         int      `json:"worked_minutes"`
	PremiumMinutes        int      `json:"premium_minutes"`
	GrossCents            int64    `json:"gross_cents"`
	FlaggedUsers          int      `json:"flagged_users"`
	ReviewShiftIDs        []string `json:"review_shift_ids"`
}

// RuleMinutes - Premium minutes credited to one pay rule
type RuleMinutes struct {
	RuleID  string          `json:"rule_id"`
	Percent decimal.Decimal `json:"percent"`
	Minutes int             `json:"minutes"`
}

type PayrollRow struct {
	UserID            string        `json:"user_id"`
	EmployeeName      string        `json:"employee_name"`
	MonthMinutes      int           `json:"month_minutes"`
	WorkedMinutes     int           `json:"worked_minutes"`
	CreditedMinutes   int           `json:"credited_minutes"`
	AdjustmentMinutes int           `json:"adjustment_minutes"`
	PremiumMinutes    int           `json:"premium_minutes"`
	PremiumByRule     []RuleMinutes `json:"premium_by_rule"`
	BaseCents         int64         `json:"base_cents"`
	PremiumCents      int64         `json:"premium_cents"`
	GrossCents        int64         `json:"gross_cents"`
	NeedsManualReview bool          `json:"needs_manual_review"`
	Clamped           bool          `json:"clamped"`
	NeedsManualFix    []string      `json:"needs_manual_fix"`
	Warnings          []Warning     `json:"warnings"`
}

type PayrollTotals struct {
	Users          int   `json:"users"`
	MonthMinutes   int   `json:"month_minutes"`
	PremiumMinutes int   `json:"premium_minutes"`
	BaseCents      int64 `json:"base_cents"`
	PremiumCents   int64 `json:"premium_cents"`
	GrossCents     int64 `json:"gross_cents"`
	FlaggedRows    int   `json:"flagged_rows"`
}

// PayrollPayload - Per-user payroll table
type PayrollPayload struct {
	Year   int           `json:"year"`
	Month  int           `json:"month"`
	Rows   []PayrollRow  `json:"rows"`
	Totals PayrollTotals `json:"totals"`
}

type TimeAccountRow struct {
	UserID                string   `json:"user_id"`
	EmployeeName          string   `json:"employee_name"`
	MonthWorkedMinutes    int      `json:"month_worked_minutes"` // worked + credited
	MonthTargetMinutes    int      `json:"month_target_minutes"`
	AdjustmentMinutes     int      `json:"adjustment_minutes"` // non-zero only in the adjustment month
	MonthBalanceMinutes   int      `json:"month_balance_minutes"`
	YearWorkedMinutes     int      `json:"year_worked_minutes"`
	YearTargetMinutes     int      `json:"year_target_minutes"`
	YearAdjustmentMinutes int      `json:"year_adjustment_minutes"`
	YearBalanceMinutes    int      `json:"year_balance_minutes"`
	VacationDaysEntitled  int      `json:"vacation_days_entitled"`
	VacationDaysTaken     int      `json:"vacation_days_taken"`
	VacationDaysRemaining int      `json:"vacation_days_remaining"`
	SickDays              int      `json:"sick_days"`
	NeedsManualFix        []string `json:"needs_manual_fix"`
}

// TimeAccountPayload - Per-user monthly and year-to-date balances
type TimeAccountPayload struct {
	Year            int              `json:"year"`
	Month           int              `json:"month"`
	AdjustmentMonth int              `json:"adjustment_month"`
	Rows            []TimeAccountRow `json:"rows"`
}
