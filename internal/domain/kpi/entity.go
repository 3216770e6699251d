package kpi

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind enum
type Kind string

const (
	KindDashboard   Kind = "dashboard"
	KindPayroll     Kind = "payroll"
	KindTimeAccount Kind = "timeAccount"
)

// KindValues lists kinds in the order a full recalculation processes them.
var KindValues = []string{
	string(KindDashboard),
	string(KindPayroll),
	string(KindTimeAccount),
}

// Key identifies one cached payload.
type Key struct {
	Kind  Kind
	Year  int
	Month int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%04d-%02d", k.Kind, k.Year, k.Month)
}

// PeriodStart returns the first instant of the key's month in loc.
func (k Key) PeriodStart(loc *time.Location) time.Time {
	return time.Date(k.Year, time.Month(k.Month), 1, 0, 0, 0, 0, loc)
}

// PeriodEnd returns the first instant of the following month in loc (exclusive bound).
func (k Key) PeriodEnd(loc *time.Location) time.Time {
	return k.PeriodStart(loc).AddDate(0, 1, 0)
}

// CacheEntry - Stored derived payload. ComputedAt and ComputationID are kept
// outside the payload so identical inputs yield identical payload bytes.
type CacheEntry struct {
	Key           Key
	Payload       json.RawMessage
	ComputedAt    time.Time
	ComputationID string
}

// Warning codes recorded on degraded rows
const (
	WarningMissingPunch     = "missing_punch"
	WarningNegativeDuration = "negative_duration"
	WarningContractMissing  = "contract_missing"
	WarningContractOverlap  = "contract_overlap"
	WarningNoPayBasis       = "no_pay_basis"
	WarningRuleUnknown      = "rule_unknown"
	WarningGrossClamped     = "gross_clamped"
)

// Warning - Non-fatal data integrity issue attached to a user row
type Warning struct {
	Code    string `json:"code"`
	Ref     string `json:"ref,omitempty"` // shift, contract or rule id
	Message string `json:"message"`
}
