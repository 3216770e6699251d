package shift

import "time"

// AbsenceReason enum
type AbsenceReason string

const (
	AbsenceReasonSickness AbsenceReason = "SICKNESS"
	AbsenceReasonVacation AbsenceReason = "VACATION"
	AbsenceReasonOther    AbsenceReason = "OTHER"
)

// ShiftCode - Scheduled window template referenced by a shift
type ShiftCode struct {
	ID   string
	Code string
	// Minute-of-day offsets in [0,1440). Start > End means the window spans midnight.
	// Nil means the code has no window.
	WindowStartMin *int
	WindowEndMin   *int
	IsWorkingShift bool
}

// HasWindow reports whether both window bounds are set.
func (c ShiftCode) HasWindow() bool {
	return c.WindowStartMin != nil && c.WindowEndMin != nil
}

// WrapsMidnight reports whether the window ends on the following day.
func (c ShiftCode) WrapsMidnight() bool {
	return c.HasWindow() && *c.WindowStartMin > *c.WindowEndMin
}

// Absence - Recorded reason excusing a shift from punch accounting
type Absence struct {
	ID      string
	ShiftID string
	UserID  string
	Reason  AbsenceReason
	Status  string
}

// Shift - Scheduled work period for one user
type Shift struct {
	ID       string
	UserID   string
	Start    time.Time
	End      time.Time // may be wall-clock before Start for overnight shifts
	ClockIn  *time.Time
	ClockOut *time.Time

	// Joined fields
	Code    *ShiftCode
	Absence *Absence
}

// IsStamped reports whether both punches are present.
func (s Shift) IsStamped() bool {
	return s.ClockIn != nil && s.ClockOut != nil
}

// Holiday - Calendar date without time component
type Holiday struct {
	Date time.Time
}
