package timeaccount

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
)

// Policy carries the caller-supplied accounting choices.
type Policy struct {
	// Location is used for every minute-of-day and calendar-date decision. Nil means UTC.
	Location *time.Location
	// CreditedReasons lists absence reasons credited with the scheduled shift duration.
	CreditedReasons []shift.AbsenceReason
	// GraceMinutes is tolerated before a punch counts as late or early.
	GraceMinutes int
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) credits(reason shift.AbsenceReason) bool {
	for _, r := range p.CreditedReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Period is the half-open range [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Interval is one worked span taken from a fully punched shift.
type Interval struct {
	ShiftID string
	UserID  string
	Date    time.Time // local calendar date of the scheduled start, midnight UTC
	Start   time.Time
	End     time.Time
}

func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// DayMinutes holds minutes attributed to the calendar date a shift starts on.
type DayMinutes struct {
	Date     time.Time // midnight UTC of the local calendar date
	Worked   int
	Credited int
}

// Result is the per-user aggregate for one period.
type Result struct {
	UserID          string
	MonthMinutes    int // worked + credited
	WorkedMinutes   int
	CreditedMinutes int
	ShiftsTotal     int
	ShiftsCovered   int
	ShiftsStamped   int
	NeedsManualFix  []string
	SickDays        int
	VacationDays    int
	LateClockIns    []string
	EarlyClockOuts  []string
	Intervals       []Interval
	Days            []DayMinutes
	Warnings        []kpi.Warning
}

// Aggregate turns a user's shifts into worked intervals and attendance flags.
// Shifts of other users or starting outside the period are ignored.
func Aggregate(userID string, period Period, shifts []shift.Shift, policy Policy) Result {
	loc := policy.location()
	res := Result{UserID: userID}

	ordered := make([]shift.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.UserID != userID || s.Start.Before(period.Start) || !s.Start.Before(period.End) {
			continue
		}
		if s.Code != nil && !s.Code.IsWorkingShift {
			continue
		}
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].Start.Before(ordered[j].Start)
		}
		return ordered[i].ID < ordered[j].ID
	})

	days := make(map[time.Time]*DayMinutes)
	dayOf := func(t time.Time) *DayMinutes {
		d := LocalDate(t, loc)
		dm, ok := days[d]
		if !ok {
			dm = &DayMinutes{Date: d}
			days[d] = dm
		}
		return dm
	}
	sickDates := make(map[time.Time]struct{})
	vacationDates := make(map[time.Time]struct{})

	for _, s := range ordered {
		res.ShiftsTotal++
		overnight := IsOvernight(s, loc)

		if s.Absence != nil {
			res.ShiftsCovered++
			switch s.Absence.Reason {
			case shift.AbsenceReasonSickness:
				sickDates[LocalDate(s.Start, loc)] = struct{}{}
			case shift.AbsenceReasonVacation:
				vacationDates[LocalDate(s.Start, loc)] = struct{}{}
			}
			if policy.credits(s.Absence.Reason) {
				credited := int(ScheduledEnd(s, loc).Sub(s.Start) / time.Minute)
				if credited > 0 {
					res.CreditedMinutes += credited
					dayOf(s.Start).Credited += credited
				}
			}
			continue
		}

		if s.ClockIn != nil && lateStart(s, loc, policy.GraceMinutes) {
			res.LateClockIns = append(res.LateClockIns, s.ID)
		}

		if !s.IsStamped() {
			res.NeedsManualFix = append(res.NeedsManualFix, s.ID)
			res.Warnings = append(res.Warnings, kpi.Warning{Code: kpi.WarningMissingPunch, Ref: s.ID, Message: "shift lacks a clock-in or clock-out punch"})
			continue
		}

		in, out := *s.ClockIn, *s.ClockOut
		if out.Before(in) && overnight {
			out = out.Add(24 * time.Hour)
		}
		if out.Before(in) {
			res.NeedsManualFix = append(res.NeedsManualFix, s.ID)
			res.Warnings = append(res.Warnings, kpi.Warning{Code: kpi.WarningNegativeDuration, Ref: s.ID, Message: "clock-out precedes clock-in"})
			continue
		}

		res.ShiftsStamped++
		iv := Interval{ShiftID: s.ID, UserID: s.UserID, Date: LocalDate(s.Start, loc), Start: in, End: out}
		res.Intervals = append(res.Intervals, iv)
		res.WorkedMinutes += iv.Minutes()
		dayOf(s.Start).Worked += iv.Minutes()

		if earlyEnd(s, out, loc, policy.GraceMinutes) {
			res.EarlyClockOuts = append(res.EarlyClockOuts, s.ID)
		}
	}

	res.MonthMinutes = res.WorkedMinutes + res.CreditedMinutes
	res.SickDays = len(sickDates)
	res.VacationDays = len(vacationDates)

	for _, dm := range days {
		res.Days = append(res.Days, *dm)
	}
	sort.Slice(res.Days, func(i, j int) bool { return res.Days[i].Date.Before(res.Days[j].Date) })
	sort.Strings(res.NeedsManualFix)
	sort.Strings(res.LateClockIns)
	sort.Strings(res.EarlyClockOuts)

	return res
}
