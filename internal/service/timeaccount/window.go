package timeaccount

import (
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
)

const minutesPerDay = 24 * 60

// LocalDate returns the calendar date of t in loc, as midnight UTC.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MinuteOfDay returns minutes since local midnight.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// IsOvernight reports whether the shift spans midnight, either because its code
// window wraps or because the scheduled end is earlier in clock time than the start.
func IsOvernight(s shift.Shift, loc *time.Location) bool {
	if s.Code != nil && s.Code.WrapsMidnight() {
		return true
	}
	return MinuteOfDay(s.End, loc) < MinuteOfDay(s.Start, loc)
}

// ScheduledEnd returns End, advanced by 24h when it is recorded before Start.
func ScheduledEnd(s shift.Shift, loc *time.Location) time.Time {
	end := s.End
	if end.Before(s.Start) && IsOvernight(s, loc) {
		end = end.Add(24 * time.Hour)
	}
	return end
}

// wallClock returns minute min of t's local calendar day in loc. Minutes past
// 1440 roll into the next day. On DST days this differs from midnight plus min.
func wallClock(t time.Time, loc *time.Location, min int) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, min, 0, 0, loc)
}

// lateStart compares the clock-in against the code window start. Shifts without
// a code window are never late.
func lateStart(s shift.Shift, loc *time.Location, grace int) bool {
	if s.Code == nil || !s.Code.HasWindow() || s.ClockIn == nil {
		return false
	}
	scheduled := wallClock(s.Start, loc, *s.Code.WindowStartMin).Add(time.Duration(grace) * time.Minute)
	return s.ClockIn.After(scheduled)
}

// earlyEnd compares the normalised clock-out against the code window end.
func earlyEnd(s shift.Shift, out time.Time, loc *time.Location, grace int) bool {
	if s.Code == nil || !s.Code.HasWindow() {
		return false
	}
	endMin := *s.Code.WindowEndMin
	if s.Code.WrapsMidnight() {
		endMin += minutesPerDay
	}
	scheduled := wallClock(s.Start, loc, endMin).Add(-time.Duration(grace) * time.Minute)
	return out.Before(scheduled)
}
