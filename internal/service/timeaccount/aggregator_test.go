package timeaccount

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04", s)
	require.NoError(t, err)
	return parsed
}

func ptr[T any](v T) *T { return &v }

func march2025() Period {
	return Period{
		Start: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
}

func nightCode() *shift.ShiftCode {
	return &shift.ShiftCode{ID: "code-n", Code: "N", WindowStartMin: ptr(22 * 60), WindowEndMin: ptr(6 * 60), IsWorkingShift: true}
}

func dayCode() *shift.ShiftCode {
	return &shift.ShiftCode{ID: "code-d", Code: "D", WindowStartMin: ptr(8 * 60), WindowEndMin: ptr(16 * 60), IsWorkingShift: true}
}

func TestAggregate_OvernightShift_NextDayClockOut(t *testing.T) {
	shifts := []shift.Shift{{
		ID: "s1", UserID: "u1",
		Start: at(t, "2025-03-10T22:00"), End: at(t, "2025-03-11T02:00"),
		ClockIn: ptr(at(t, "2025-03-10T22:00")), ClockOut: ptr(at(t, "2025-03-11T02:00")),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{})

	assert.Equal(t, 240, res.WorkedMinutes)
	assert.Equal(t, 240, res.MonthMinutes)
	assert.Equal(t, 1, res.ShiftsStamped)
	assert.Empty(t, res.NeedsManualFix)
	require.Len(t, res.Intervals, 1)
	assert.Equal(t, 240, res.Intervals[0].Minutes())
}

func TestAggregate_OvernightShift_SameDayWallClockEnd(t *testing.T) {
	// End and clock-out recorded with the start date: interpreted as the next day.
	shifts := []shift.Shift{{
		ID: "s1", UserID: "u1",
		Start: at(t, "2025-03-10T22:00"), End: at(t, "2025-03-10T02:00"),
		ClockIn: ptr(at(t, "2025-03-10T22:00")), ClockOut: ptr(at(t, "2025-03-10T02:00")),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{})

	assert.Equal(t, 240, res.WorkedMinutes)
	assert.Empty(t, res.NeedsManualFix)
	require.Len(t, res.Intervals, 1)
	assert.Equal(t, at(t, "2025-03-11T02:00"), res.Intervals[0].End)
}

func TestAggregate_MissingPunch(t *testing.T) {
	shifts := []shift.Shift{{
		ID: "s1", UserID: "u1",
		Start: at(t, "2025-03-10T08:00"), End: at(t, "2025-03-10T16:00"),
		ClockIn: ptr(at(t, "2025-03-10T08:00")),
	}, {
		ID: "s2", UserID: "u1",
		Start: at(t, "2025-03-11T08:00"), End: at(t, "2025-03-11T16:00"),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{})

	assert.Equal(t, 0, res.WorkedMinutes)
	assert.Equal(t, 2, res.ShiftsTotal)
	assert.Equal(t, 0, res.ShiftsStamped)
	assert.Equal(t, []string{"s1", "s2"}, res.NeedsManualFix)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, kpi.WarningMissingPunch, res.Warnings[0].Code)
}

func TestAggregate_NegativeDurationIsFlagged(t *testing.T) {
	shifts := []shift.Shift{{
		ID: "bad", UserID: "u1",
		Start: at(t, "2025-03-10T08:00"), End: at(t, "2025-03-10T16:00"),
		ClockIn: ptr(at(t, "2025-03-10T12:00")), ClockOut: ptr(at(t, "2025-03-10T09:00")),
	}, {
		ID: "good", UserID: "u1",
		Start: at(t, "2025-03-11T08:00"), End: at(t, "2025-03-11T16:00"),
		ClockIn: ptr(at(t, "2025-03-11T08:00")), ClockOut: ptr(at(t, "2025-03-11T16:00")),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{})

	assert.Equal(t, 480, res.WorkedMinutes)
	assert.Equal(t, []string{"bad"}, res.NeedsManualFix)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, kpi.WarningNegativeDuration, res.Warnings[0].Code)
}

func TestAggregate_AbsenceCoversShift(t *testing.T) {
	shifts := []shift.Shift{{
		ID: "sick", UserID: "u1",
		Start: at(t, "2025-03-10T08:00"), End: at(t, "2025-03-10T16:00"),
		Absence: &shift.Absence{ID: "a1", ShiftID: "sick", UserID: "u1", Reason: shift.AbsenceReasonSickness},
	}, {
		ID: "vac", UserID: "u1",
		Start: at(t, "2025-03-12T08:00"), End: at(t, "2025-03-12T16:00"),
		Absence: &shift.Absence{ID: "a2", ShiftID: "vac", UserID: "u1", Reason: shift.AbsenceReasonVacation},
	}}

	t.Run("not credited", func(t *testing.T) {
		res := Aggregate("u1", march2025(), shifts, Policy{})
		assert.Equal(t, 0, res.MonthMinutes)
		assert.Equal(t, 2, res.ShiftsCovered)
		assert.Empty(t, res.NeedsManualFix)
		assert.Equal(t, 1, res.SickDays)
		assert.Equal(t, 1, res.VacationDays)
	})

	t.Run("sickness credited", func(t *testing.T) {
		res := Aggregate("u1", march2025(), shifts, Policy{CreditedReasons: []shift.AbsenceReason{shift.AbsenceReasonSickness}})
		assert.Equal(t, 480, res.CreditedMinutes)
		assert.Equal(t, 480, res.MonthMinutes)
		assert.Equal(t, 0, res.WorkedMinutes)
		assert.Empty(t, res.Intervals)
		require.Len(t, res.Days, 1)
		assert.Equal(t, 480, res.Days[0].Credited)
	})
}

func TestAggregate_LateAndEarlyOnlyWithCodeWindow(t *testing.T) {
	shifts := []shift.Shift{{
		ID: "late", UserID: "u1", Code: dayCode(),
		Start: at(t, "2025-03-10T08:00"), End: at(t, "2025-03-10T16:00"),
		ClockIn: ptr(at(t, "2025-03-10T08:20")), ClockOut: ptr(at(t, "2025-03-10T16:00")),
	}, {
		ID: "early", UserID: "u1", Code: dayCode(),
		Start: at(t, "2025-03-11T08:00"), End: at(t, "2025-03-11T16:00"),
		ClockIn: ptr(at(t, "2025-03-11T08:00")), ClockOut: ptr(at(t, "2025-03-11T15:00")),
	}, {
		ID: "nowindow", UserID: "u1", Code: &shift.ShiftCode{ID: "code-x", Code: "X", IsWorkingShift: true},
		Start: at(t, "2025-03-12T08:00"), End: at(t, "2025-03-12T16:00"),
		ClockIn: ptr(at(t, "2025-03-12T11:00")), ClockOut: ptr(at(t, "2025-03-12T12:00")),
	}, {
		ID: "night-ok", UserID: "u1", Code: nightCode(),
		Start: at(t, "2025-03-13T22:00"), End: at(t, "2025-03-14T06:00"),
		ClockIn: ptr(at(t, "2025-03-13T22:00")), ClockOut: ptr(at(t, "2025-03-14T06:00")),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{})
	assert.Equal(t, []string{"late"}, res.LateClockIns)
	assert.Equal(t, []string{"early"}, res.EarlyClockOuts)

	withGrace := Aggregate("u1", march2025(), shifts, Policy{GraceMinutes: 30})
	assert.Empty(t, withGrace.LateClockIns)
	assert.Equal(t, []string{"early"}, withGrace.EarlyClockOuts)
}

func TestAggregate_IgnoresOtherUsersOutOfRangeAndRestDays(t *testing.T) {
	shifts := []shift.Shift{{
		ID: "other", UserID: "u2",
		Start: at(t, "2025-03-10T08:00"), End: at(t, "2025-03-10T16:00"),
	}, {
		ID: "april", UserID: "u1",
		Start: at(t, "2025-04-01T08:00"), End: at(t, "2025-04-01T16:00"),
	}, {
		ID: "rest", UserID: "u1", Code: &shift.ShiftCode{ID: "code-r", Code: "R", IsWorkingShift: false},
		Start: at(t, "2025-03-15T00:00"), End: at(t, "2025-03-15T00:00"),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{})

	assert.Equal(t, 0, res.ShiftsTotal)
	assert.Empty(t, res.NeedsManualFix)
}

func TestAggregate_LocalDateUsesPolicyLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 23:30 UTC on the 9th is 00:30 on the 10th in Berlin.
	shifts := []shift.Shift{{
		ID: "s1", UserID: "u1",
		Start: at(t, "2025-03-09T23:30"), End: at(t, "2025-03-10T07:30"),
		ClockIn: ptr(at(t, "2025-03-09T23:30")), ClockOut: ptr(at(t, "2025-03-10T07:30")),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{Location: berlin})

	require.Len(t, res.Days, 1)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), res.Days[0].Date)
	assert.Equal(t, 480, res.Days[0].Worked)
}

func TestAggregate_LateAndEarlyOnDaylightSavingDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Clocks jump from 02:00 to 03:00 on 2025-03-30; 06:00 local is 04:00 UTC.
	early := &shift.ShiftCode{ID: "code-f", Code: "F", WindowStartMin: ptr(6 * 60), WindowEndMin: ptr(14 * 60), IsWorkingShift: true}
	shifts := []shift.Shift{{
		ID: "s1", UserID: "u1", Code: early,
		Start: at(t, "2025-03-30T04:00"), End: at(t, "2025-03-30T12:00"),
		ClockIn: ptr(at(t, "2025-03-30T04:40")), ClockOut: ptr(at(t, "2025-03-30T12:00")),
	}}

	res := Aggregate("u1", march2025(), shifts, Policy{Location: berlin})

	assert.Equal(t, []string{"s1"}, res.LateClockIns)
	assert.Empty(t, res.EarlyClockOuts)
	assert.Equal(t, 440, res.WorkedMinutes)
}
