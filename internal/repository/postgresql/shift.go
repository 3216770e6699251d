package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// ListShifts implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListShifts(ctx context.Context, userID *string, start, endExclusive time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.user_id, s.start_at, s.end_at, s.clock_in, s.clock_out,
			sc.id, sc.code, sc.window_start_min, sc.window_end_min, sc.is_working_shift,
			a.id, a.reason, a.status
		FROM shifts s
		LEFT JOIN shift_codes sc ON sc.id = s.shift_code_id
		LEFT JOIN absences a ON a.shift_id = s.id AND a.deleted_at IS NULL
		WHERE s.start_at >= $1 AND s.start_at < $2
			AND ($3::text IS NULL OR s.user_id::text = $3)
			AND s.deleted_at IS NULL
		ORDER BY s.user_id, s.start_at, s.id
	`

	rows, err := q.Query(ctx, query, start, endExclusive, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var (
			s                                     shift.Shift
			codeID, code                          *string
			windowStart, windowEnd                *int
			isWorking                             *bool
			absenceID, absenceReason, absenceStat *string
		)
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Start, &s.End, &s.ClockIn, &s.ClockOut,
			&codeID, &code, &windowStart, &windowEnd, &isWorking,
			&absenceID, &absenceReason, &absenceStat,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}

		if codeID != nil {
			s.Code = &shift.ShiftCode{
				ID:             *codeID,
				Code:           deref(code),
				WindowStartMin: windowStart,
				WindowEndMin:   windowEnd,
				IsWorkingShift: isWorking == nil || *isWorking,
			}
		}
		if absenceID != nil {
			s.Absence = &shift.Absence{
				ID:      *absenceID,
				ShiftID: s.ID,
				UserID:  s.UserID,
				Reason:  shift.AbsenceReason(deref(absenceReason)),
				Status:  deref(absenceStat),
			}
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, nil
}

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) shift.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListHolidays implements shift.HolidayRepository.
func (r *holidayRepositoryImpl) ListHolidays(ctx context.Context, start, endExclusive time.Time) ([]shift.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date
		FROM holidays
		WHERE date >= $1::date AND date < $2::date
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, start.Format("2006-01-02"), endExclusive.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []shift.Holiday
	for rows.Next() {
		var h shift.Holiday
		if err := rows.Scan(&h.Date); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holidays, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
