package payrule

import "errors"

var (
	ErrConflictingHolidayFlags = errors.New("holiday_only and exclude_holidays are mutually exclusive")
	ErrInvalidValidity         = errors.New("valid_until must not be before valid_from")
	ErrInvalidWindow           = errors.New("window minutes must be within [0,1440)")
	ErrInvalidDayOfWeek        = errors.New("days_of_week entries must be within 0..6")
	ErrUnknownStackingPolicy   = errors.New("unknown rule stacking policy")
)
