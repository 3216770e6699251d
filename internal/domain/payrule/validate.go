package payrule

import "fmt"

// Validate checks the rule invariants assumed by the engine.
func (r PayRule) Validate() error {
	if r.HolidayOnly && r.ExcludeHolidays {
		return fmt.Errorf("rule %s: %w", r.ID, ErrConflictingHolidayFlags)
	}
	if r.ValidUntil != nil && dateOnly(*r.ValidUntil).Before(dateOnly(r.ValidFrom)) {
		return fmt.Errorf("rule %s: %w", r.ID, ErrInvalidValidity)
	}
	if r.WindowStartMin < 0 || r.WindowStartMin >= 1440 || r.WindowEndMin < 0 || r.WindowEndMin >= 1440 {
		return fmt.Errorf("rule %s: %w", r.ID, ErrInvalidWindow)
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("rule %s: %w", r.ID, ErrInvalidDayOfWeek)
		}
	}
	return nil
}

// ParseStackingPolicy maps a configured value to a policy, defaulting to additive when empty.
func ParseStackingPolicy(s string) (StackingPolicy, error) {
	switch StackingPolicy(s) {
	case "":
		return StackingAdditive, nil
	case StackingAdditive, StackingHighestPercent:
		return StackingPolicy(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStackingPolicy)
}
