package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ValidationError rejects one request field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects every rejected field of a request. HTTP handlers
// render it as a 422 with one detail per field.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

// ToMap keeps the first message reported for each field.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := result[err.Field]; !ok {
			result[err.Field] = err.Message
		}
	}
	return result
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// OneOf records an error unless value is in allowed.
func (v *ValidationErrors) OneOf(field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		v.Add(field, "must be one of "+strings.Join(allowed, ", "))
	}
}

// Between records an error unless lo <= value <= hi.
func (v *ValidationErrors) Between(field string, value, lo, hi int) {
	if value < lo || value > hi {
		v.Add(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
}

// Err returns nil when nothing was recorded, so callers can return it directly.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var numericRegex = regexp.MustCompile(`^[0-9]+$`)

// ParseNumber parses an unsigned decimal path or flag value. Signs, spaces and
// values that overflow int are rejected.
func ParseNumber(s string) (int, bool) {
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
