package shift

import "errors"

var (
	ErrInvalidRange = errors.New("invalid shift range: end before start")
)
