package xclib

import "errors"

var (
	ErrNotFound    = errors.New("functional not found")
	ErrInvalidSpin = errors.New("invalid spin mode")
)
