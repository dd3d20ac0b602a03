package xc

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFunctional = errors.New("unknown functional")
	ErrUnsupportedFamily = errors.New("unsupported functional family")
	ErrUnsupportedDeriv  = errors.New("derivative order not available")
	ErrDerivOrder        = errors.New("derivative order out of range")
	ErrInvalidSpin       = errors.New("invalid spin mode")
	ErrShortDensity      = errors.New("density record too short")
	ErrOutputShape       = errors.New("output buffer length mismatch")
)

// EvalError reports a failure tied to one functional of a request.
type EvalError struct {
	ID   int
	Name string
	Err  error
}

func (e *EvalError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("functional %d (%s): %v", e.ID, e.Name, e.Err)
	}
	return fmt.Sprintf("functional %d: %v", e.ID, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
