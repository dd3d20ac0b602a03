package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/xckit/internal/xc"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg   string
	param string
}

func (e invalidRequestError) Error() string { return e.msg }

func (e invalidRequestError) Unwrap() error { return ErrInvalidRequest }

func newInvalidRequest(param, msg string) error {
	return invalidRequestError{msg: msg, param: param}
}

// classify maps an evaluation error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, xc.ErrUnknownFunctional):
		return http.StatusBadRequest, "unknown_functional"
	case errors.Is(err, xc.ErrUnsupportedFamily):
		return http.StatusUnprocessableEntity, "unsupported_family"
	case errors.Is(err, xc.ErrUnsupportedDeriv):
		return http.StatusUnprocessableEntity, "unsupported_deriv"
	case errors.Is(err, xc.ErrDerivOrder):
		return http.StatusBadRequest, "deriv_out_of_range"
	case errors.Is(err, xc.ErrInvalidSpin):
		return http.StatusBadRequest, "invalid_spin"
	case errors.Is(err, xc.ErrShortDensity):
		return http.StatusBadRequest, "short_density"
	case errors.Is(err, xc.ErrOutputShape):
		return http.StatusInternalServerError, "output_shape"
	}
	return http.StatusInternalServerError, "internal_error"
}
