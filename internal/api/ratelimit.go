package api

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"
)

// rateLimit rejects requests once the token bucket is empty. A nil limiter
// admits everything.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.limited.Inc()
			c.Response().Header().Set("Retry-After", "1")
			return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "too many requests", "", "rate_limited")
		}
		return next(c)
	}
}

// NewLimiter builds a token bucket of perSecond requests per second. A
// non-positive rate disables limiting.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
}

// SetRateLimit changes the limit of a running server. A non-positive rate or
// burst leaves that setting unchanged. It has no effect when the server was
// built without a limiter.
func (s *Server) SetRateLimit(perSecond float64, burst int) {
	if s.limiter == nil {
		return
	}
	if perSecond > 0 {
		s.limiter.SetLimit(rate.Limit(perSecond))
	}
	if burst > 0 {
		s.limiter.SetBurst(burst)
	}
}

// RateLimit reports the current rate and burst, or zeros when limiting is
// disabled.
func (s *Server) RateLimit() (perSecond float64, burst int) {
	if s.limiter == nil {
		return 0, 0
	}
	return float64(s.limiter.Limit()), s.limiter.Burst()
}
