package collector

import (
	"errors"
	"strings"
)

var (
	// ErrRateLimited is returned when the provider answers HTTP 429.
	ErrRateLimited = errors.New("rate limited")
	// ErrNoData is returned when the provider has no bars for a symbol.
	ErrNoData = errors.New("no data returned")
	// ErrInfoUnavailable is returned by sources that carry no fundamentals.
	ErrInfoUnavailable = errors.New("ticker info unavailable")
)

var rateLimitHints = []string{"rate", "429", "too many requests"}

// IsRateLimited reports whether err signals provider throttling, either as
// ErrRateLimited or by its message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, h := range rateLimitHints {
		if strings.Contains(msg, h) {
			return true
		}
	}
	return false
}
