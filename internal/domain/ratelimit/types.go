// Package ratelimit provides rate limiting domain types.
package ratelimit

import (
	"errors"
	"time"
)

// Config defines the rolling-window admission policy.
type Config struct {
	// MaxRequests is the number of admissions allowed within Window.
	MaxRequests int

	// Window is the length of the trailing interval admissions are counted in.
	Window time.Duration
}

// Validate reports whether the config describes a usable policy.
func (c Config) Validate() error {
	if c.MaxRequests <= 0 {
		return errors.New("ratelimit: max requests must be positive")
	}
	if c.Window <= 0 {
		return errors.New("ratelimit: window must be positive")
	}
	return nil
}

// WindowFromSeconds converts a fractional number of seconds into a Duration.
func WindowFromSeconds(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Stats is a point-in-time snapshot of limiter bookkeeping.
type Stats struct {
	// Tracked is the number of admissions currently inside the window.
	Tracked int `json:"tracked"`

	// Admitted is the total number of admissions since construction.
	Admitted int64 `json:"admitted"`

	// Waits is the total number of times a caller had to suspend for quota.
	Waits int64 `json:"waits"`
}
