package ratelimit

import "context"

// Limiter admits outbound requests under a rolling-window policy.
//
// Acquire blocks the caller until one more admission would keep the number of
// admissions inside the trailing window at or below the configured maximum,
// then records the admission and returns. The only error outcome is
// cancellation of ctx while the caller is suspended.
type Limiter interface {
	Acquire(ctx context.Context) error
}
