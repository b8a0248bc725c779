// Package retry provides the bounded-retry policy applied to idempotent reads
// against the external stores. Writes are never retried here; a retried upload
// can create duplicate blobs.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy holds bounded retry parameters with exponential backoff.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Default mirrors the historical behavior of this system: three attempts with
// a couple of seconds between them.
func Default() Policy {
	return Policy{MaxAttempts: 3, InitialInterval: 2 * time.Second, MaxInterval: 10 * time.Second}
}

// Do runs op under the policy and returns its last result. A zero MaxAttempts
// means a single attempt.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}

	return backoff.Retry(ctx, backoff.Operation[T](op),
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
	)
}
