// Package throttle wraps outbound operations with local rate limiting
// and bounded retry on remote throttling.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultBackoff is the pause before retrying a throttled call.
	DefaultBackoff = 2 * time.Second

	// DefaultMaxRetries bounds retries against a remote 429.
	DefaultMaxRetries = 3

	// DefaultMaxLocalWait caps the total wall-clock time spent waiting
	// on the local limiter within a single Do call.
	DefaultMaxLocalWait = time.Minute
)

// ErrRetriesExhausted is returned (wrapping the last remote error) when
// the remote-throttle retry budget runs out.
var ErrRetriesExhausted = errors.New("retry budget exhausted")

// ErrThrottleSaturated is returned when the local limiter keeps denying
// for longer than the configured wall-clock cap.
var ErrThrottleSaturated = errors.New("local throttle saturated")

// Limiter is the gate consulted before every attempt.
type Limiter interface {
	Allow() bool
}

// rateLimited is implemented by errors that signal remote throttling.
type rateLimited interface {
	RateLimited() bool
}

func isRateLimited(err error) bool {
	var rl rateLimited
	return errors.As(err, &rl) && rl.RateLimited()
}

// Invoker executes operations through a shared Limiter, waiting out
// local denials and retrying remote rate-limit errors a bounded number
// of times. A single Invoker instance must be shared by every caller
// that talks to the same remote service.
type Invoker struct {
	limiter      Limiter
	backoff      time.Duration
	maxRetries   int
	maxLocalWait time.Duration

	// sleep is replaceable in tests. It must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New creates an Invoker with default backoff and retry settings.
func New(limiter Limiter) *Invoker {
	return &Invoker{
		limiter:      limiter,
		backoff:      DefaultBackoff,
		maxRetries:   DefaultMaxRetries,
		maxLocalWait: DefaultMaxLocalWait,
		sleep:        sleepContext,
		now:          time.Now,
	}
}

// WithBackoff overrides the backoff interval. Non-positive values are ignored.
func (inv *Invoker) WithBackoff(d time.Duration) *Invoker {
	if d > 0 {
		inv.backoff = d
	}
	return inv
}

// WithMaxRetries overrides the remote-throttle retry budget.
func (inv *Invoker) WithMaxRetries(n int) *Invoker {
	if n >= 0 {
		inv.maxRetries = n
	}
	return inv
}

// Do runs op, waiting on the local limiter and retrying remote
// rate-limit errors. Local denials do not consume the retry budget but
// are capped by total wall-clock wait. Every other error propagates
// unchanged.
func (inv *Invoker) Do(ctx context.Context, op func(context.Context) error) error {
	retries := inv.maxRetries
	localDeadline := inv.now().Add(inv.maxLocalWait)

	for {
		if !inv.limiter.Allow() {
			if inv.now().After(localDeadline) {
				return fmt.Errorf("%w: waited over %s for a local slot", ErrThrottleSaturated, inv.maxLocalWait)
			}
			if err := inv.sleep(ctx, inv.backoff); err != nil {
				return err
			}
			continue
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if !isRateLimited(err) {
			return err
		}
		if retries == 0 {
			return fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
		}
		retries--
		if err := inv.sleep(ctx, inv.backoff); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
