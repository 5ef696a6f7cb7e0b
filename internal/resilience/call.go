package resilience

import (
	"context"
	"time"
)

// Call runs a dependency call guarded by a breaker with bounded retries.
type Call struct {
	Breaker     *Breaker
	MaxAttempts int
	BaseBackoff time.Duration
	Jitter      float64
	Timeout     time.Duration
}

// Do executes fn until it succeeds, attempts run out or the breaker opens.
// ErrOpenCircuit is returned when the breaker refuses the call.
func (c Call) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if c.Breaker != nil && !c.Breaker.Allow(ctx) {
			if lastErr == nil {
				lastErr = ErrOpenCircuit
			}
			return lastErr
		}
		err := c.once(ctx, fn)
		if c.Breaker != nil {
			c.Breaker.Report(ctx, err == nil)
		}
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(Backoff(c.BaseBackoff, attempt, c.Jitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func (c Call) once(ctx context.Context, fn func(context.Context) error) error {
	if c.Timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	return fn(callCtx)
}
