package paginate

import (
	"context"
	"time"
)

// Sleeper pauses between retry attempts. Tests swap in a fake.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper sleeps on a real timer and returns early with the context's
// error when it is cancelled.
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
})

// RetryPolicy bounds how often a condition is polled: at most MaxAttempts
// checks with a fixed Backoff between consecutive checks.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy gives a late-rendering control one more chance after a
// one second pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Backoff:     1 * time.Second,
	}
}

// Poll calls check until it reports true, returns an error, or the attempts
// run out. It returns the number of checks made.
func (p RetryPolicy) Poll(
	ctx context.Context,
	sleeper Sleeper,
	check func(ctx context.Context) (bool, error),
) (bool, int, error) {
	attempts := max(p.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		ok, err := check(ctx)
		if err != nil {
			return false, attempt, err
		}
		if ok {
			return true, attempt, nil
		}

		if attempt < attempts {
			if err := sleeper.Sleep(ctx, p.Backoff); err != nil {
				return false, attempt, err
			}
		}
	}

	return false, attempts, nil
}
