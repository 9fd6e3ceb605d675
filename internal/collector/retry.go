package collector

import (
	"context"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry runs fn up to attempts times. Between tries it waits 2^n seconds,
// n being the number of failures so far. Errors for which retryable returns
// false are returned immediately.
func Retry(ctx context.Context, attempts int, retryable func(error) bool, sleep SleepFunc, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = Sleep
	}
	var err error
	for failures := 1; failures <= attempts; failures++ {
		if err = fn(); err == nil {
			return nil
		}
		if failures == attempts || (retryable != nil && !retryable(err)) {
			return err
		}
		if serr := sleep(ctx, Backoff(failures)); serr != nil {
			return serr
		}
	}
	return err
}

// Backoff is 2^n seconds.
func Backoff(n int) time.Duration {
	return time.Duration(1<<uint(n)) * time.Second
}
