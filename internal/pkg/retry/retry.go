package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/TemirB/storefront-bot/internal/config"
)

// Do runs fn until it succeeds or the policy's attempts are used up.
func Do(ctx context.Context, retryPolicy config.Retry, fn func() error) error {
	return DoIf(ctx, retryPolicy, func(error) bool { return true }, fn)
}

// DoIf retries only errors for which retryable returns true.
func DoIf(ctx context.Context, retryPolicy config.Retry, retryable func(error) bool, fn func() error) error {
	attempts := retryPolicy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	d := retryPolicy.Base
	var err error

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 || !retryable(err) {
			return err
		}

		delay := d
		if retryPolicy.JitterFactor > 0 {
			jitter := 1 + retryPolicy.JitterFactor*(2*r.Float64()-1)
			delay = time.Duration(float64(delay) * jitter)
		}

		if retryPolicy.Max > 0 && delay > retryPolicy.Max {
			delay = retryPolicy.Max
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		d *= 2
		if retryPolicy.Max > 0 && d > retryPolicy.Max {
			d = retryPolicy.Max
		}
	}
	return err
}
