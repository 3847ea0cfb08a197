package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that a cache backend could not be reached. Only
// errors wrapping it are retried by [Backoff.Do].
var ErrUnavailable = errors.New("cache backend unavailable")

// Backoff retries backend connection attempts.
type Backoff struct {
	Attempts int
	Delay    time.Duration // doubled after every failed attempt
}

// DefaultBackoff is used when connecting to Redis.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Do calls fn until it succeeds or returns an error other than
// [ErrUnavailable]. It gives up after b.Attempts calls or when ctx is done.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !errors.Is(err, ErrUnavailable) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
