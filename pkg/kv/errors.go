package kv

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned once a store has been closed.
var ErrClosed = errors.New("store closed")

// RetryableError marks a backend failure worth another attempt, such as a
// dropped Redis connection or a MongoDB primary election.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was marked transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts bounds every backend call; retryDelay doubles between them.
const retryAttempts = 3

var retryDelay = 200 * time.Millisecond

// RetryWithBackoff runs fn until it succeeds, fails permanently, or
// retryAttempts transient failures have been seen. Waiting stops early when
// ctx ends.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
