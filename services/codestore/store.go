// Package codestore persists outstanding verification codes under an
// address-scoped key with a bounded lifetime.
//
// Every backend enforces expiry itself: a value whose TTL has elapsed is never
// returned by Get or SetIfAbsent. Nothing in this package deletes a live code.
package codestore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable wraps any backend failure (connection, query, script).
	ErrUnavailable = errors.New("code store unavailable")
	// ErrInvalidTTL is returned for writes with a lifetime under MinTTL.
	ErrInvalidTTL = errors.New("code store requires a ttl of at least 1ms")
)

type Store interface {
	// Get returns the live value for key. found is false when the key is
	// absent or expired; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// SetWithExpire unconditionally stores value under key for ttl.
	SetWithExpire(ctx context.Context, key, value string, ttl time.Duration) error

	// SetIfAbsent stores value for ttl only when key holds no live value, in a
	// single atomic step. It returns the value that is live after the call and
	// whether this call created it.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (stored string, created bool, err error)
}

// MinTTL is the smallest lifetime Redis can express with PX.
const MinTTL = time.Millisecond

func checkTTL(ttl time.Duration) error {
	if ttl < MinTTL {
		return ErrInvalidTTL
	}
	return nil
}
