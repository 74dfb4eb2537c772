// Package lock serializes work on a key across requests and, with the Redis
// backend, across processes.
package lock

import (
	"context"
	"errors"
)

// ErrHeld is returned when another holder owns the key.
var ErrHeld = errors.New("lock: already held")

// Locker acquires exclusive ownership of a key without waiting.
type Locker interface {
	// Acquire returns ErrHeld when the key is taken. The returned release
	// func is safe to call more than once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
