package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or has expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is the key-value contract every engine implements. Everything the
// service persists (vote ledger, item counters, rate counters, cached
// summaries, audit metadata) lives behind this interface, so tests run on
// the in-memory engine while production uses Redis or Postgres.
//
// A zero ttl means the key never expires. Individual operations are atomic
// per key; the interface deliberately offers no multi-key transactions.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value under key, replacing any existing value and TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX writes value under key only if the key does not already hold a
	// live value. It reports whether the write happened.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Incr atomically adds delta to the integer stored at key, creating the
	// key at delta when absent, and returns the new value. It fails when the
	// current value is not an integer.
	Incr(ctx context.Context, key string, delta int64) (int64, error)

	// Keys returns all live keys beginning with prefix. Enumeration order is
	// engine-defined and may differ between calls.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Ping reports whether the engine is reachable.
	Ping(ctx context.Context) error

	// Close releases the engine's resources.
	Close() error
}

// Sweepable is implemented by engines that accumulate expired entries and
// need periodic cleanup (Postgres rows, memory map entries). Redis expires
// keys on its own and does not implement it.
type Sweepable interface {
	Sweep(ctx context.Context) (removed int64, err error)
}
