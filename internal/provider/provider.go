// Package provider implements the data sources confwatch can poll. A
// provider owns the change-detection contract: it fetches the current value
// from its remote source, compares it against the locally cached snapshot,
// and reports a payload only when something actually changed.
package provider

import (
	"context"
	"errors"
)

// ErrUnavailable marks a failure to reach or authenticate against the remote
// source. The cache is never modified on this path.
var ErrUnavailable = errors.New("remote source unavailable")

// ErrCacheUnavailable marks a failure to read the cached snapshot during a
// query.
var ErrCacheUnavailable = errors.New("cached snapshot unavailable")

// Provider fetches a configuration value from a remote source and detects
// change against a cached snapshot.
type Provider interface {
	// Poll contacts the remote source and compares the result against the
	// cached snapshot. It returns changed=false when the remote value is
	// identical to the cache. On change the new snapshot is persisted
	// best-effort and the payload is returned.
	Poll(ctx context.Context) (payload string, changed bool, err error)

	// Query returns the cached payload without contacting the remote
	// source. It never mutates state.
	Query(ctx context.Context) (string, error)

	// Close releases the provider's backing store.
	Close() error
}
