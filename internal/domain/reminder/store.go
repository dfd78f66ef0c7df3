package reminder

import (
	"context"
	"time"
)

// MarkerStore persists dedup markers. Keys are namespaced per owner so a shared
// storage medium never leaks markers across accounts.
type MarkerStore interface {
	// Fired reports whether the marker is already set.
	Fired(ctx context.Context, ownerID, key string) (bool, error)
	// MarkFired sets the marker and reports whether this call was the one that
	// set it. The check-and-set is atomic: with concurrent callers exactly one
	// receives true.
	MarkFired(ctx context.Context, ownerID, key string) (bool, error)
	// DeleteOlderThan removes markers created before cutoff and returns how
	// many were removed. Stale date-scoped keys can never match again, so this
	// reclaims space without affecting correctness.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
