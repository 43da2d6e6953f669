package ratelimit

import (
	"fmt"
	"time"

	"github.com/octavehouse/storefront/internal/types"
)

// SchemaVersion is the current payload schema of rate limit records
const SchemaVersion = 1

// Record is the sliding window state for one (client, action) pair
type Record struct {
	ClientKey string                `json:"client_key"`
	Action    types.RateLimitAction `json:"action"`
	// Attempts are the failure timestamps still inside the window; stale
	// entries are pruned lazily on the next check
	Attempts     []time.Time `json:"attempts"`
	BlockedUntil *time.Time  `json:"blocked_until,omitempty"`

	SchemaVersion int `json:"schema_version"`

	// Version is the storage version used for conditional writes
	Version int64 `json:"-"`
}

// Key builds the storage key for a (client, action) pair
func Key(clientKey string, action types.RateLimitAction) string {
	return fmt.Sprintf("%s:%s", clientKey, action)
}

// Prune drops attempts older than the window
func (r *Record) Prune(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	kept := r.Attempts[:0]
	for _, attempt := range r.Attempts {
		if attempt.After(cutoff) {
			kept = append(kept, attempt)
		}
	}
	r.Attempts = kept
}

// IsBlocked reports whether an explicit block is still in force
func (r *Record) IsBlocked(now time.Time) bool {
	return r.BlockedUntil != nil && r.BlockedUntil.After(now)
}
