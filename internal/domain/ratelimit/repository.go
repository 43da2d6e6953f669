package ratelimit

import (
	"context"

	"github.com/octavehouse/storefront/internal/types"
)

// Repository defines the interface for rate limit record persistence
type Repository interface {
	// Get returns the record or an ErrNotFound marked error when the pair
	// has no attempts on file
	Get(ctx context.Context, clientKey string, action types.RateLimitAction) (*Record, error)

	// Save persists the record, conditional on its Version
	Save(ctx context.Context, record *Record) error

	// Delete clears the record entirely (called on a successful action)
	Delete(ctx context.Context, clientKey string, action types.RateLimitAction) error
}
