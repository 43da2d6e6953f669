package event

import (
	"context"
)

// Repository defines the interface for the idempotency ledger
type Repository interface {
	// Get returns the ledger entry for the event id or an ErrNotFound
	// marked error when the event has never been seen
	Get(ctx context.Context, id string) (*PaymentEvent, error)

	// Claim writes the entry with status processing. The write is
	// conditional on the entry's Version (0 for a first delivery); a lost
	// race surfaces as ErrVersionConflict.
	Claim(ctx context.Context, event *PaymentEvent) error

	// MarkProcessed advances the claimed entry to processed, again
	// conditional on Version
	MarkProcessed(ctx context.Context, event *PaymentEvent) error
}
