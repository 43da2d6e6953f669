package event

import (
	"time"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// SchemaVersion is the current payload schema of ledger entries
const SchemaVersion = 1

// PaymentEvent is an idempotency ledger entry for an inbound payment
// confirmation event. Entries are created once and never deleted.
type PaymentEvent struct {
	// ID is the processor assigned, globally unique event id
	ID     string                 `json:"id"`
	Kind   types.PaymentEventKind `json:"kind"`
	Status types.ProcessingStatus `json:"status"`
	// RecordedAt is when this entry was first claimed
	RecordedAt  time.Time  `json:"recorded_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	SchemaVersion int `json:"schema_version"`

	// Version is the storage version used for conditional writes
	Version int64 `json:"-"`
}

func (e *PaymentEvent) Validate() error {
	if e.ID == "" {
		return ierr.NewError("invalid event id").
			WithHint("Event id is required").
			Mark(ierr.ErrValidation)
	}
	return e.Status.Validate()
}
