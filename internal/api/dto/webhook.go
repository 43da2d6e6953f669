package dto

import "github.com/octavehouse/storefront/internal/types"

// ProcessEventResult reports the outcome of ingesting one payment event
type ProcessEventResult struct {
	EventID   string                 `json:"event_id"`
	Kind      types.PaymentEventKind `json:"kind"`
	Processed bool                   `json:"processed"`
	Skipped   bool                   `json:"skipped"`
	Ignored   bool                   `json:"ignored"`
	OrderID   string                 `json:"order_id,omitempty"`
}
