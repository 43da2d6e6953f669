package types

import (
	ierr "github.com/octavehouse/storefront/internal/errors"
)

// PaymentEventKind is the processor assigned type of an inbound payment event.
// Only the checkout completed kind triggers fulfillment; every other kind is
// accepted and ignored.
type PaymentEventKind string

const (
	PaymentEventKindCheckoutCompleted PaymentEventKind = "checkout.session.completed"
	PaymentEventKindCheckoutExpired   PaymentEventKind = "checkout.session.expired"
	PaymentEventKindIntentSucceeded   PaymentEventKind = "payment_intent.succeeded"
	PaymentEventKindIntentFailed      PaymentEventKind = "payment_intent.payment_failed"
)

func (k PaymentEventKind) String() string {
	return string(k)
}

// TriggersFulfillment reports whether the event kind is fulfillment worthy
func (k PaymentEventKind) TriggersFulfillment() bool {
	return k == PaymentEventKindCheckoutCompleted
}

// ProcessingStatus is the idempotency ledger state of a payment event
type ProcessingStatus string

const (
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusProcessed  ProcessingStatus = "processed"
)

func (s ProcessingStatus) String() string {
	return string(s)
}

func (s ProcessingStatus) Validate() error {
	switch s {
	case ProcessingStatusProcessing, ProcessingStatusProcessed:
		return nil
	}
	return ierr.NewError("invalid processing status").
		WithHint("Processing status must be processing or processed").
		Mark(ierr.ErrValidation)
}
