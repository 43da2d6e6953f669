package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmationTransitions(t *testing.T) {
	assert.True(t, ConfirmationStatusNone.CanTransitionTo(ConfirmationStatusPacked))
	assert.True(t, ConfirmationStatusPacked.CanTransitionTo(ConfirmationStatusSent))
	assert.True(t, ConfirmationStatusSent.CanTransitionTo(ConfirmationStatusDelivered))

	// No skips
	assert.False(t, ConfirmationStatusNone.CanTransitionTo(ConfirmationStatusSent))
	assert.False(t, ConfirmationStatusNone.CanTransitionTo(ConfirmationStatusDelivered))

	// No way back
	assert.False(t, ConfirmationStatusSent.CanTransitionTo(ConfirmationStatusPacked))
	assert.False(t, ConfirmationStatusDelivered.CanTransitionTo(ConfirmationStatusNone))

	// Terminal
	assert.False(t, ConfirmationStatusDelivered.CanTransitionTo(ConfirmationStatusDelivered))
}

func TestChapterModeCheckout(t *testing.T) {
	assert.False(t, ChapterModeWaitlist.AllowsCheckout(false))
	assert.False(t, ChapterModeWaitlist.AllowsCheckout(true))
	assert.False(t, ChapterModeEarlyAccess.AllowsCheckout(false))
	assert.True(t, ChapterModeEarlyAccess.AllowsCheckout(true))
	assert.True(t, ChapterModeAddToCart.AllowsCheckout(false))
}

func TestPaymentEventKindFulfillment(t *testing.T) {
	assert.True(t, PaymentEventKindCheckoutCompleted.TriggersFulfillment())
	assert.False(t, PaymentEventKindCheckoutExpired.TriggersFulfillment())
	assert.False(t, PaymentEventKindIntentSucceeded.TriggersFulfillment())
	assert.False(t, PaymentEventKind("unknown.kind").TriggersFulfillment())
}
