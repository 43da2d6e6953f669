package types

import (
	ierr "github.com/octavehouse/storefront/internal/errors"
)

// OrderStatus is the payment level state of an order
type OrderStatus string

const (
	// OrderStatusPaid is the status every order is created with by the ingestor
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusFulfilled and OrderStatusCancelled are admin advanced states
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Validate() error {
	switch s {
	case OrderStatusPaid, OrderStatusFulfilled, OrderStatusCancelled:
		return nil
	}
	return ierr.NewError("invalid order status").
		WithHint("Order status must be one of paid, fulfilled, cancelled").
		Mark(ierr.ErrValidation)
}

// ConfirmationStatus is the shipping confirmation progression of an order
type ConfirmationStatus string

const (
	ConfirmationStatusNone      ConfirmationStatus = "none"
	ConfirmationStatusPacked    ConfirmationStatus = "packed"
	ConfirmationStatusSent      ConfirmationStatus = "sent"
	ConfirmationStatusDelivered ConfirmationStatus = "delivered"
)

// confirmationOrder is the only allowed progression; there is no way back
var confirmationOrder = map[ConfirmationStatus]int{
	ConfirmationStatusNone:      0,
	ConfirmationStatusPacked:    1,
	ConfirmationStatusSent:      2,
	ConfirmationStatusDelivered: 3,
}

func (s ConfirmationStatus) String() string {
	return string(s)
}

func (s ConfirmationStatus) Validate() error {
	if _, ok := confirmationOrder[s]; !ok {
		return ierr.NewError("invalid confirmation status").
			WithHint("Confirmation status must be one of none, packed, sent, delivered").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CanTransitionTo reports whether the confirmation status may advance to next.
// Only single forward steps are allowed.
func (s ConfirmationStatus) CanTransitionTo(next ConfirmationStatus) bool {
	from, ok := confirmationOrder[s]
	if !ok {
		return false
	}
	to, ok := confirmationOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}
