package order

import (
	"context"
)

// Repository defines the interface for order persistence
type Repository interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	// Update writes the order back, conditional on its Version
	Update(ctx context.Context, order *Order) error

	// AppendToCustomerHistory adds the order id to the buyer's order
	// history index
	AppendToCustomerHistory(ctx context.Context, email string, orderID string) error
	// ListByCustomer returns the buyer's order ids, oldest first
	ListByCustomer(ctx context.Context, email string) ([]string, error)
}
