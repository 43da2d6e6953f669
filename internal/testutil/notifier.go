package testutil

import (
	"context"
	"sync"

	"github.com/octavehouse/storefront/internal/domain/order"
)

// RecordingNotifier captures order confirmation notifications for assertions
type RecordingNotifier struct {
	mu        sync.Mutex
	Confirmed []*order.Order
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) OrderConfirmed(ctx context.Context, o *order.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Confirmed = append(n.Confirmed, o)
}
