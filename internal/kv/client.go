package kv

import (
	"context"
	"time"
)

// Record type partitions. Every ledger lives in the same table keyed by
// (PK = record type, SK = record id).
const (
	PKPaymentEvent   = "payment_event"
	PKOrder          = "order"
	PKCustomerOrders = "customer_orders"
	PKInventory      = "inventory"
	PKChapter        = "chapter"
	PKRateLimit      = "rate_limit"
	PKWaitlist       = "waitlist"
	PKAudit          = "audit"
)

// Item is a single versioned record in the store. Payload is the JSON encoded
// domain record; repositories own the schema of their payloads.
type Item struct {
	PK        string    `json:"pk"`
	SK        string    `json:"sk"`
	Version   int64     `json:"version"`
	Payload   []byte    `json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client is the store client every repository is built on.
//
// Consistency contract: reads are strongly consistent (read-after-write), and
// Put is a conditional write. Put with Version 0 requires the item to not
// exist yet; Put with Version n requires the stored version to still equal n.
// A failed condition surfaces as ErrVersionConflict so callers can run
// compare-and-retry loops instead of naive read-then-write sequences.
type Client interface {
	// Get returns the item or an ErrNotFound marked error
	Get(ctx context.Context, pk, sk string) (*Item, error)

	// List returns every item under the given partition
	List(ctx context.Context, pk string) ([]*Item, error)

	// Put conditionally writes the item (see the consistency contract above).
	// On success the item's Version is advanced to the stored version.
	Put(ctx context.Context, item *Item) error

	// Delete removes the item; deleting a missing item is not an error
	Delete(ctx context.Context, pk, sk string) error
}
