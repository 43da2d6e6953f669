package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
)

// InMemoryKVClient implements kv.Client with the same conditional write
// semantics as the production store: Put with Version 0 requires the item to
// not exist, Put with Version n requires the stored version to equal n.
type InMemoryKVClient struct {
	mu    sync.Mutex
	items map[string]map[string]*kvstore.Item
}

func NewInMemoryKVClient() *InMemoryKVClient {
	return &InMemoryKVClient{
		items: make(map[string]map[string]*kvstore.Item),
	}
}

func (c *InMemoryKVClient) Get(ctx context.Context, pk, sk string) (*kvstore.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition, ok := c.items[pk]
	if !ok {
		return nil, notFound(pk, sk)
	}
	item, ok := partition[sk]
	if !ok {
		return nil, notFound(pk, sk)
	}
	return copyItem(item), nil
}

func (c *InMemoryKVClient) List(ctx context.Context, pk string) ([]*kvstore.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition := c.items[pk]
	items := make([]*kvstore.Item, 0, len(partition))
	for _, item := range partition {
		items = append(items, copyItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SK < items[j].SK })
	return items, nil
}

func (c *InMemoryKVClient) Put(ctx context.Context, item *kvstore.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition, ok := c.items[item.PK]
	if !ok {
		partition = make(map[string]*kvstore.Item)
		c.items[item.PK] = partition
	}

	stored, exists := partition[item.SK]
	if item.Version == 0 {
		if exists {
			return versionConflict(item.PK, item.SK)
		}
	} else {
		if !exists || stored.Version != item.Version {
			return versionConflict(item.PK, item.SK)
		}
	}

	next := copyItem(item)
	next.Version = item.Version + 1
	next.UpdatedAt = time.Now().UTC()
	partition[item.SK] = next

	item.Version = next.Version
	item.UpdatedAt = next.UpdatedAt
	return nil
}

func (c *InMemoryKVClient) Delete(ctx context.Context, pk, sk string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if partition, ok := c.items[pk]; ok {
		delete(partition, sk)
	}
	return nil
}

// Clear drops every item, used between tests
func (c *InMemoryKVClient) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]map[string]*kvstore.Item)
}

func copyItem(item *kvstore.Item) *kvstore.Item {
	cp := *item
	cp.Payload = append([]byte(nil), item.Payload...)
	return &cp
}

func notFound(pk, sk string) error {
	return ierr.NewError("item not found").
		WithHint("The requested record does not exist").
		WithReportableDetails(map[string]any{"pk": pk, "sk": sk}).
		Mark(ierr.ErrNotFound)
}

func versionConflict(pk, sk string) error {
	return ierr.NewError("conditional write failed").
		WithHint("The record was modified concurrently").
		WithReportableDetails(map[string]any{"pk": pk, "sk": sk}).
		Mark(ierr.ErrVersionConflict)
}
