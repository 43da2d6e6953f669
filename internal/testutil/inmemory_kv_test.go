package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
)

func TestPutCreateRequiresAbsence(t *testing.T) {
	ctx := context.Background()
	client := NewInMemoryKVClient()

	item := &kvstore.Item{PK: kvstore.PKChapter, SK: "chapter-1", Version: 0, Payload: []byte(`{}`)}
	assert.NoError(t, client.Put(ctx, item))
	assert.Equal(t, int64(1), item.Version)

	// A second create of the same key loses
	dup := &kvstore.Item{PK: kvstore.PKChapter, SK: "chapter-1", Version: 0, Payload: []byte(`{}`)}
	err := client.Put(ctx, dup)
	assert.Error(t, err)
	assert.True(t, ierr.IsVersionConflict(err))
}

func TestPutUpdateRequiresMatchingVersion(t *testing.T) {
	ctx := context.Background()
	client := NewInMemoryKVClient()

	item := &kvstore.Item{PK: kvstore.PKInventory, SK: "chapter-1", Version: 0, Payload: []byte(`{"a":1}`)}
	assert.NoError(t, client.Put(ctx, item))

	// Writer with the current version wins and advances it
	current := &kvstore.Item{PK: kvstore.PKInventory, SK: "chapter-1", Version: 1, Payload: []byte(`{"a":2}`)}
	assert.NoError(t, client.Put(ctx, current))
	assert.Equal(t, int64(2), current.Version)

	// Writer holding the stale version loses
	stale := &kvstore.Item{PK: kvstore.PKInventory, SK: "chapter-1", Version: 1, Payload: []byte(`{"a":3}`)}
	err := client.Put(ctx, stale)
	assert.Error(t, err)
	assert.True(t, ierr.IsVersionConflict(err))

	stored, err := client.Get(ctx, kvstore.PKInventory, "chapter-1")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), stored.Payload)
}

func TestGetMissingItem(t *testing.T) {
	ctx := context.Background()
	client := NewInMemoryKVClient()

	_, err := client.Get(ctx, kvstore.PKOrder, "missing")
	assert.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestListReturnsPartitionSorted(t *testing.T) {
	ctx := context.Background()
	client := NewInMemoryKVClient()

	for _, sk := range []string{"b", "a", "c"} {
		assert.NoError(t, client.Put(ctx, &kvstore.Item{PK: kvstore.PKWaitlist, SK: sk, Version: 0, Payload: []byte(`{}`)}))
	}
	assert.NoError(t, client.Put(ctx, &kvstore.Item{PK: kvstore.PKOrder, SK: "other", Version: 0, Payload: []byte(`{}`)}))

	items, err := client.List(ctx, kvstore.PKWaitlist)
	assert.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "a", items[0].SK)
	assert.Equal(t, "c", items[2].SK)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := NewInMemoryKVClient()

	assert.NoError(t, client.Put(ctx, &kvstore.Item{PK: kvstore.PKRateLimit, SK: "k", Version: 0, Payload: []byte(`{}`)}))
	assert.NoError(t, client.Delete(ctx, kvstore.PKRateLimit, "k"))
	assert.NoError(t, client.Delete(ctx, kvstore.PKRateLimit, "k"))

	_, err := client.Get(ctx, kvstore.PKRateLimit, "k")
	assert.True(t, ierr.IsNotFound(err))
}
