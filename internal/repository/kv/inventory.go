package kv

import (
	"context"
	"encoding/json"

	"github.com/octavehouse/storefront/internal/domain/inventory"
	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
)

type inventoryRepository struct {
	client kvstore.Client
	logger *logger.Logger
}

// NewInventoryRepository builds the inventory ledger repository
func NewInventoryRepository(client kvstore.Client, logger *logger.Logger) inventory.Repository {
	return &inventoryRepository{
		client: client,
		logger: logger,
	}
}

func (r *inventoryRepository) Get(ctx context.Context, chapterID string) (*inventory.ChapterInventory, error) {
	item, err := r.client.Get(ctx, kvstore.PKInventory, chapterID)
	if err != nil {
		return nil, err
	}

	var inv inventory.ChapterInventory
	if err := json.Unmarshal(item.Payload, &inv); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal inventory ledger").
			Mark(ierr.ErrDatabase)
	}
	if inv.SchemaVersion > inventory.SchemaVersion {
		return nil, ierr.NewError("unsupported inventory schema").
			WithReportableDetails(map[string]any{"schema_version": inv.SchemaVersion}).
			Mark(ierr.ErrDatabase)
	}
	inv.Version = item.Version
	return &inv, nil
}

func (r *inventoryRepository) Save(ctx context.Context, inv *inventory.ChapterInventory) error {
	inv.SchemaVersion = inventory.SchemaVersion

	payload, err := json.Marshal(inv)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal inventory ledger").
			Mark(ierr.ErrDatabase)
	}

	item := &kvstore.Item{
		PK:      kvstore.PKInventory,
		SK:      inv.ChapterID,
		Version: inv.Version,
		Payload: payload,
	}
	if err := r.client.Put(ctx, item); err != nil {
		return err
	}
	inv.Version = item.Version
	return nil
}
