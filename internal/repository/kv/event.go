package kv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/octavehouse/storefront/internal/domain/event"
	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/types"
)

type paymentEventRepository struct {
	client kvstore.Client
	logger *logger.Logger
}

// NewPaymentEventRepository builds the idempotency ledger repository
func NewPaymentEventRepository(client kvstore.Client, logger *logger.Logger) event.Repository {
	return &paymentEventRepository{
		client: client,
		logger: logger,
	}
}

func (r *paymentEventRepository) Get(ctx context.Context, id string) (*event.PaymentEvent, error) {
	item, err := r.client.Get(ctx, kvstore.PKPaymentEvent, id)
	if err != nil {
		return nil, err
	}
	return unmarshalPaymentEvent(item)
}

func (r *paymentEventRepository) Claim(ctx context.Context, ev *event.PaymentEvent) error {
	ev.Status = types.ProcessingStatusProcessing
	if ev.RecordedAt.IsZero() {
		ev.RecordedAt = time.Now().UTC()
	}
	return r.save(ctx, ev)
}

func (r *paymentEventRepository) MarkProcessed(ctx context.Context, ev *event.PaymentEvent) error {
	ev.Status = types.ProcessingStatusProcessed
	ev.ProcessedAt = lo.ToPtr(time.Now().UTC())
	return r.save(ctx, ev)
}

func (r *paymentEventRepository) save(ctx context.Context, ev *event.PaymentEvent) error {
	ev.SchemaVersion = event.SchemaVersion
	if err := ev.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal payment event").
			Mark(ierr.ErrDatabase)
	}

	item := &kvstore.Item{
		PK:      kvstore.PKPaymentEvent,
		SK:      ev.ID,
		Version: ev.Version,
		Payload: payload,
	}
	if err := r.client.Put(ctx, item); err != nil {
		return err
	}
	ev.Version = item.Version
	return nil
}

func unmarshalPaymentEvent(item *kvstore.Item) (*event.PaymentEvent, error) {
	var ev event.PaymentEvent
	if err := json.Unmarshal(item.Payload, &ev); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal payment event").
			Mark(ierr.ErrDatabase)
	}
	if ev.SchemaVersion > event.SchemaVersion {
		return nil, ierr.NewError("unsupported payment event schema").
			WithReportableDetails(map[string]any{"schema_version": ev.SchemaVersion}).
			Mark(ierr.ErrDatabase)
	}
	ev.Version = item.Version
	return &ev, nil
}
