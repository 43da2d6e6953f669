package kv

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/octavehouse/storefront/internal/domain/order"
	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
)

type orderRepository struct {
	client kvstore.Client
	logger *logger.Logger
}

// NewOrderRepository builds the order repository
func NewOrderRepository(client kvstore.Client, logger *logger.Logger) order.Repository {
	return &orderRepository{
		client: client,
		logger: logger,
	}
}

// customerHistory is the per buyer order id index payload
type customerHistory struct {
	Email         string   `json:"email"`
	OrderIDs      []string `json:"order_ids"`
	SchemaVersion int      `json:"schema_version"`
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.UpdatedAt = o.CreatedAt
	o.Version = 0
	return r.save(ctx, o)
}

func (r *orderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	item, err := r.client.Get(ctx, kvstore.PKOrder, id)
	if err != nil {
		return nil, err
	}
	return unmarshalOrder(item)
}

func (r *orderRepository) List(ctx context.Context) ([]*order.Order, error) {
	items, err := r.client.List(ctx, kvstore.PKOrder)
	if err != nil {
		return nil, err
	}
	orders := make([]*order.Order, 0, len(items))
	for _, item := range items {
		o, err := unmarshalOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	o.UpdatedAt = time.Now().UTC()
	return r.save(ctx, o)
}

func (r *orderRepository) AppendToCustomerHistory(ctx context.Context, email string, orderID string) error {
	key := strings.ToLower(email)

	var history customerHistory
	var version int64

	item, err := r.client.Get(ctx, kvstore.PKCustomerOrders, key)
	switch {
	case err == nil:
		if err := json.Unmarshal(item.Payload, &history); err != nil {
			return ierr.WithError(err).
				WithMessage("failed to unmarshal customer history").
				Mark(ierr.ErrDatabase)
		}
		version = item.Version
	case ierr.IsNotFound(err):
		history = customerHistory{Email: key}
	default:
		return err
	}

	history.OrderIDs = append(history.OrderIDs, orderID)
	history.SchemaVersion = order.SchemaVersion

	payload, err := json.Marshal(history)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal customer history").
			Mark(ierr.ErrDatabase)
	}
	return r.client.Put(ctx, &kvstore.Item{
		PK:      kvstore.PKCustomerOrders,
		SK:      key,
		Version: version,
		Payload: payload,
	})
}

func (r *orderRepository) ListByCustomer(ctx context.Context, email string) ([]string, error) {
	item, err := r.client.Get(ctx, kvstore.PKCustomerOrders, strings.ToLower(email))
	if err != nil {
		if ierr.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var history customerHistory
	if err := json.Unmarshal(item.Payload, &history); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal customer history").
			Mark(ierr.ErrDatabase)
	}
	return history.OrderIDs, nil
}

func (r *orderRepository) save(ctx context.Context, o *order.Order) error {
	o.SchemaVersion = order.SchemaVersion
	if err := o.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(o)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal order").
			Mark(ierr.ErrDatabase)
	}

	item := &kvstore.Item{
		PK:      kvstore.PKOrder,
		SK:      o.ID,
		Version: o.Version,
		Payload: payload,
	}
	if err := r.client.Put(ctx, item); err != nil {
		return err
	}
	o.Version = item.Version
	return nil
}

func unmarshalOrder(item *kvstore.Item) (*order.Order, error) {
	var o order.Order
	if err := json.Unmarshal(item.Payload, &o); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal order").
			Mark(ierr.ErrDatabase)
	}
	if o.SchemaVersion > order.SchemaVersion {
		return nil, ierr.NewError("unsupported order schema").
			WithReportableDetails(map[string]any{"schema_version": o.SchemaVersion}).
			Mark(ierr.ErrDatabase)
	}
	o.Version = item.Version
	return &o, nil
}
