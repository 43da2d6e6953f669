package kv

import (
	"context"
	"encoding/json"

	"github.com/octavehouse/storefront/internal/domain/ratelimit"
	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/types"
)

type rateLimitRepository struct {
	client kvstore.Client
	logger *logger.Logger
}

// NewRateLimitRepository builds the rate limit record repository
func NewRateLimitRepository(client kvstore.Client, logger *logger.Logger) ratelimit.Repository {
	return &rateLimitRepository{
		client: client,
		logger: logger,
	}
}

func (r *rateLimitRepository) Get(ctx context.Context, clientKey string, action types.RateLimitAction) (*ratelimit.Record, error) {
	item, err := r.client.Get(ctx, kvstore.PKRateLimit, ratelimit.Key(clientKey, action))
	if err != nil {
		return nil, err
	}

	var record ratelimit.Record
	if err := json.Unmarshal(item.Payload, &record); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal rate limit record").
			Mark(ierr.ErrDatabase)
	}
	if record.SchemaVersion > ratelimit.SchemaVersion {
		return nil, ierr.NewError("unsupported rate limit schema").
			WithReportableDetails(map[string]any{"schema_version": record.SchemaVersion}).
			Mark(ierr.ErrDatabase)
	}
	record.Version = item.Version
	return &record, nil
}

func (r *rateLimitRepository) Save(ctx context.Context, record *ratelimit.Record) error {
	record.SchemaVersion = ratelimit.SchemaVersion

	payload, err := json.Marshal(record)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal rate limit record").
			Mark(ierr.ErrDatabase)
	}

	item := &kvstore.Item{
		PK:      kvstore.PKRateLimit,
		SK:      ratelimit.Key(record.ClientKey, record.Action),
		Version: record.Version,
		Payload: payload,
	}
	if err := r.client.Put(ctx, item); err != nil {
		return err
	}
	record.Version = item.Version
	return nil
}

func (r *rateLimitRepository) Delete(ctx context.Context, clientKey string, action types.RateLimitAction) error {
	return r.client.Delete(ctx, kvstore.PKRateLimit, ratelimit.Key(clientKey, action))
}
