package kv

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/octavehouse/storefront/internal/domain/waitlist"
	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
)

type waitlistRepository struct {
	client kvstore.Client
	logger *logger.Logger
}

// NewWaitlistRepository builds the waitlist repository
func NewWaitlistRepository(client kvstore.Client, logger *logger.Logger) waitlist.Repository {
	return &waitlistRepository{
		client: client,
		logger: logger,
	}
}

func (r *waitlistRepository) Get(ctx context.Context, chapterID, email string) (*waitlist.Entry, error) {
	item, err := r.client.Get(ctx, kvstore.PKWaitlist, waitlist.Key(chapterID, email))
	if err != nil {
		return nil, err
	}
	return unmarshalWaitlistEntry(item)
}

func (r *waitlistRepository) Create(ctx context.Context, entry *waitlist.Entry) error {
	entry.SchemaVersion = waitlist.SchemaVersion
	if err := entry.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal waitlist entry").
			Mark(ierr.ErrDatabase)
	}

	item := &kvstore.Item{
		PK:      kvstore.PKWaitlist,
		SK:      waitlist.Key(entry.ChapterID, entry.Email),
		Version: 0,
		Payload: payload,
	}
	if err := r.client.Put(ctx, item); err != nil {
		return err
	}
	entry.Version = item.Version
	return nil
}

func (r *waitlistRepository) ListByChapter(ctx context.Context, chapterID string) ([]*waitlist.Entry, error) {
	items, err := r.client.List(ctx, kvstore.PKWaitlist)
	if err != nil {
		return nil, err
	}
	entries := make([]*waitlist.Entry, 0)
	for _, item := range items {
		if !strings.HasPrefix(item.SK, chapterID+":") {
			continue
		}
		entry, err := unmarshalWaitlistEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func unmarshalWaitlistEntry(item *kvstore.Item) (*waitlist.Entry, error) {
	var entry waitlist.Entry
	if err := json.Unmarshal(item.Payload, &entry); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal waitlist entry").
			Mark(ierr.ErrDatabase)
	}
	if entry.SchemaVersion > waitlist.SchemaVersion {
		return nil, ierr.NewError("unsupported waitlist schema").
			WithReportableDetails(map[string]any{"schema_version": entry.SchemaVersion}).
			Mark(ierr.ErrDatabase)
	}
	entry.Version = item.Version
	return &entry, nil
}
