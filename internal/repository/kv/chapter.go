package kv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/octavehouse/storefront/internal/domain/chapter"
	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
)

type chapterRepository struct {
	client kvstore.Client
	logger *logger.Logger
}

// NewChapterRepository builds the chapter lifecycle repository
func NewChapterRepository(client kvstore.Client, logger *logger.Logger) chapter.Repository {
	return &chapterRepository{
		client: client,
		logger: logger,
	}
}

func (r *chapterRepository) Get(ctx context.Context, chapterID string) (*chapter.ChapterRecord, error) {
	item, err := r.client.Get(ctx, kvstore.PKChapter, chapterID)
	if err != nil {
		return nil, err
	}
	return unmarshalChapter(item)
}

func (r *chapterRepository) List(ctx context.Context) ([]*chapter.ChapterRecord, error) {
	items, err := r.client.List(ctx, kvstore.PKChapter)
	if err != nil {
		return nil, err
	}
	records := make([]*chapter.ChapterRecord, 0, len(items))
	for _, item := range items {
		record, err := unmarshalChapter(item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *chapterRepository) Save(ctx context.Context, record *chapter.ChapterRecord) error {
	record.SchemaVersion = chapter.SchemaVersion
	record.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(record)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal chapter record").
			Mark(ierr.ErrDatabase)
	}

	item := &kvstore.Item{
		PK:      kvstore.PKChapter,
		SK:      record.ID,
		Version: record.Version,
		Payload: payload,
	}
	if err := r.client.Put(ctx, item); err != nil {
		return err
	}
	record.Version = item.Version
	return nil
}

func unmarshalChapter(item *kvstore.Item) (*chapter.ChapterRecord, error) {
	var record chapter.ChapterRecord
	if err := json.Unmarshal(item.Payload, &record); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal chapter record").
			Mark(ierr.ErrDatabase)
	}
	if record.SchemaVersion > chapter.SchemaVersion {
		return nil, ierr.NewError("unsupported chapter schema").
			WithReportableDetails(map[string]any{"schema_version": record.SchemaVersion}).
			Mark(ierr.ErrDatabase)
	}
	record.Version = item.Version
	return &record, nil
}
