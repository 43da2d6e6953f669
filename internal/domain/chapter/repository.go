package chapter

import (
	"context"
)

// Repository defines the interface for chapter lifecycle persistence
type Repository interface {
	// Get returns the chapter record or an ErrNotFound marked error when
	// the chapter has never been written
	Get(ctx context.Context, chapterID string) (*ChapterRecord, error)

	// List returns every stored chapter record
	List(ctx context.Context) ([]*ChapterRecord, error)

	// Save persists the record, conditional on its Version
	Save(ctx context.Context, record *ChapterRecord) error
}
