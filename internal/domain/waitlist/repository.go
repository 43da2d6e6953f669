package waitlist

import (
	"context"
)

// Repository defines the interface for waitlist persistence
type Repository interface {
	// Get returns the entry for a (chapter, email) pair or an ErrNotFound
	// marked error
	Get(ctx context.Context, chapterID, email string) (*Entry, error)

	// Create writes a new entry; a duplicate surfaces as ErrVersionConflict
	Create(ctx context.Context, entry *Entry) error

	// ListByChapter returns every entry for the chapter
	ListByChapter(ctx context.Context, chapterID string) ([]*Entry, error)
}
