package inventory

import (
	"context"
)

// Repository defines the interface for the inventory ledger
type Repository interface {
	// Get returns the chapter's ledger or an ErrNotFound marked error when
	// the chapter was never initialized
	Get(ctx context.Context, chapterID string) (*ChapterInventory, error)

	// Save persists the whole chapter ledger as a single conditional write
	// keyed on its Version, so concurrent decrements surface as
	// ErrVersionConflict instead of overselling
	Save(ctx context.Context, inv *ChapterInventory) error
}
