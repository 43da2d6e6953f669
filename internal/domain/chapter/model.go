package chapter

import (
	"time"

	"github.com/octavehouse/storefront/internal/catalog"
	"github.com/octavehouse/storefront/internal/types"
)

// SchemaVersion is the current payload schema of chapter records
const SchemaVersion = 1

// ChapterRecord is the lifecycle state of one release wave.
//
// A chapter is uncreated until the owner creates it; the most recently
// created chapter (highest ordinal with Created=true) is the active one. A
// superseded chapter is locked permanently: its mode is pinned to add_to_cart
// and there is no transition out.
type ChapterRecord struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Created   bool              `json:"created"`
	Mode      types.ChapterMode `json:"mode"`
	Locked    bool              `json:"locked"`
	UpdatedAt time.Time         `json:"updated_at"`

	SchemaVersion int `json:"schema_version"`

	// Version is the storage version used for conditional writes
	Version int64 `json:"-"`
}

// Ordinal returns the chapter's position in the catalog, zero when the id is
// malformed
func (c *ChapterRecord) Ordinal() int {
	ordinal, err := catalog.ParseChapterID(c.ID)
	if err != nil {
		return 0
	}
	return ordinal
}

// ActiveChapter elects the active chapter from a set of records: the highest
// ordinal with Created=true. The election is computed on every read and never
// stored, so it cannot drift from the underlying created flags.
func ActiveChapter(records []*ChapterRecord) *ChapterRecord {
	var active *ChapterRecord
	for _, record := range records {
		if !record.Created {
			continue
		}
		if active == nil || record.Ordinal() > active.Ordinal() {
			active = record
		}
	}
	return active
}
