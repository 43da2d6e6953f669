package inventory

import (
	"time"

	"github.com/octavehouse/storefront/internal/types"
)

// SchemaVersion is the current payload schema of inventory ledgers
const SchemaVersion = 1

// ChapterInventory is the stock ledger of one chapter: an integer counter per
// (model, size). Counters are only ever decremented; there is no restock path.
type ChapterInventory struct {
	ChapterID     string     `json:"chapter_id"`
	Initialized   bool       `json:"initialized"`
	InitializedAt *time.Time `json:"initialized_at,omitempty"`

	// Counts maps model id -> size -> remaining stock
	Counts map[int]map[types.Size]int `json:"counts"`

	SchemaVersion int `json:"schema_version"`

	// Version is the storage version used for conditional writes
	Version int64 `json:"-"`
}

// Stock returns the remaining count for a (model, size), zero when the model
// or size is not tracked
func (ci *ChapterInventory) Stock(modelID int, size types.Size) int {
	if ci == nil || ci.Counts == nil {
		return 0
	}
	sizes, ok := ci.Counts[modelID]
	if !ok {
		return 0
	}
	return sizes[size]
}

// Apply decrements the (model, size) counter by quantity. Callers must have
// validated sufficiency first; Apply never lets a counter go negative.
func (ci *ChapterInventory) Apply(modelID int, size types.Size, quantity int) {
	sizes, ok := ci.Counts[modelID]
	if !ok {
		return
	}
	remaining := sizes[size] - quantity
	if remaining < 0 {
		remaining = 0
	}
	sizes[size] = remaining
}
