// Package catalog is the single source of truth for the product to chapter
// routing table. Every component resolves model ids through this package;
// unmapped ids are hard errors, never silently skipped.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

const (
	// ChapterCount is the number of release waves in the catalog
	ChapterCount = 10
	// ModelsPerChapter is the number of product designs in each chapter
	ModelsPerChapter = 5
)

// defaultSeed is the per size stock every model starts with when a chapter's
// inventory is initialized
var defaultSeed = map[types.Size]int{
	types.SizeXS: 10,
	types.SizeS:  20,
	types.SizeM:  50,
	types.SizeL:  30,
	types.SizeXL: 15,
}

// ChapterID formats the chapter id for the given ordinal, e.g. `chapter-2`
func ChapterID(ordinal int) string {
	return fmt.Sprintf("chapter-%d", ordinal)
}

// ParseChapterID returns the ordinal of a chapter id, rejecting ids that are
// malformed or outside the catalog range.
func ParseChapterID(chapterID string) (int, error) {
	raw, ok := strings.CutPrefix(chapterID, "chapter-")
	if !ok {
		return 0, ierr.NewError("malformed chapter id").
			WithHintf("Chapter id must look like chapter-1..chapter-%d", ChapterCount).
			WithReportableDetails(map[string]any{"chapter_id": chapterID}).
			Mark(ierr.ErrValidation)
	}
	ordinal, err := strconv.Atoi(raw)
	if err != nil || ordinal < 1 || ordinal > ChapterCount {
		return 0, ierr.NewError("unknown chapter id").
			WithHintf("Chapter id must look like chapter-1..chapter-%d", ChapterCount).
			WithReportableDetails(map[string]any{"chapter_id": chapterID}).
			Mark(ierr.ErrValidation)
	}
	return ordinal, nil
}

// AllChapterIDs returns every chapter id in ordinal order
func AllChapterIDs() []string {
	ids := make([]string, 0, ChapterCount)
	for i := 1; i <= ChapterCount; i++ {
		ids = append(ids, ChapterID(i))
	}
	return ids
}

// ChapterForModel routes a model id to its owning chapter. An unroutable
// model id is an explicit error.
func ChapterForModel(modelID int) (string, error) {
	if modelID < 1 || modelID > ChapterCount*ModelsPerChapter {
		return "", ierr.NewError("model is not mapped to any chapter").
			WithHint("Unknown product id").
			WithReportableDetails(map[string]any{"model_id": modelID}).
			Mark(ierr.ErrValidation)
	}
	return ChapterID((modelID-1)/ModelsPerChapter + 1), nil
}

// ModelsForChapter returns the model ids belonging to a chapter
func ModelsForChapter(chapterID string) ([]int, error) {
	ordinal, err := ParseChapterID(chapterID)
	if err != nil {
		return nil, err
	}
	models := make([]int, 0, ModelsPerChapter)
	first := (ordinal-1)*ModelsPerChapter + 1
	for m := first; m < first+ModelsPerChapter; m++ {
		models = append(models, m)
	}
	return models, nil
}

// DefaultSeed returns a copy of the default per size stock distribution
func DefaultSeed() map[types.Size]int {
	seed := make(map[types.Size]int, len(defaultSeed))
	for size, count := range defaultSeed {
		seed[size] = count
	}
	return seed
}
