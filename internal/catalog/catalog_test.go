package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

func TestChapterForModel(t *testing.T) {
	tests := []struct {
		modelID int
		chapter string
	}{
		{1, "chapter-1"},
		{5, "chapter-1"},
		{6, "chapter-2"},
		{10, "chapter-2"},
		{26, "chapter-6"},
		{50, "chapter-10"},
	}
	for _, tt := range tests {
		chapterID, err := ChapterForModel(tt.modelID)
		assert.NoError(t, err)
		assert.Equal(t, tt.chapter, chapterID)
	}
}

func TestChapterForModelRejectsUnroutable(t *testing.T) {
	for _, modelID := range []int{0, -1, 51, 1000} {
		_, err := ChapterForModel(modelID)
		assert.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	}
}

func TestParseChapterID(t *testing.T) {
	ordinal, err := ParseChapterID("chapter-7")
	assert.NoError(t, err)
	assert.Equal(t, 7, ordinal)

	for _, id := range []string{"", "chapter-", "chapter-0", "chapter-11", "ch-1", "chapter-x"} {
		_, err := ParseChapterID(id)
		assert.Error(t, err, "id %q should be rejected", id)
		assert.True(t, ierr.IsValidation(err))
	}
}

func TestModelsForChapter(t *testing.T) {
	models, err := ModelsForChapter("chapter-3")
	assert.NoError(t, err)
	assert.Equal(t, []int{11, 12, 13, 14, 15}, models)

	_, err = ModelsForChapter("chapter-99")
	assert.Error(t, err)
}

func TestDefaultSeedIsACopy(t *testing.T) {
	seed := DefaultSeed()
	assert.Equal(t, 50, seed[types.SizeM])
	assert.Equal(t, 20, seed[types.SizeS])

	seed[types.SizeM] = 0
	assert.Equal(t, 50, DefaultSeed()[types.SizeM])
}

func TestAllChapterIDs(t *testing.T) {
	ids := AllChapterIDs()
	assert.Len(t, ids, ChapterCount)
	assert.Equal(t, "chapter-1", ids[0])
	assert.Equal(t, "chapter-10", ids[len(ids)-1])
}
