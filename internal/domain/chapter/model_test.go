package chapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveChapterElection(t *testing.T) {
	records := []*ChapterRecord{
		{ID: "chapter-1", Created: true},
		{ID: "chapter-3", Created: true},
		{ID: "chapter-2", Created: true},
		{ID: "chapter-4", Created: false},
	}

	active := ActiveChapter(records)
	assert.NotNil(t, active)
	assert.Equal(t, "chapter-3", active.ID)
}

func TestActiveChapterNoneCreated(t *testing.T) {
	records := []*ChapterRecord{
		{ID: "chapter-1"},
		{ID: "chapter-2"},
	}
	assert.Nil(t, ActiveChapter(records))
}

func TestActiveChapterEmpty(t *testing.T) {
	assert.Nil(t, ActiveChapter(nil))
}
