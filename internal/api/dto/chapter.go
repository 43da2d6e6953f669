package dto

import (
	"time"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// ChapterResponse is one chapter's lifecycle state
type ChapterResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Created   bool              `json:"created"`
	Mode      types.ChapterMode `json:"mode,omitempty"`
	Locked    bool              `json:"locked"`
	Active    bool              `json:"active"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

// ListChaptersResponse returns every chapter plus the computed active chapter
type ListChaptersResponse struct {
	Chapters        []*ChapterResponse `json:"chapters"`
	ActiveChapterID string             `json:"active_chapter_id,omitempty"`
	ActiveMode      types.ChapterMode  `json:"active_mode,omitempty"`
}

// UpdateChapterRequest is the owner facing admin mutation: create a chapter
// and/or change the active chapter's mode
type UpdateChapterRequest struct {
	ChapterID string             `json:"chapter_id" binding:"required"`
	Created   *bool              `json:"created,omitempty"`
	Mode      *types.ChapterMode `json:"mode,omitempty"`
}

func (r *UpdateChapterRequest) Validate() error {
	if r.ChapterID == "" {
		return ierr.NewError("chapter id is required").
			WithHint("Chapter id is required").
			Mark(ierr.ErrValidation)
	}
	if r.Created == nil && r.Mode == nil {
		return ierr.NewError("nothing to apply").
			WithHint("Provide created and/or mode").
			Mark(ierr.ErrValidation)
	}
	if r.Created != nil && !*r.Created {
		return ierr.NewError("chapters cannot be uncreated").
			WithHint("A created chapter cannot be reverted").
			Mark(ierr.ErrValidation)
	}
	if r.Mode != nil {
		return r.Mode.Validate()
	}
	return nil
}
