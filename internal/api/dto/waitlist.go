package dto

import (
	"strings"
	"time"

	ierr "github.com/octavehouse/storefront/internal/errors"
)

// JoinWaitlistRequest signs an email up for a chapter's waitlist
type JoinWaitlistRequest struct {
	ChapterID string `json:"chapter_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

func (r *JoinWaitlistRequest) Validate() error {
	if r.ChapterID == "" {
		return ierr.NewError("chapter id is required").
			WithHint("Chapter id is required").
			Mark(ierr.ErrValidation)
	}
	if !strings.Contains(r.Email, "@") {
		return ierr.NewError("invalid email").
			WithHint("A valid email address is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// JoinWaitlistResponse acknowledges a waitlist signup. AlreadyJoined is true
// when the email was on the list before this request.
type JoinWaitlistResponse struct {
	ChapterID     string    `json:"chapter_id"`
	Email         string    `json:"email"`
	AlreadyJoined bool      `json:"already_joined"`
	JoinedAt      time.Time `json:"joined_at"`
}
