package waitlist

import (
	"fmt"
	"strings"
	"time"

	ierr "github.com/octavehouse/storefront/internal/errors"
)

// SchemaVersion is the current payload schema of waitlist entries
const SchemaVersion = 1

// Entry is a waitlist signup for a chapter. At most one entry exists per
// (chapter, email).
type Entry struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapter_id"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joined_at"`

	SchemaVersion int `json:"schema_version"`

	// Version is the storage version used for conditional writes
	Version int64 `json:"-"`
}

// Key builds the storage key for a (chapter, email) pair
func Key(chapterID, email string) string {
	return fmt.Sprintf("%s:%s", chapterID, strings.ToLower(email))
}

func (e *Entry) Validate() error {
	if e.ChapterID == "" {
		return ierr.NewError("invalid chapter id").
			WithHint("Chapter id is required").
			Mark(ierr.ErrValidation)
	}
	if e.Email == "" || !strings.Contains(e.Email, "@") {
		return ierr.NewError("invalid email").
			WithHint("A valid email address is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
