package types

import (
	ierr "github.com/octavehouse/storefront/internal/errors"
)

// ChapterMode is the sales behaviour of the active chapter
type ChapterMode string

const (
	// ChapterModeWaitlist collects emails only, checkout is closed
	ChapterModeWaitlist ChapterMode = "waitlist"
	// ChapterModeEarlyAccess opens checkout for early access customers only
	ChapterModeEarlyAccess ChapterMode = "early_access"
	// ChapterModeAddToCart opens checkout for everyone
	ChapterModeAddToCart ChapterMode = "add_to_cart"
)

// DefaultChapterMode is the mode a chapter enters on creation
const DefaultChapterMode = ChapterModeWaitlist

func (m ChapterMode) String() string {
	return string(m)
}

func (m ChapterMode) Validate() error {
	allowed := []ChapterMode{
		ChapterModeWaitlist,
		ChapterModeEarlyAccess,
		ChapterModeAddToCart,
	}
	for _, mode := range allowed {
		if m == mode {
			return nil
		}
	}
	return ierr.NewError("invalid chapter mode").
		WithHintf("Chapter mode must be one of %v", allowed).
		Mark(ierr.ErrValidation)
}

// RequiresEarlyAccess reports whether checkout under this mode depends on a
// per customer early access grant
func (m ChapterMode) RequiresEarlyAccess() bool {
	return m == ChapterModeEarlyAccess
}

// AllowsCheckout reports whether checkout sessions may be created under this
// mode. Early access is resolved separately per customer.
func (m ChapterMode) AllowsCheckout(earlyAccess bool) bool {
	switch m {
	case ChapterModeAddToCart:
		return true
	case ChapterModeEarlyAccess:
		return earlyAccess
	default:
		return false
	}
}
