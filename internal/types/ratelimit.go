package types

import (
	ierr "github.com/octavehouse/storefront/internal/errors"
)

// RateLimitAction is an abuse guarded action type. Each action carries its own
// window, attempt budget and block duration configuration.
type RateLimitAction string

const (
	RateLimitActionLogin        RateLimitAction = "login"
	RateLimitActionSignup       RateLimitAction = "signup"
	RateLimitActionWaitlistJoin RateLimitAction = "waitlist_join"
)

func (a RateLimitAction) String() string {
	return string(a)
}

func (a RateLimitAction) Validate() error {
	switch a {
	case RateLimitActionLogin, RateLimitActionSignup, RateLimitActionWaitlistJoin:
		return nil
	}
	return ierr.NewError("invalid rate limit action").
		WithHint("Unknown rate limited action type").
		Mark(ierr.ErrValidation)
}
