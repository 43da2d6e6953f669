package service

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/octavehouse/storefront/internal/domain/ratelimit"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// RateLimitService enforces per (client, action) sliding windows over failed
// attempts. Successful attempts clear the window; tripping the limit installs
// an explicit block that outlives the window.
type RateLimitService interface {
	// Check returns an ErrTooManyRequests marked error when the client is
	// blocked or has exhausted its attempt budget for the action
	Check(ctx context.Context, clientKey string, action types.RateLimitAction) error

	// RecordFailure appends a failed attempt and installs a block when the
	// budget is exhausted
	RecordFailure(ctx context.Context, clientKey string, action types.RateLimitAction) error

	// Clear forgets the client's window after a successful attempt
	Clear(ctx context.Context, clientKey string, action types.RateLimitAction) error
}

type rateLimitService struct {
	ServiceParams
}

func NewRateLimitService(params ServiceParams) RateLimitService {
	return &rateLimitService{
		ServiceParams: params,
	}
}

// ClientKey picks the rate limit identity for a request: the normalized email
// when one is known, otherwise the client ip
func ClientKey(email, ip string) string {
	if email != "" {
		return strings.ToLower(strings.TrimSpace(email))
	}
	return ip
}

func (s *rateLimitService) Check(ctx context.Context, clientKey string, action types.RateLimitAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	limits := s.Config.RateLimit.ForAction(action)
	if limits.MaxAttempts <= 0 {
		return nil
	}

	record, err := s.RateLimitRepo.Get(ctx, clientKey, action)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil
		}
		return err
	}

	now := time.Now().UTC()
	if record.IsBlocked(now) {
		return s.blockedError(action, *record.BlockedUntil, now)
	}

	record.Prune(now, limits.Window)
	if len(record.Attempts) >= limits.MaxAttempts {
		until := now.Add(limits.BlockDuration)
		return s.blockedError(action, until, now)
	}
	return nil
}

func (s *rateLimitService) RecordFailure(ctx context.Context, clientKey string, action types.RateLimitAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	limits := s.Config.RateLimit.ForAction(action)
	if limits.MaxAttempts <= 0 {
		return nil
	}

	operation := func() error {
		record, err := s.RateLimitRepo.Get(ctx, clientKey, action)
		if err != nil {
			if !ierr.IsNotFound(err) {
				return backoff.Permanent(err)
			}
			record = &ratelimit.Record{
				ClientKey:     clientKey,
				Action:        action,
				SchemaVersion: ratelimit.SchemaVersion,
			}
		}

		now := time.Now().UTC()
		record.Prune(now, limits.Window)
		record.Attempts = append(record.Attempts, now)
		if len(record.Attempts) >= limits.MaxAttempts {
			until := now.Add(limits.BlockDuration)
			record.BlockedUntil = &until
			s.Logger.Warnw("rate limit tripped",
				"action", action,
				"attempts", len(record.Attempts),
				"blocked_until", until,
			)
		}

		if err := s.RateLimitRepo.Save(ctx, record); err != nil {
			if ierr.IsVersionConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

func (s *rateLimitService) Clear(ctx context.Context, clientKey string, action types.RateLimitAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	return s.RateLimitRepo.Delete(ctx, clientKey, action)
}

func (s *rateLimitService) blockedError(action types.RateLimitAction, until, now time.Time) error {
	retryAfter := until.Sub(now).Round(time.Second)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return ierr.NewError("too many attempts").
		WithHint("Too many attempts, please try again later").
		WithReportableDetails(map[string]any{
			"action":              action,
			"retry_after_seconds": int(retryAfter.Seconds()),
		}).
		Mark(ierr.ErrTooManyRequests)
}
