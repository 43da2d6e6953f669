package service

import (
	"context"
	"strings"
	"time"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/domain/waitlist"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// WaitlistService manages chapter waitlist signups. Joining is idempotent per
// (chapter, email) and throttled per client.
type WaitlistService interface {
	Join(ctx context.Context, req *dto.JoinWaitlistRequest) (*dto.JoinWaitlistResponse, error)
}

type waitlistService struct {
	ServiceParams
	chapterService   ChapterService
	rateLimitService RateLimitService
}

func NewWaitlistService(params ServiceParams) WaitlistService {
	return &waitlistService{
		ServiceParams:    params,
		chapterService:   NewChapterService(params),
		rateLimitService: NewRateLimitService(params),
	}
}

func (s *waitlistService) Join(ctx context.Context, req *dto.JoinWaitlistRequest) (*dto.JoinWaitlistResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	clientKey := ClientKey(email, types.GetClientIP(ctx))

	if err := s.rateLimitService.Check(ctx, clientKey, types.RateLimitActionWaitlistJoin); err != nil {
		return nil, err
	}
	// Every join attempt counts against the window, successful or not
	if err := s.rateLimitService.RecordFailure(ctx, clientKey, types.RateLimitActionWaitlistJoin); err != nil {
		s.Logger.Errorw("failed to record waitlist join attempt", "error", err, "client_key", clientKey)
	}

	active, err := s.chapterService.ActiveChapter(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("no chapter is accepting signups").
				WithHint("No collection is open for waitlist signups").
				Mark(ierr.ErrConflict)
		}
		return nil, err
	}
	if active.ID != req.ChapterID {
		return nil, ierr.NewError("chapter is not accepting signups").
			WithHint("Only the current collection accepts waitlist signups").
			WithReportableDetails(map[string]any{
				"chapter_id": req.ChapterID,
				"active":     active.ID,
			}).
			Mark(ierr.ErrConflict)
	}
	if active.Mode != types.ChapterModeWaitlist {
		return nil, ierr.NewError("waitlist is closed").
			WithHint("The current collection is past its waitlist phase").
			WithReportableDetails(map[string]any{"mode": active.Mode}).
			Mark(ierr.ErrConflict)
	}

	entry := &waitlist.Entry{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WAITLIST_ENTRY),
		ChapterID:     req.ChapterID,
		Email:         email,
		JoinedAt:      time.Now().UTC(),
		SchemaVersion: waitlist.SchemaVersion,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.WaitlistRepo.Create(ctx, entry); err != nil {
		if ierr.IsVersionConflict(err) {
			existing, getErr := s.WaitlistRepo.Get(ctx, req.ChapterID, email)
			if getErr != nil {
				return nil, getErr
			}
			return &dto.JoinWaitlistResponse{
				ChapterID:     existing.ChapterID,
				Email:         existing.Email,
				AlreadyJoined: true,
				JoinedAt:      existing.JoinedAt,
			}, nil
		}
		return nil, err
	}

	s.Logger.Infow("waitlist signup", "chapter_id", req.ChapterID)
	return &dto.JoinWaitlistResponse{
		ChapterID: entry.ChapterID,
		Email:     entry.Email,
		JoinedAt:  entry.JoinedAt,
	}, nil
}
