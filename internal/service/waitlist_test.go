package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/octavehouse/storefront/internal/api/dto"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/testutil"
	"github.com/octavehouse/storefront/internal/types"
)

type WaitlistServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        WaitlistService
	chapterService ChapterService
}

func TestWaitlistService(t *testing.T) {
	suite.Run(t, new(WaitlistServiceSuite))
}

func (s *WaitlistServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := s.params()
	s.service = NewWaitlistService(params)
	s.chapterService = NewChapterService(params)
}

func (s *WaitlistServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Cache:         s.GetCache(),
		Audit:         s.GetAudit(),
		Notifier:      testutil.NewRecordingNotifier(),
		EventRepo:     stores.EventRepo,
		OrderRepo:     stores.OrderRepo,
		InventoryRepo: stores.InventoryRepo,
		ChapterRepo:   stores.ChapterRepo,
		RateLimitRepo: stores.RateLimitRepo,
		WaitlistRepo:  stores.WaitlistRepo,
	}
}

func (s *WaitlistServiceSuite) createChapter(chapterID string) {
	_, err := s.chapterService.UpdateChapter(s.GetContext(), &dto.UpdateChapterRequest{
		ChapterID: chapterID,
		Created:   lo.ToPtr(true),
	})
	s.NoError(err)
}

func (s *WaitlistServiceSuite) TestJoinActiveWaitlist() {
	s.createChapter("chapter-1")

	resp, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "Alice@Example.com",
	})
	s.NoError(err)
	s.False(resp.AlreadyJoined)
	s.Equal("alice@example.com", resp.Email)

	entry, err := s.GetStores().WaitlistRepo.Get(s.GetContext(), "chapter-1", "alice@example.com")
	s.NoError(err)
	s.Equal("chapter-1", entry.ChapterID)
}

func (s *WaitlistServiceSuite) TestJoinIsIdempotent() {
	s.createChapter("chapter-1")

	first, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "alice@example.com",
	})
	s.NoError(err)

	second, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "ALICE@example.com",
	})
	s.NoError(err)
	s.True(second.AlreadyJoined)
	s.Equal(first.JoinedAt, second.JoinedAt)

	entries, err := s.GetStores().WaitlistRepo.ListByChapter(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Len(entries, 1)
}

func (s *WaitlistServiceSuite) TestJoinRejectsWithoutActiveChapter() {
	_, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "alice@example.com",
	})
	s.Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *WaitlistServiceSuite) TestJoinRejectsInactiveChapter() {
	s.createChapter("chapter-2")

	_, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "alice@example.com",
	})
	s.Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *WaitlistServiceSuite) TestJoinRejectsPastWaitlistPhase() {
	s.createChapter("chapter-1")
	_, err := s.chapterService.UpdateChapter(s.GetContext(), &dto.UpdateChapterRequest{
		ChapterID: "chapter-1",
		Mode:      lo.ToPtr(types.ChapterModeEarlyAccess),
	})
	s.NoError(err)

	_, err = s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "alice@example.com",
	})
	s.Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *WaitlistServiceSuite) TestJoinIsThrottled() {
	s.createChapter("chapter-1")

	// Budget is 3 join attempts per window per client
	for i := 0; i < 3; i++ {
		_, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
			ChapterID: "chapter-1",
			Email:     "alice@example.com",
		})
		s.NoError(err)
	}

	_, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "alice@example.com",
	})
	s.Error(err)
	s.True(ierr.IsTooManyRequests(err))
}

func (s *WaitlistServiceSuite) TestJoinValidation() {
	_, err := s.service.Join(s.GetContext(), &dto.JoinWaitlistRequest{
		ChapterID: "chapter-1",
		Email:     "not-an-email",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
