package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/testutil"
	"github.com/octavehouse/storefront/internal/types"
)

type RateLimitServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RateLimitService
}

func TestRateLimitService(t *testing.T) {
	suite.Run(t, new(RateLimitServiceSuite))
}

func (s *RateLimitServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRateLimitService(s.params())
}

func (s *RateLimitServiceSuite) params() ServiceParams {
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

func (s *RateLimitServiceSuite) TestCheckPassesWithCleanHistory() {
	err := s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionLogin)
	s.NoError(err)
}

func (s *RateLimitServiceSuite) TestTripAfterMaxFailures() {
	// Login budget is 5 failures per window
	for i := 0; i < 5; i++ {
		s.NoError(s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
		s.NoError(s.service.RecordFailure(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
	}

	err := s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionLogin)
	s.Error(err)
	s.True(ierr.IsTooManyRequests(err))
}

func (s *RateLimitServiceSuite) TestLimitsAreScopedPerClient() {
	for i := 0; i < 5; i++ {
		s.NoError(s.service.RecordFailure(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
	}

	s.Error(s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
	s.NoError(s.service.Check(s.GetContext(), "bob@example.com", types.RateLimitActionLogin))
}

func (s *RateLimitServiceSuite) TestLimitsAreScopedPerAction() {
	for i := 0; i < 3; i++ {
		s.NoError(s.service.RecordFailure(s.GetContext(), "alice@example.com", types.RateLimitActionSignup))
	}

	s.Error(s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionSignup))
	s.NoError(s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
}

func (s *RateLimitServiceSuite) TestClearReleasesTheWindow() {
	for i := 0; i < 5; i++ {
		s.NoError(s.service.RecordFailure(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
	}
	s.Error(s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))

	s.NoError(s.service.Clear(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
	s.NoError(s.service.Check(s.GetContext(), "alice@example.com", types.RateLimitActionLogin))
}

func (s *RateLimitServiceSuite) TestClientKeyPrefersEmail() {
	s.Equal("alice@example.com", ClientKey(" Alice@Example.com ", "10.0.0.1"))
	s.Equal("10.0.0.1", ClientKey("", "10.0.0.1"))
}
