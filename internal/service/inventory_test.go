package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/catalog"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/testutil"
	"github.com/octavehouse/storefront/internal/types"
)

type InventoryServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InventoryService
}

func TestInventoryService(t *testing.T) {
	suite.Run(t, new(InventoryServiceSuite))
}

func (s *InventoryServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInventoryService(s.params())
}

func (s *InventoryServiceSuite) params() ServiceParams {
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

func (s *InventoryServiceSuite) TestInitializeChapterSeedsDefaults() {
	inv, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.True(inv.Initialized)
	s.Len(inv.Counts, catalog.ModelsPerChapter)

	// Every model in chapter-1 starts with the default distribution
	for _, modelID := range []int{1, 2, 3, 4, 5} {
		s.Equal(10, inv.Stock(modelID, types.SizeXS))
		s.Equal(20, inv.Stock(modelID, types.SizeS))
		s.Equal(50, inv.Stock(modelID, types.SizeM))
		s.Equal(30, inv.Stock(modelID, types.SizeL))
		s.Equal(15, inv.Stock(modelID, types.SizeXL))
	}
}

func (s *InventoryServiceSuite) TestInitializeChapterIsIdempotent() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	// Sell something, then re-initialize; counts must survive
	err = s.service.Decrement(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeM, Quantity: 2},
	})
	s.NoError(err)

	inv, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Equal(48, inv.Stock(1, types.SizeM))
}

func (s *InventoryServiceSuite) TestInitializeChapterRejectsUnknownChapter() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-11")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InventoryServiceSuite) TestDecrementSequentialPurchases() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	// Two purchases of one M each land at 48, never 49
	for i := 0; i < 2; i++ {
		err = s.service.Decrement(s.GetContext(), []dto.StockLine{
			{ModelID: 1, Size: types.SizeM, Quantity: 1},
		})
		s.NoError(err)
	}

	inv, err := s.GetStores().InventoryRepo.Get(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Equal(48, inv.Stock(1, types.SizeM))
}

func (s *InventoryServiceSuite) TestDecrementConcurrentPurchases() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.service.Decrement(s.GetContext(), []dto.StockLine{
				{ModelID: 1, Size: types.SizeM, Quantity: 1},
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	inv, err := s.GetStores().InventoryRepo.Get(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Equal(40, inv.Stock(1, types.SizeM))
}

func (s *InventoryServiceSuite) TestDecrementLastUnitRace() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	// Drain S down to a single unit
	err = s.service.Decrement(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeS, Quantity: 19},
	})
	s.NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.service.Decrement(s.GetContext(), []dto.StockLine{
				{ModelID: 1, Size: types.SizeS, Quantity: 1},
			})
		}(i)
	}
	wg.Wait()

	// Exactly one buyer gets the last unit
	failures := 0
	for _, err := range errs {
		if err != nil {
			s.True(ierr.IsConflict(err))
			failures++
		}
	}
	s.Equal(1, failures)

	inv, err := s.GetStores().InventoryRepo.Get(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Equal(0, inv.Stock(1, types.SizeS))
}

func (s *InventoryServiceSuite) TestDecrementAllOrNothing() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	// Second line exceeds stock; the first line must not be applied either
	err = s.service.Decrement(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeM, Quantity: 1},
		{ModelID: 2, Size: types.SizeXL, Quantity: 100},
	})
	s.Error(err)
	s.True(ierr.IsConflict(err))

	inv, err := s.GetStores().InventoryRepo.Get(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Equal(50, inv.Stock(1, types.SizeM))
	s.Equal(15, inv.Stock(2, types.SizeXL))
}

func (s *InventoryServiceSuite) TestDecrementReportsEveryShortfall() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	err = s.service.Decrement(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeXS, Quantity: 11},
		{ModelID: 1, Size: types.SizeXL, Quantity: 16},
	})
	s.Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *InventoryServiceSuite) TestDecrementUnroutableModel() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	err = s.service.Decrement(s.GetContext(), []dto.StockLine{
		{ModelID: 999, Size: types.SizeM, Quantity: 1},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InventoryServiceSuite) TestDecrementUninitializedChapter() {
	err := s.service.Decrement(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeM, Quantity: 1},
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InventoryServiceSuite) TestDecrementMergesDuplicateLines() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	err = s.service.Decrement(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeM, Quantity: 2},
		{ModelID: 1, Size: types.SizeM, Quantity: 3},
	})
	s.NoError(err)

	inv, err := s.GetStores().InventoryRepo.Get(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Equal(45, inv.Stock(1, types.SizeM))
}

func (s *InventoryServiceSuite) TestGetStockGranularity() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	// Chapter level
	resp, err := s.service.GetStock(s.GetContext(), &dto.GetStockRequest{ChapterID: "chapter-1"})
	s.NoError(err)
	s.True(resp.Initialized)
	s.Len(resp.Counts, catalog.ModelsPerChapter)

	// Model level
	modelID := 3
	resp, err = s.service.GetStock(s.GetContext(), &dto.GetStockRequest{ChapterID: "chapter-1", ModelID: &modelID})
	s.NoError(err)
	s.Equal(50, resp.ModelCounts[types.SizeM])

	// Size level
	size := types.SizeS
	resp, err = s.service.GetStock(s.GetContext(), &dto.GetStockRequest{ChapterID: "chapter-1", ModelID: &modelID, Size: &size})
	s.NoError(err)
	s.NotNil(resp.Count)
	s.Equal(20, *resp.Count)
}

func (s *InventoryServiceSuite) TestGetStockUninitializedChapter() {
	resp, err := s.service.GetStock(s.GetContext(), &dto.GetStockRequest{ChapterID: "chapter-2"})
	s.NoError(err)
	s.False(resp.Initialized)
	s.Nil(resp.Counts)
}

func (s *InventoryServiceSuite) TestCheckAvailabilityDoesNotReserve() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	shortfalls, err := s.service.CheckAvailability(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeM, Quantity: 50},
	})
	s.NoError(err)
	s.Empty(shortfalls)

	// Nothing was taken
	inv, err := s.GetStores().InventoryRepo.Get(s.GetContext(), "chapter-1")
	s.NoError(err)
	s.Equal(50, inv.Stock(1, types.SizeM))
}

func (s *InventoryServiceSuite) TestCheckAvailabilityReportsShortfalls() {
	_, err := s.service.InitializeChapter(s.GetContext(), "chapter-1")
	s.NoError(err)

	shortfalls, err := s.service.CheckAvailability(s.GetContext(), []dto.StockLine{
		{ModelID: 1, Size: types.SizeM, Quantity: 51},
		{ModelID: 2, Size: types.SizeS, Quantity: 5},
	})
	s.NoError(err)
	s.Len(shortfalls, 1)
	s.Equal(1, shortfalls[0].ModelID)
	s.Equal(50, shortfalls[0].Available)
	s.Equal(51, shortfalls[0].Requested)
}
