package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/octavehouse/storefront/internal/audit"
	"github.com/octavehouse/storefront/internal/cache"
	"github.com/octavehouse/storefront/internal/config"
	"github.com/octavehouse/storefront/internal/domain/chapter"
	"github.com/octavehouse/storefront/internal/domain/event"
	"github.com/octavehouse/storefront/internal/domain/inventory"
	"github.com/octavehouse/storefront/internal/domain/order"
	"github.com/octavehouse/storefront/internal/domain/ratelimit"
	"github.com/octavehouse/storefront/internal/domain/waitlist"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/repository"
	"github.com/octavehouse/storefront/internal/types"
)

// Stores holds all the repository interfaces for testing. They are real
// repositories running over the in-memory kv client so conditional write
// behaviour matches production.
type Stores struct {
	EventRepo     event.Repository
	OrderRepo     order.Repository
	InventoryRepo inventory.Repository
	ChapterRepo   chapter.Repository
	RateLimitRepo ratelimit.Repository
	WaitlistRepo  waitlist.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	kvClient *InMemoryKVClient
	stores   Stores
	cache    cache.Cache
	audit    audit.Logger
	logger   *logger.Logger
	config   *config.Configuration
	now      time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.kvClient.Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
	s.ctx = types.SetClientIP(s.ctx, "127.0.0.1")
}

func (s *BaseServiceTestSuite) setupStores() {
	s.kvClient = NewInMemoryKVClient()
	s.cache = cache.Initialize(s.config, s.logger)
	s.audit = audit.NewLogger(s.kvClient, s.logger)
	s.stores = Stores{
		EventRepo:     repository.NewPaymentEventRepository(s.kvClient, s.logger),
		OrderRepo:     repository.NewOrderRepository(s.kvClient, s.logger),
		InventoryRepo: repository.NewInventoryRepository(s.kvClient, s.logger),
		ChapterRepo:   repository.NewChapterRepository(s.kvClient, s.logger),
		RateLimitRepo: repository.NewRateLimitRepository(s.kvClient, s.logger),
		WaitlistRepo:  repository.NewWaitlistRepository(s.kvClient, s.logger),
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetKVClient returns the in-memory kv client
func (s *BaseServiceTestSuite) GetKVClient() *InMemoryKVClient {
	return s.kvClient
}

// GetStores returns the test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetAudit returns the test audit logger
func (s *BaseServiceTestSuite) GetAudit() audit.Logger {
	return s.audit
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
