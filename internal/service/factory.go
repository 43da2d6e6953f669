package service

import (
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
	"github.com/octavehouse/storefront/internal/notification"
)

// NewServiceParams builds the common dependency bundle shared by services
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cacheClient cache.Cache,
	auditLogger audit.Logger,
	notifier notification.Notifier,
	eventRepo event.Repository,
	orderRepo order.Repository,
	inventoryRepo inventory.Repository,
	chapterRepo chapter.Repository,
	rateLimitRepo ratelimit.Repository,
	waitlistRepo waitlist.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		Cache:         cacheClient,
		Audit:         auditLogger,
		Notifier:      notifier,
		EventRepo:     eventRepo,
		OrderRepo:     orderRepo,
		InventoryRepo: inventoryRepo,
		ChapterRepo:   chapterRepo,
		RateLimitRepo: rateLimitRepo,
		WaitlistRepo:  waitlistRepo,
	}
}

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	Audit    audit.Logger
	Notifier notification.Notifier

	// Repositories
	EventRepo     event.Repository
	OrderRepo     order.Repository
	InventoryRepo inventory.Repository
	ChapterRepo   chapter.Repository
	RateLimitRepo ratelimit.Repository
	WaitlistRepo  waitlist.Repository
}
