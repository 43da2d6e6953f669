package repository

import (
	"github.com/octavehouse/storefront/internal/domain/chapter"
	"github.com/octavehouse/storefront/internal/domain/event"
	"github.com/octavehouse/storefront/internal/domain/inventory"
	"github.com/octavehouse/storefront/internal/domain/order"
	"github.com/octavehouse/storefront/internal/domain/ratelimit"
	"github.com/octavehouse/storefront/internal/domain/waitlist"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
	kvRepo "github.com/octavehouse/storefront/internal/repository/kv"
)

func NewPaymentEventRepository(client kvstore.Client, logger *logger.Logger) event.Repository {
	return kvRepo.NewPaymentEventRepository(client, logger)
}

func NewOrderRepository(client kvstore.Client, logger *logger.Logger) order.Repository {
	return kvRepo.NewOrderRepository(client, logger)
}

func NewInventoryRepository(client kvstore.Client, logger *logger.Logger) inventory.Repository {
	return kvRepo.NewInventoryRepository(client, logger)
}

func NewChapterRepository(client kvstore.Client, logger *logger.Logger) chapter.Repository {
	return kvRepo.NewChapterRepository(client, logger)
}

func NewRateLimitRepository(client kvstore.Client, logger *logger.Logger) ratelimit.Repository {
	return kvRepo.NewRateLimitRepository(client, logger)
}

func NewWaitlistRepository(client kvstore.Client, logger *logger.Logger) waitlist.Repository {
	return kvRepo.NewWaitlistRepository(client, logger)
}
