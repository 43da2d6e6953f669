package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/octavehouse/storefront/internal/api"
	v1 "github.com/octavehouse/storefront/internal/api/v1"
	"github.com/octavehouse/storefront/internal/audit"
	"github.com/octavehouse/storefront/internal/cache"
	"github.com/octavehouse/storefront/internal/config"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/integration/stripe"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/notification"
	"github.com/octavehouse/storefront/internal/repository"
	"github.com/octavehouse/storefront/internal/service"
)

// @title Storefront API
// @version 1.0
// @description Commerce state core for the storefront
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Owner bearer token

func init() {
	// UTC everywhere; ledger timestamps must not depend on host timezone
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// KV store
			provideKVClient,

			// Audit and outbound collaborators
			audit.NewLogger,
			notification.NewNotifier,
			stripe.NewClient,

			// Repositories
			repository.NewPaymentEventRepository,
			repository.NewOrderRepository,
			repository.NewInventoryRepository,
			repository.NewChapterRepository,
			repository.NewRateLimitRepository,
			repository.NewWaitlistRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewInventoryService,
			service.NewChapterService,
			service.NewRateLimitService,
			service.NewCheckoutService,
			service.NewIngestionService,
			service.NewOrderService,
			service.NewWaitlistService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideKVClient(cfg *config.Configuration, log *logger.Logger) (kvstore.Client, error) {
	client, err := kvstore.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ierr.NewError("kv store is not configured").
			WithHint("DynamoDB configuration is required to run the server").
			Mark(ierr.ErrSystem)
	}
	return client, nil
}

func provideHandlers(
	logger *logger.Logger,
	ingestionService service.IngestionService,
	inventoryService service.InventoryService,
	chapterService service.ChapterService,
	checkoutService service.CheckoutService,
	orderService service.OrderService,
	waitlistService service.WaitlistService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(logger),
		Webhook:   v1.NewWebhookHandler(ingestionService, logger),
		Inventory: v1.NewInventoryHandler(inventoryService, logger),
		Chapter:   v1.NewChapterHandler(chapterService, logger),
		Checkout:  v1.NewCheckoutHandler(checkoutService, logger),
		Order:     v1.NewOrderHandler(orderService, logger),
		Waitlist:  v1.NewWaitlistHandler(waitlistService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, auditLog audit.Logger, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, auditLog, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
