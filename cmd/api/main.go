package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/store-admin/internal/api/http"
	"github.com/spec-kit/store-admin/internal/api/http/handlers"
	"github.com/spec-kit/store-admin/internal/auth"
	"github.com/spec-kit/store-admin/internal/config"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/events"
	"github.com/spec-kit/store-admin/internal/observability"
	"github.com/spec-kit/store-admin/internal/paykeeper"
	"github.com/spec-kit/store-admin/internal/persistence"
	"github.com/spec-kit/store-admin/internal/repository"
	"github.com/spec-kit/store-admin/internal/service"
	"github.com/spec-kit/store-admin/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to configure redis", zap.Error(err))
	}
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	adminRepo := repository.NewAdminRepository(pool)
	storeRepo := repository.NewStoreRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	giftCodeRepo := repository.NewGiftCodeRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)

	// Live order streams: in memory mode the dispatcher feeds the hub directly,
	// in redis mode every instance relays the shared stream into its own hub.
	hub := events.NewHub(cfg.Events.BufferSize, logger.Named("order-stream"))
	metrics.TrackSubscribers(hub.Count)

	var (
		publisher events.OrderPublisher = hub
		relayDone <-chan struct{}
	)
	if cfg.Events.Broker == "redis" {
		brokerPub, err := events.NewRedisStreamPublisher(redis.Client, cfg.Events.Topic, int64(cfg.Events.StreamMaxLen), logger)
		if err != nil {
			logger.Fatal("failed to init order event publisher", zap.Error(err))
		}
		defer brokerPub.Close() //nolint:errcheck

		relay, err := events.NewRedisStreamRelay(redis.Client, cfg.Events.Topic, hub, logger)
		if err != nil {
			logger.Fatal("failed to init order event relay", zap.Error(err))
		}
		defer relay.Close() //nolint:errcheck

		publisher = brokerPub
		relayDone = worker.StartRelay(ctx, relay, logger)
		logger.Info("order events relayed through redis streams", zap.String("topic", cfg.Events.Topic))
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, logger))

	authService := service.NewAuthService(cfg.Auth, adminRepo, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	storeService := service.NewStoreService(storeRepo)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		BillboardRepo: repository.NewBillboardRepository(pool),
		CategoryRepo:  categoryRepo,
		SizeRepo:      repository.NewAttributeRepository(pool, domain.AttributeSize),
		ColorRepo:     repository.NewAttributeRepository(pool, domain.AttributeColor),
		ReviewRepo:    repository.NewReviewRepository(pool),
	})
	productService := service.NewProductService(productRepo, categoryRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, dispatcher)
	customerService := service.NewCustomerService(customerRepo)
	giftCodeService := service.NewGiftCodeService(giftCodeRepo, cfg.GiftCodes, metrics, logger)
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		OrderRepo:  orderRepo,
		Gateway:    paykeeper.NewClient(cfg.PayKeeper.BaseURL, cfg.PayKeeper.User, cfg.PayKeeper.Password, cfg.PayKeeper.Timeout()),
		GiftCodes:  giftCodeService,
		Dispatcher: dispatcher,
		Secret:     cfg.PayKeeper.Secret,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	cookies := auth.CookieConfig{
		Domain:   cfg.Auth.CookieDomain,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: cfg.Auth.CookieSameSite,
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, hub.Count,
			handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping},
			handlers.DependencyCheck{Name: "redis", Ping: redis.Ping},
		),
		Admin:          handlers.NewAdminHandler(authService, cookies),
		Stores:         handlers.NewStoreHandler(storeService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Products:       handlers.NewProductHandler(productService),
		Orders:         handlers.NewOrderHandler(orderService, hub, cfg.Events.Heartbeat(), logger),
		Customers:      handlers.NewCustomerHandler(customerService),
		GiftCodes:      handlers.NewGiftCodeHandler(giftCodeService),
		PayKeeper:      handlers.NewPayKeeperHandler(paymentService),
		AuthMiddleware: authMiddleware,
		StoreRepo:      storeRepo,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	// Open streams never finish on their own; end them before draining connections.
	hub.Close()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	if relayDone != nil {
		select {
		case <-relayDone:
		case <-time.After(shutdownTimeout):
			logger.Warn("order event relay did not stop in time")
		}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
