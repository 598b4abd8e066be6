package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/application/handler"
	"github.com/TemirB/storefront-bot/internal/application/service"
	"github.com/TemirB/storefront-bot/internal/cache"
	"github.com/TemirB/storefront-bot/internal/config"
	"github.com/TemirB/storefront-bot/internal/database"
	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/httpapi"
	"github.com/TemirB/storefront-bot/internal/kafka"
	"github.com/TemirB/storefront-bot/internal/notify"
	"github.com/TemirB/storefront-bot/internal/observability"
	"github.com/TemirB/storefront-bot/internal/payment"
	"github.com/TemirB/storefront-bot/internal/pkg/breaker"
	"github.com/TemirB/storefront-bot/internal/pkg/pool"
)

type eventSink interface {
	service.Events
	Close() error
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Service stopped with error", zap.Error(err))
	}
	logger.Info("Service stopped")
}

// run starts the HTTP listener first so /healthz answers while the store,
// the bot and the event stream come up behind it.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := observability.NewPrometheus("storefront")
	workers := pool.New(cfg.DispatchWorkers)

	server := httpapi.New(nil, nil, workers, httpapi.Options{
		WebhookSecret: cfg.Payment.WebhookSecret,
		Metrics:       metrics.Handler(),
	}, logger, metrics)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		serveErr <- server.ListenAndServe(ctx, cfg.HTTPAddr)
		cancel()
	}()

	app, err := start(ctx, cfg, logger, metrics)
	if err != nil {
		cancel()
		if serr := <-serveErr; serr != nil {
			err = serr
		}
		workers.Close()
		workers.Wait()
		return err
	}

	server.Ready(app.updates, app.engine)
	if cfg.OrderTTL > 0 {
		go expireLoop(ctx, app.engine, cfg.OrderTTL, logger)
	}

	err = <-serveErr
	workers.Close()
	workers.Wait()
	app.close()
	return err
}

type storefront struct {
	engine  *service.Engine
	updates *handler.Handler
	close   func()
}

// start opens the store and wires the services. On error everything opened
// so far is released.
func start(ctx context.Context, cfg config.Config, logger *zap.Logger, metrics *observability.Prometheus) (_ *storefront, err error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			closeAll()
		}
	}()

	repo, err := database.Open(ctx, cfg.DSN, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, repo.Close)

	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	if err := repo.UpsertAdmin(ctx, domain.Admin{ID: cfg.Bot.AdminID, Name: cfg.Bot.AdminName}); err != nil {
		return nil, err
	}

	caches := cache.New(cache.Options{
		Size:         cfg.Cache.Cap,
		AdminTTL:     cfg.Cache.AdminTTL,
		ProductTTL:   cfg.Cache.ProductTTL,
		PromotionTTL: cfg.Cache.PromotionTTL,
		PurchasesTTL: cfg.Cache.PurchasesTTL,
	})
	caches.Warm(ctx, repo)

	payments := payment.NewRegistry()
	payments.Register("bank", payment.NewBankTransfer(cfg.Bot.Currency))
	payments.Register("crypto", payment.NewCrypto(payment.CryptoOptions{
		BaseURL:  cfg.Payment.CryptoAPIURL,
		APIKey:   cfg.Payment.CryptoAPIKey,
		Currency: cfg.Bot.Currency,
		Timeout:  cfg.Payment.PollTimeout,
		Breaker:  breaker.New(cfg.Breaker),
	}, logger))

	events := newEvents(ctx, cfg.Kafka, logger, metrics)
	closers = append(closers, func() {
		if err := events.Close(); err != nil {
			logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	})

	bot, err := notify.NewTelegram(cfg.Bot.Token, logger)
	if err != nil {
		return nil, err
	}

	deps := service.Deps{
		Repo:     repo,
		Caches:   caches,
		Payments: payments,
		Notifier: bot,
		Events:   events,
		App:      service.NewAppContext(),
		Retry:    cfg.Retry,
		Logger:   logger,
		Metrics:  metrics,
	}
	catalog := service.NewCatalog(deps)
	engine := service.NewEngine(deps, catalog, cfg.Promotion)

	updates := handler.NewHandler(catalog, engine, bot, handler.Options{
		Currency:    cfg.Bot.Currency,
		Promotion:   cfg.Promotion,
		PollTimeout: cfg.Payment.PollTimeout,
	}, logger)

	logger.Info("Storefront initialized")
	return &storefront{engine: engine, updates: updates, close: closeAll}, nil
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newEvents falls back to a no-op publisher when no brokers are configured.
func newEvents(ctx context.Context, cfg config.Kafka, logger *zap.Logger, metrics observability.Metrics) eventSink {
	if len(cfg.Brokers) == 0 {
		logger.Info("Kafka brokers not set, order events are disabled")
		return kafka.Noop{}
	}
	topicCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := kafka.EnsureTopic(topicCtx, cfg, 3, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Failed to ensure kafka topic", zap.String("topic", cfg.Topic), zap.Error(err))
	}
	return kafka.NewPublisher(cfg, logger, metrics)
}

// expireLoop abandons stale unpaid orders once per tick.
func expireLoop(ctx context.Context, engine *service.Engine, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := engine.ExpireStale(ctx, ttl); err != nil {
				logger.Warn("Order expiry sweep failed", zap.Error(err))
			}
		}
	}
}
