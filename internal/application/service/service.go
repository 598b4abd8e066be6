package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/cache"
	"github.com/TemirB/storefront-bot/internal/config"
	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/observability"
	"github.com/TemirB/storefront-bot/internal/payment"
	"github.com/TemirB/storefront-bot/internal/pkg/retry"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type Events interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
}

// Adapter mirrors payment.Adapter so tests can register mocks in a real
// payment.Registry.
type Adapter interface {
	Quote(ctx context.Context, method domain.PaymentMethod, order domain.Order) (payment.Quote, error)
	Poll(ctx context.Context, method domain.PaymentMethod, order domain.Order) (payment.Status, error)
}

type Deps struct {
	Repo     domain.Repository
	Caches   *cache.Caches
	Payments *payment.Registry
	Notifier Notifier
	Events   Events
	App      *AppContext
	Retry    config.Retry
	Logger   *zap.Logger
	Metrics  observability.Metrics
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = observability.NewNoop()
	}
	if d.App == nil {
		d.App = NewAppContext()
	}
	if d.Retry.Attempts < 1 {
		d.Retry.Attempts = 2
	}
	if d.Payments == nil {
		d.Payments = payment.NewRegistry()
	}
}

func isUnavailable(err error) bool {
	return errors.Is(err, domain.ErrBackendUnavailable)
}

// withRetry repeats fn on ErrBackendUnavailable; the next attempt checks
// out a fresh connection from the pool.
func withRetry(ctx context.Context, policy config.Retry, fn func() error) error {
	return retry.DoIf(ctx, policy, isUnavailable, fn)
}

// load runs a cached read and reports the lookup to metrics.
func load[K comparable, V any](ctx context.Context, c *cache.TTL[K, V], name string, key K, m observability.Metrics, fn func(context.Context) (V, error)) (V, error) {
	start := time.Now()
	v, hit, err := c.GetOrLoad(ctx, key, fn)
	if err == nil {
		m.ObserveLookup(name, hit, convertToMs(start))
	}
	return v, err
}
