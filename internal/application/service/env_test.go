package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/cache"
	"github.com/TemirB/storefront-bot/internal/config"
	"github.com/TemirB/storefront-bot/internal/database"
	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/observability"
	"github.com/TemirB/storefront-bot/internal/payment"
)

const (
	adminID int64 = 1
	buyerID int64 = 500
	otherID int64 = 501
)

type testEnv struct {
	repo    *database.SQLite
	caches  *cache.Caches
	reg     *payment.Registry
	app     *AppContext
	metrics *observability.Inmem
	catalog *Catalog
	engine  *Engine
	product domain.Product
}

// newEnv builds the services over a fresh SQLite file seeded with one admin,
// three categories, an active bank method and a single-unit product in
// "Software" (category #3) priced 10.
func newEnv(t *testing.T, notifier Notifier, events Events) *testEnv {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "store.db")
	repo, err := database.OpenSQLite(ctx, path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(OFF)")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(ctx))
	t.Cleanup(repo.Close)

	require.NoError(t, repo.UpsertAdmin(ctx, domain.Admin{ID: adminID, Name: "owner"}))

	env := &testEnv{
		repo: repo,
		caches: cache.New(cache.Options{
			Size:         100,
			AdminTTL:     time.Minute,
			ProductTTL:   time.Minute,
			PromotionTTL: time.Minute,
			PurchasesTTL: time.Minute,
		}),
		reg:     payment.NewRegistry(),
		app:     NewAppContext(),
		metrics: observability.NewInmem(1000),
	}
	env.reg.Register("bank", payment.NewBankTransfer("USD"))

	deps := Deps{
		Repo:     repo,
		Caches:   env.caches,
		Payments: env.reg,
		Notifier: notifier,
		Events:   events,
		App:      env.app,
		Retry:    config.Retry{Attempts: 2, Base: time.Millisecond},
		Logger:   zap.NewNop(),
		Metrics:  env.metrics,
	}
	env.catalog = NewCatalog(deps)
	env.engine = NewEngine(deps, env.catalog, "bonus")

	for _, name := range []string{"Games", "Music", "Software"} {
		_, err := env.catalog.CreateCategory(ctx, adminID, name)
		require.NoError(t, err)
	}
	require.NoError(t, env.catalog.CreatePaymentMethod(ctx, adminID, "bank"))
	require.NoError(t, env.catalog.SetPaymentCredentials(ctx, adminID, "bank", "IBAN DE00 1234", ""))
	require.NoError(t, env.catalog.SetPaymentActive(ctx, adminID, "bank", true))

	p := domain.Product{
		Name:        "Editor Pro",
		Description: "licence",
		Price:       decimal.NewFromInt(10),
		Quantity:    1,
		Category:    "Software",
	}
	p.Number, err = env.catalog.CreateProduct(ctx, adminID, p)
	require.NoError(t, err)
	p.AdminID = adminID
	env.product = p
	return env
}

func (env *testEnv) setQuantity(t *testing.T, q int) {
	t.Helper()
	require.NoError(t, env.catalog.SetProductField(context.Background(), adminID, env.product.Number, domain.FieldQuantity, q))
}

func (env *testEnv) addKeys(t *testing.T, keys ...string) {
	t.Helper()
	_, err := env.catalog.AddKeys(context.Background(), adminID, env.product.Number, keys)
	require.NoError(t, err)
}

func (env *testEnv) awaiting(t *testing.T, buyer int64, method string) *domain.Order {
	t.Helper()
	ctx := context.Background()
	o, err := env.engine.CreateOrder(ctx, domain.User{ID: buyer, Name: "buyer"}, env.product.Number)
	require.NoError(t, err)
	q, err := env.engine.SelectPayment(ctx, buyer, o.Number, method)
	require.NoError(t, err)
	o.PaymentRef = q.Reference
	o.PaymentPath = method
	o.Status = domain.StatusAwaitingPayment
	return o
}

// flakyRepo fails the first n product reads with a backend error.
type flakyRepo struct {
	domain.Repository
	failures int
	calls    int
}

func (f *flakyRepo) GetProduct(ctx context.Context, number int64) (*domain.Product, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("get product: %w: connection reset by peer", domain.ErrBackendUnavailable)
	}
	return f.Repository.GetProduct(ctx, number)
}
