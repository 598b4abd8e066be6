package cache

import (
	"context"
	"time"

	"github.com/TemirB/storefront-bot/internal/domain"
)

//go:generate mockgen -source internal/cache/cache.go -destination=internal/cache/cache_mock_test.go -package=cache

type repo interface {
	ListAdminIDs(ctx context.Context) ([]int64, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

// AdminSetKey is the single key of the admin identity cache.
const AdminSetKey = "admins"

type Options struct {
	Size         int
	AdminTTL     time.Duration
	ProductTTL   time.Duration
	PromotionTTL time.Duration
	PurchasesTTL time.Duration
}

// Caches holds one shadow copy per concern; each has its own lock.
type Caches struct {
	Admins     *TTL[string, map[int64]struct{}]
	Products   *TTL[string, []domain.Product]
	Promotions *TTL[string, domain.Promotion]
	Purchases  *TTL[int64, []domain.Order]
}

func New(opts Options) *Caches {
	return &Caches{
		Admins:     NewTTL[string, map[int64]struct{}](1, opts.AdminTTL),
		Products:   NewTTL[string, []domain.Product](opts.Size, opts.ProductTTL),
		Promotions: NewTTL[string, domain.Promotion](opts.Size, opts.PromotionTTL),
		Purchases:  NewTTL[int64, []domain.Order](opts.Size, opts.PurchasesTTL),
	}
}

func AdminSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Warm preloads the admin set and every category listing. Failures are
// skipped; the entry is loaded on first read instead.
func (c *Caches) Warm(ctx context.Context, repo repo) {
	if ids, err := repo.ListAdminIDs(ctx); err == nil {
		c.Admins.Set(AdminSetKey, AdminSet(ids))
	}
	cats, err := repo.ListCategories(ctx)
	if err != nil {
		return
	}
	for _, cat := range cats {
		if products, err := repo.ListProductsByCategory(ctx, cat.Name); err == nil {
			c.Products.Set(cat.Name, products)
		}
	}
}
