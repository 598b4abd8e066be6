package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/cache"
	"github.com/TemirB/storefront-bot/internal/config"
	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/observability"
)

// Catalog covers users, admins, products, categories, payment methods and
// the promotion. Every mutation evicts the cache keys it affects.
type Catalog struct {
	repo    domain.Repository
	caches  *cache.Caches
	app     *AppContext
	retry   config.Retry
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewCatalog(d Deps) *Catalog {
	d.defaults()
	return &Catalog{
		repo:    d.Repo,
		caches:  d.Caches,
		app:     d.App,
		retry:   d.Retry,
		logger:  d.Logger,
		metrics: d.Metrics,
	}
}

func (c *Catalog) App() *AppContext { return c.app }

// EnsureUser records a chat user on first contact. An existing row is kept.
func (c *Catalog) EnsureUser(ctx context.Context, u domain.User) error {
	err := withRetry(ctx, c.retry, func() error { return c.repo.UpsertUser(ctx, u) })
	if err != nil {
		c.logger.Error("Failed to upsert user", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	return err
}

func (c *Catalog) IsAdmin(ctx context.Context, id int64) (bool, error) {
	set, err := load(ctx, c.caches.Admins, cacheAdmins, cache.AdminSetKey, c.metrics,
		func(ctx context.Context) (map[int64]struct{}, error) {
			var ids []int64
			err := withRetry(ctx, c.retry, func() error {
				var err error
				ids, err = c.repo.ListAdminIDs(ctx)
				return err
			})
			return cache.AdminSet(ids), err
		})
	if err != nil {
		c.logger.Error("Failed to load admin set", zap.Error(err))
		return false, err
	}
	_, ok := set[id]
	return ok, nil
}

func (c *Catalog) requireAdmin(ctx context.Context, actor int64) error {
	ok, err := c.IsAdmin(ctx, actor)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", actor, domain.ErrForbidden)
	}
	return nil
}

// PromoteAdmin copies an existing user into the admin table.
func (c *Catalog) PromoteAdmin(ctx context.Context, actor, userID int64) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	u, err := c.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := c.repo.UpsertAdmin(ctx, domain.Admin{ID: u.ID, Name: u.Name, Wallet: u.Wallet}); err != nil {
		return err
	}
	c.caches.Admins.Invalidate(cache.AdminSetKey)
	c.logger.Info("User promoted to admin", zap.Int64("user_id", userID), zap.Int64("by", actor))
	return nil
}

func (c *Catalog) CreditWallet(ctx context.Context, actor, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return decimal.Zero, err
	}
	bal, err := c.repo.CreditUserWallet(ctx, userID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	c.logger.Info("Wallet credited",
		zap.Int64("user_id", userID),
		zap.String("amount", amount.String()),
		zap.String("balance", bal.String()),
	)
	return bal, nil
}

func (c *Catalog) CreateProduct(ctx context.Context, actor int64, p domain.Product) (int64, error) {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return 0, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Price.IsNegative() || p.Quantity < 0 {
		return 0, fmt.Errorf("%w: product needs a name, a price >= 0 and a quantity >= 0", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = domain.DefaultCategory
	}
	p.AdminID = actor
	n, err := c.repo.CreateProduct(ctx, p)
	if err != nil {
		return 0, err
	}
	c.caches.Products.Invalidate(p.Category)
	c.logger.Info("Product created", zap.Int64("product_number", n), zap.String("category", p.Category))
	return n, nil
}

// SetProductField edits one column. Changing the category evicts both the
// old and the new listing.
func (c *Catalog) SetProductField(ctx context.Context, actor, number int64, field domain.ProductField, value any) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if !field.Valid() {
		return fmt.Errorf("%w: field %q", domain.ErrInvalidInput, field)
	}
	p, err := c.Product(ctx, number)
	if err != nil {
		return err
	}
	if err := c.repo.UpdateProductField(ctx, number, field, value); err != nil {
		return err
	}
	keys := []string{p.Category}
	if field == domain.FieldCategory {
		next, _ := value.(string)
		if strings.TrimSpace(next) == "" {
			next = domain.DefaultCategory
		}
		keys = append(keys, next)
	}
	c.caches.Products.Invalidate(keys...)
	return nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, actor, number int64) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	p, err := c.Product(ctx, number)
	if err != nil {
		return err
	}
	if err := c.repo.DeleteProduct(ctx, number); err != nil {
		return err
	}
	c.caches.Products.Invalidate(p.Category)
	c.logger.Info("Product deleted", zap.Int64("product_number", number))
	return nil
}

// AddKeys appends licence keys to the product's ledger.
func (c *Catalog) AddKeys(ctx context.Context, actor, number int64, keys []string) (int, error) {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return 0, err
	}
	n, err := c.repo.AddProductKeys(ctx, number, keys)
	if err != nil {
		return 0, err
	}
	c.logger.Info("Keys added", zap.Int64("product_number", number), zap.Int("count", n))
	return n, nil
}

func (c *Catalog) AvailableKeys(ctx context.Context, number int64) (int, error) {
	return c.repo.CountAvailableKeys(ctx, number)
}

func (c *Catalog) Product(ctx context.Context, number int64) (*domain.Product, error) {
	var p *domain.Product
	err := withRetry(ctx, c.retry, func() error {
		var err error
		p, err = c.repo.GetProduct(ctx, number)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("product %d: %w", number, domain.ErrProductNotFound)
	}
	return p, err
}

func (c *Catalog) ProductsInCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := load(ctx, c.caches.Products, cacheProducts, category, c.metrics,
		func(ctx context.Context) ([]domain.Product, error) {
			var out []domain.Product
			err := withRetry(ctx, c.retry, func() error {
				var err error
				out, err = c.repo.ListProductsByCategory(ctx, category)
				return err
			})
			return out, err
		})
	if err != nil {
		c.logger.Error("Failed to list products", zap.String("category", category), zap.Error(err))
	}
	return products, err
}

func (c *Catalog) ProductsInCategoryNumber(ctx context.Context, number int64) ([]domain.Product, error) {
	cat, err := c.repo.GetCategory(ctx, number)
	if err != nil {
		return nil, err
	}
	return c.ProductsInCategory(ctx, cat.Name)
}

func (c *Catalog) CreateCategory(ctx context.Context, actor int64, name string) (int64, error) {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: empty category name", domain.ErrInvalidInput)
	}
	n, err := c.repo.CreateCategory(ctx, name)
	if err != nil {
		return 0, err
	}
	c.caches.Products.Invalidate(name)
	return n, nil
}

// RenameCategory renames the category and re-labels its products.
func (c *Catalog) RenameCategory(ctx context.Context, actor, number int64, name string) (int, error) {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: empty category name", domain.ErrInvalidInput)
	}
	old, err := c.repo.GetCategory(ctx, number)
	if err != nil {
		return 0, err
	}
	n, err := c.repo.RenameCategory(ctx, number, name)
	if err != nil {
		return 0, err
	}
	c.caches.Products.Invalidate(old.Name, name)
	c.logger.Info("Category renamed",
		zap.Int64("category_number", number),
		zap.String("from", old.Name),
		zap.String("to", name),
		zap.Int("products", n),
	)
	return n, nil
}

// DeleteCategory removes the category row only. Its products keep the old
// category name and stay reachable by number.
func (c *Catalog) DeleteCategory(ctx context.Context, actor, number int64) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	cat, err := c.repo.GetCategory(ctx, number)
	if err != nil {
		return err
	}
	if err := c.repo.DeleteCategory(ctx, number); err != nil {
		return err
	}
	c.caches.Products.Invalidate(cat.Name)
	c.logger.Info("Category deleted", zap.Int64("category_number", number), zap.String("name", cat.Name))
	return nil
}

func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := withRetry(ctx, c.retry, func() error {
		var err error
		out, err = c.repo.ListCategories(ctx)
		return err
	})
	return out, err
}

func (c *Catalog) CreatePaymentMethod(ctx context.Context, actor int64, name string) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty method name", domain.ErrInvalidInput)
	}
	return c.repo.CreatePaymentMethod(ctx, name, actor)
}

// SetPaymentCredentials stores the method's token (account details or API
// key) and secret.
func (c *Catalog) SetPaymentCredentials(ctx context.Context, actor int64, name, token, secret string) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	m, err := c.repo.GetPaymentMethod(ctx, name)
	if err != nil {
		return err
	}
	m.Token = token
	m.Secret = secret
	return c.repo.UpdatePaymentMethod(ctx, *m)
}

func (c *Catalog) SetPaymentActive(ctx context.Context, actor int64, name string, active bool) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	m, err := c.repo.GetPaymentMethod(ctx, name)
	if err != nil {
		return err
	}
	m.Activated = active
	return c.repo.UpdatePaymentMethod(ctx, *m)
}

func (c *Catalog) DeletePaymentMethod(ctx context.Context, actor int64, name string) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	return c.repo.DeletePaymentMethod(ctx, name)
}

func (c *Catalog) PaymentMethods(ctx context.Context, onlyActive bool) ([]domain.PaymentMethod, error) {
	methods, err := c.repo.ListPaymentMethods(ctx)
	if err != nil || !onlyActive {
		return methods, err
	}
	active := methods[:0]
	for _, m := range methods {
		if m.Activated {
			active = append(active, m)
		}
	}
	return active, nil
}

// SetPromotion starts (or restarts) a promotion with a fresh counter.
func (c *Catalog) SetPromotion(ctx context.Context, actor int64, name string, limit int) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if limit < 1 {
		return fmt.Errorf("%w: promotion cap %d", domain.ErrInvalidInput, limit)
	}
	if err := c.repo.UpsertPromotion(ctx, domain.Promotion{Name: name, Active: true, Max: limit}); err != nil {
		return err
	}
	c.caches.Promotions.Invalidate(name)
	return nil
}

func (c *Catalog) TogglePromotion(ctx context.Context, actor int64, name string, active bool) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if err := c.repo.SetPromotionActive(ctx, name, active); err != nil {
		return err
	}
	c.caches.Promotions.Invalidate(name)
	return nil
}

func (c *Catalog) Promotion(ctx context.Context, name string) (domain.Promotion, error) {
	return load(ctx, c.caches.Promotions, cachePromotions, name, c.metrics,
		func(ctx context.Context) (domain.Promotion, error) {
			p, err := c.repo.GetPromotion(ctx, name)
			if err != nil {
				return domain.Promotion{}, err
			}
			return *p, nil
		})
}

// SetMaintenance flips maintenance mode; only admins may do it.
func (c *Catalog) SetMaintenance(ctx context.Context, actor int64, on bool) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	c.app.SetMaintenance(on)
	c.logger.Info("Maintenance mode changed", zap.Bool("on", on), zap.Int64("by", actor))
	return nil
}
