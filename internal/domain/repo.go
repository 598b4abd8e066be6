package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository is the durable store. Reads of a missing key return ErrNotFound;
// connection and transaction failures are wrapped in ErrBackendUnavailable.
type Repository interface {
	Migrate(ctx context.Context) error
	Close()

	// UpsertUser inserts the user or leaves an existing row untouched.
	UpsertUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	CreditUserWallet(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)

	UpsertAdmin(ctx context.Context, a Admin) error
	ListAdminIDs(ctx context.Context) ([]int64, error)

	CreateProduct(ctx context.Context, p Product) (int64, error)
	GetProduct(ctx context.Context, number int64) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]Product, error)
	UpdateProductField(ctx context.Context, number int64, field ProductField, value any) error
	DeleteProduct(ctx context.Context, number int64) error
	AddProductKeys(ctx context.Context, number int64, keys []string) (int, error)
	CountAvailableKeys(ctx context.Context, number int64) (int, error)

	CreateCategory(ctx context.Context, name string) (int64, error)
	GetCategory(ctx context.Context, number int64) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	// RenameCategory renames the category and every product pointing at the old name.
	RenameCategory(ctx context.Context, number int64, name string) (int, error)
	DeleteCategory(ctx context.Context, number int64) error

	// CreateOrder reserves the next order number and inserts the row atomically.
	CreateOrder(ctx context.Context, o Order) (*Order, error)
	GetOrder(ctx context.Context, number int64) (*Order, error)
	GetOrderByPaymentRef(ctx context.Context, ref string) (*Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]Order, error)
	SetOrderPayment(ctx context.Context, number int64, path, ref string) error
	// MarkOrderPaid decrements inventory, records the method and, when the
	// promotion still has room, consumes one promotion unit in the same transaction.
	MarkOrderPaid(ctx context.Context, number int64, method, promotion string) (*PaidOutcome, error)
	// FulfillOrder claims keys from the ledger and stores them on the order.
	FulfillOrder(ctx context.Context, number int64) (*Order, error)
	SetOrderComment(ctx context.Context, number int64, comment string) error
	DeleteOrder(ctx context.Context, number int64) error
	ExpireOrders(ctx context.Context, before time.Time) ([]int64, error)

	CreatePaymentMethod(ctx context.Context, name string, adminID int64) error
	GetPaymentMethod(ctx context.Context, name string) (*PaymentMethod, error)
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, m PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, name string) error

	UpsertPromotion(ctx context.Context, p Promotion) error
	GetPromotion(ctx context.Context, name string) (*Promotion, error)
	SetPromotionActive(ctx context.Context, name string, active bool) error
}
