package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/TemirB/storefront-bot/internal/domain"
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
)

// Quote is what the buyer needs to pay an order.
type Quote struct {
	Address   string          `json:"address"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Reference string          `json:"reference"`
}

// Adapter is the capability the lifecycle engine needs from a payment
// provider. Provider failures are returned wrapped in
// domain.ErrPaymentUnavailable.
type Adapter interface {
	Quote(ctx context.Context, method domain.PaymentMethod, order domain.Order) (Quote, error)
	Poll(ctx context.Context, method domain.PaymentMethod, order domain.Order) (Status, error)
}

// Registry maps payment method names to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(method string, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[method] = a
}

func (r *Registry) Adapter(method string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[method]
	if !ok {
		return nil, fmt.Errorf("no adapter for method %q: %w", method, domain.ErrPaymentUnavailable)
	}
	return a, nil
}
