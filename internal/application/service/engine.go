package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/cache"
	"github.com/TemirB/storefront-bot/internal/config"
	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/observability"
	"github.com/TemirB/storefront-bot/internal/payment"
)

const maxCommentLen = 1000

// Engine drives an order from creation to fulfillment. State checks are
// repeated inside the store's transactions, so concurrent callers cannot
// move an order twice.
type Engine struct {
	repo      domain.Repository
	catalog   *Catalog
	caches    *cache.Caches
	payments  *payment.Registry
	notifier  Notifier
	events    Events
	app       *AppContext
	retry     config.Retry
	promotion string
	logger    *zap.Logger
	metrics   observability.Metrics
}

func NewEngine(d Deps, catalog *Catalog, promotion string) *Engine {
	d.defaults()
	return &Engine{
		repo:      d.Repo,
		catalog:   catalog,
		caches:    d.Caches,
		payments:  d.Payments,
		notifier:  d.Notifier,
		events:    d.Events,
		app:       d.App,
		retry:     d.Retry,
		promotion: promotion,
		logger:    d.Logger,
		metrics:   d.Metrics,
	}
}

func (e *Engine) checkOpen(ctx context.Context, userID int64) error {
	if !e.app.Maintenance() {
		return nil
	}
	if ok, err := e.catalog.IsAdmin(ctx, userID); err == nil && ok {
		return nil
	}
	return domain.ErrMaintenance
}

// CreateOrder snapshots the product into a new order under a freshly
// reserved order number.
func (e *Engine) CreateOrder(ctx context.Context, buyer domain.User, productNumber int64) (*domain.Order, error) {
	if err := e.checkOpen(ctx, buyer.ID); err != nil {
		return nil, err
	}
	if err := e.catalog.EnsureUser(ctx, buyer); err != nil {
		return nil, err
	}

	p, err := e.catalog.Product(ctx, productNumber)
	if err != nil {
		return nil, err
	}
	if p.Quantity <= 0 {
		return nil, fmt.Errorf("product %d: %w", productNumber, domain.ErrSoldOut)
	}

	var order *domain.Order
	err = withRetry(ctx, e.retry, func() error {
		var err error
		order, err = e.repo.CreateOrder(ctx, domain.Order{
			BuyerID:       buyer.ID,
			BuyerName:     buyer.Name,
			ProductNumber: p.Number,
			ProductName:   p.Name,
			Price:         p.Price,
			DownloadLink:  p.DownloadRef,
		})
		return err
	})
	if err != nil {
		e.logger.Error("Failed to create order",
			zap.Int64("buyer_id", buyer.ID),
			zap.Int64("product_number", productNumber),
			zap.Error(err),
		)
		return nil, err
	}

	e.caches.Purchases.Invalidate(buyer.ID)
	e.transitioned(ctx, domain.EventOrderCreated, "", order)
	return order, nil
}

// SelectPayment attaches a payment path to the order and returns what the
// buyer has to pay. Selecting again replaces the previous quote.
func (e *Engine) SelectPayment(ctx context.Context, buyerID, number int64, methodName string) (payment.Quote, error) {
	if err := e.checkOpen(ctx, buyerID); err != nil {
		return payment.Quote{}, err
	}
	order, err := e.buyerOrder(ctx, buyerID, number)
	if err != nil {
		return payment.Quote{}, err
	}
	if !domain.CanTransition(order.Status, domain.StatusAwaitingPayment) {
		return payment.Quote{}, fmt.Errorf("order %d is %s: %w", number, order.Status, domain.ErrInvalidTransition)
	}

	method, adapter, err := e.method(ctx, methodName)
	if err != nil {
		return payment.Quote{}, err
	}

	start := time.Now()
	quote, err := adapter.Quote(ctx, *method, *order)
	if err != nil {
		e.metrics.ObservePayment(method.Name, "error", convertToMs(start))
		e.logger.Warn("Payment quote failed",
			zap.Int64("order_number", number),
			zap.String("method", method.Name),
			zap.Error(err),
		)
		return payment.Quote{}, err
	}
	e.metrics.ObservePayment(method.Name, "quoted", convertToMs(start))

	if err := withRetry(ctx, e.retry, func() error {
		return e.repo.SetOrderPayment(ctx, number, method.Name, quote.Reference)
	}); err != nil {
		return payment.Quote{}, err
	}

	from := order.Status
	order.Status = domain.StatusAwaitingPayment
	order.PaymentPath = method.Name
	order.PaymentRef = quote.Reference
	e.transitioned(ctx, domain.EventPaymentSelected, from, order)
	return quote, nil
}

// CheckPayment asks the adapter whether the buyer has paid. A paid order is
// confirmed and fulfilled on the spot.
func (e *Engine) CheckPayment(ctx context.Context, buyerID, number int64) (*domain.Order, error) {
	order, err := e.buyerOrder(ctx, buyerID, number)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case domain.StatusPaid, domain.StatusFulfilled:
		return order, nil
	case domain.StatusAwaitingPayment:
	default:
		return nil, fmt.Errorf("order %d is %s: %w", number, order.Status, domain.ErrInvalidTransition)
	}

	method, adapter, err := e.method(ctx, order.PaymentPath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, err := adapter.Poll(ctx, *method, *order)
	if err != nil {
		e.metrics.ObservePayment(method.Name, "error", convertToMs(start))
		e.logger.Warn("Payment poll failed",
			zap.Int64("order_number", number),
			zap.String("method", method.Name),
			zap.Error(err),
		)
		return nil, err
	}
	e.metrics.ObservePayment(method.Name, string(status), convertToMs(start))

	switch status {
	case payment.StatusPaid:
	case payment.StatusFailed:
		return nil, fmt.Errorf("order %d: %w", number, domain.ErrPaymentFailed)
	default:
		return nil, fmt.Errorf("order %d is %s: %w", number, status, domain.ErrPaymentPending)
	}
	return e.confirm(ctx, order, method.Name)
}

// ConfirmManual lets an admin mark an order paid, e.g. after a bank
// transfer arrived.
func (e *Engine) ConfirmManual(ctx context.Context, adminID, number int64) (*domain.Order, error) {
	if err := e.catalog.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	order, err := e.getOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.PaymentPath == "" {
		return nil, fmt.Errorf("order %d has no payment method: %w", number, domain.ErrInvalidTransition)
	}
	return e.confirm(ctx, order, order.PaymentPath)
}

// ConfirmByReference handles a provider callback. Repeated callbacks for an
// already paid order are no-ops.
func (e *Engine) ConfirmByReference(ctx context.Context, ref string) (*domain.Order, error) {
	var order *domain.Order
	err := withRetry(ctx, e.retry, func() error {
		var err error
		order, err = e.repo.GetOrderByPaymentRef(ctx, ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order.Paid() {
		return order, nil
	}
	return e.confirm(ctx, order, order.PaymentPath)
}

func (e *Engine) confirm(ctx context.Context, order *domain.Order, method string) (*domain.Order, error) {
	promotion := ""
	if e.app.PromotionsEnabled() {
		promotion = e.promotion
	}

	var out *domain.PaidOutcome
	err := withRetry(ctx, e.retry, func() error {
		var err error
		out, err = e.repo.MarkOrderPaid(ctx, order.Number, method, promotion)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrSoldOut):
		e.logger.Warn("Payment confirmed for a sold out product",
			zap.Int64("order_number", order.Number),
			zap.Int64("product_number", order.ProductNumber),
		)
		e.notifyAdmins(ctx, fmt.Sprintf("Order #%d was paid but product #%d is sold out. A refund is needed.",
			order.Number, order.ProductNumber))
		return nil, err
	case errors.Is(err, domain.ErrOrderExpired):
		e.logger.Warn("Payment confirmed for an expired order",
			zap.Int64("order_number", order.Number),
			zap.String("method", method),
		)
		e.notifyAdmins(ctx, fmt.Sprintf("Order #%d was paid after it expired. A refund is needed.", order.Number))
		return nil, err
	case err != nil:
		e.logger.Error("Failed to mark order paid", zap.Int64("order_number", order.Number), zap.Error(err))
		return nil, err
	}

	e.invalidateProduct(ctx, order.ProductNumber)
	if promotion != "" {
		e.caches.Promotions.Invalidate(promotion)
	}
	e.caches.Purchases.Invalidate(order.BuyerID)
	e.transitioned(ctx, domain.EventOrderPaid, order.Status, out.Order)
	if out.BonusGranted {
		e.logger.Info("Promotion bonus granted",
			zap.Int64("order_number", order.Number),
			zap.String("promotion", promotion),
		)
	}

	done, err := e.fulfill(ctx, out.Order.Number)
	if err != nil {
		// The order stays paid; an admin can run Fulfill again.
		return out.Order, nil
	}
	return done, nil
}

// Fulfill delivers keys for a paid order. Admin only; the normal path runs
// it right after confirmation.
func (e *Engine) Fulfill(ctx context.Context, adminID, number int64) (*domain.Order, error) {
	if err := e.catalog.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return e.fulfill(ctx, number)
}

func (e *Engine) fulfill(ctx context.Context, number int64) (*domain.Order, error) {
	var order *domain.Order
	err := withRetry(ctx, e.retry, func() error {
		var err error
		order, err = e.repo.FulfillOrder(ctx, number)
		return err
	})
	if err != nil {
		e.logger.Error("Failed to fulfill order", zap.Int64("order_number", number), zap.Error(err))
		return nil, err
	}
	e.caches.Purchases.Invalidate(order.BuyerID)
	e.transitioned(ctx, domain.EventOrderFulfilled, domain.StatusPaid, order)

	if want := 1 + order.BonusUnits; len(order.Keys) < want && order.DownloadLink == "" {
		e.logger.Warn("Key pool ran short",
			zap.Int64("order_number", number),
			zap.Int("wanted", want),
			zap.Int("delivered", len(order.Keys)),
		)
	}
	e.send(ctx, order.BuyerID, DeliveryText(order))
	return order, nil
}

// Comment stores the buyer's feedback on a paid order.
func (e *Engine) Comment(ctx context.Context, buyerID, number int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > maxCommentLen {
		return fmt.Errorf("%w: comment must be 1-%d characters", domain.ErrInvalidInput, maxCommentLen)
	}
	order, err := e.buyerOrder(ctx, buyerID, number)
	if err != nil {
		return err
	}
	if !order.Paid() {
		return fmt.Errorf("order %d is not paid: %w", number, domain.ErrInvalidTransition)
	}
	if err := e.repo.SetOrderComment(ctx, number, text); err != nil {
		return err
	}
	e.caches.Purchases.Invalidate(buyerID)
	return nil
}

// DeleteOrder purges the order. Inventory and claimed keys are not restored.
func (e *Engine) DeleteOrder(ctx context.Context, adminID, number int64) error {
	if err := e.catalog.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	order, err := e.getOrder(ctx, number)
	if err != nil {
		return err
	}
	if err := e.repo.DeleteOrder(ctx, number); err != nil {
		return err
	}
	e.caches.Purchases.Invalidate(order.BuyerID)
	e.publish(ctx, domain.NewOrderEvent(domain.EventOrderDeleted, order))
	e.logger.Info("Order deleted", zap.Int64("order_number", number), zap.Int64("by", adminID))
	return nil
}

// ExpireStale abandons unpaid orders untouched for more than olderThan. An
// order awaiting payment counts from its latest payment selection.
func (e *Engine) ExpireStale(ctx context.Context, olderThan time.Duration) ([]int64, error) {
	ids, err := e.repo.ExpireOrders(ctx, time.Now().Add(-olderThan))
	if err != nil {
		e.logger.Error("Failed to expire orders", zap.Error(err))
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	e.caches.Purchases.Purge()
	for _, id := range ids {
		e.metrics.ObserveTransition("unpaid", string(domain.StatusAbandoned))
		e.publish(ctx, domain.OrderEvent{
			Type:        domain.EventOrderExpired,
			OrderNumber: id,
			Status:      domain.StatusAbandoned,
			At:          time.Now().UTC(),
		})
	}
	e.logger.Info("Stale orders abandoned", zap.Int("count", len(ids)))
	return ids, nil
}

// Purchases lists the user's paid orders, newest first.
func (e *Engine) Purchases(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := load(ctx, e.caches.Purchases, cachePurchases, userID, e.metrics,
		func(ctx context.Context) ([]domain.Order, error) {
			var all []domain.Order
			err := withRetry(ctx, e.retry, func() error {
				var err error
				all, err = e.repo.ListOrdersByBuyer(ctx, userID)
				return err
			})
			if err != nil {
				return nil, err
			}
			paid := make([]domain.Order, 0, len(all))
			for _, o := range all {
				if o.Paid() {
					paid = append(paid, o)
				}
			}
			return paid, nil
		})
	if err != nil {
		e.logger.Error("Failed to load purchases", zap.Int64("user_id", userID), zap.Error(err))
	}
	return orders, err
}

func (e *Engine) HasPurchased(ctx context.Context, userID, productNumber int64) (bool, error) {
	orders, err := e.Purchases(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if o.ProductNumber == productNumber {
			return true, nil
		}
	}
	return false, nil
}

// Order returns the order to its buyer or to an admin.
func (e *Engine) Order(ctx context.Context, userID, number int64) (*domain.Order, error) {
	order, err := e.getOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.BuyerID == userID {
		return order, nil
	}
	if err := e.catalog.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}
	return order, nil
}

func (e *Engine) getOrder(ctx context.Context, number int64) (*domain.Order, error) {
	var order *domain.Order
	err := withRetry(ctx, e.retry, func() error {
		var err error
		order, err = e.repo.GetOrder(ctx, number)
		return err
	})
	return order, err
}

func (e *Engine) buyerOrder(ctx context.Context, buyerID, number int64) (*domain.Order, error) {
	order, err := e.getOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, fmt.Errorf("order %d belongs to another buyer: %w", number, domain.ErrForbidden)
	}
	return order, nil
}

func (e *Engine) method(ctx context.Context, name string) (*domain.PaymentMethod, payment.Adapter, error) {
	m, err := e.repo.GetPaymentMethod(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("method %q: %w", name, domain.ErrMethodInactive)
	}
	if err != nil {
		return nil, nil, err
	}
	if !m.Activated {
		return nil, nil, fmt.Errorf("method %q: %w", name, domain.ErrMethodInactive)
	}
	a, err := e.payments.Adapter(name)
	if err != nil {
		return nil, nil, err
	}
	return m, a, nil
}

func (e *Engine) invalidateProduct(ctx context.Context, number int64) {
	p, err := e.repo.GetProduct(ctx, number)
	if err != nil {
		e.caches.Products.Purge()
		return
	}
	e.caches.Products.Invalidate(p.Category)
}

func (e *Engine) transitioned(ctx context.Context, t domain.EventType, from domain.OrderStatus, order *domain.Order) {
	e.metrics.ObserveTransition(string(from), string(order.Status))
	e.logger.Info("Order transition",
		zap.Int64("order_number", order.Number),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
	)
	e.publish(ctx, domain.NewOrderEvent(t, order))
}

func (e *Engine) publish(ctx context.Context, ev domain.OrderEvent) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		e.logger.Warn("Order event dropped",
			zap.String("type", string(ev.Type)),
			zap.Int64("order_number", ev.OrderNumber),
			zap.Error(err),
		)
	}
}

func (e *Engine) send(ctx context.Context, chatID int64, text string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, chatID, text); err != nil {
		e.logger.Warn("Notification failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (e *Engine) notifyAdmins(ctx context.Context, text string) {
	ids, err := e.repo.ListAdminIDs(ctx)
	if err != nil {
		e.logger.Warn("Cannot list admins for notification", zap.Error(err))
		return
	}
	for _, id := range ids {
		e.send(ctx, id, text)
	}
}

// DeliveryText is the message a buyer gets once an order is fulfilled.
func DeliveryText(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d: %s\n", o.Number, o.ProductName)
	if o.DownloadLink != "" {
		fmt.Fprintf(&b, "Download: %s\n", o.DownloadLink)
	}
	if len(o.Keys) > 0 {
		b.WriteString("Keys:\n")
		for _, k := range o.Keys {
			b.WriteString(k)
			b.WriteByte('\n')
		}
	}
	if o.BonusUnits > 0 {
		fmt.Fprintf(&b, "Includes %d bonus unit(s).\n", o.BonusUnits)
	}
	if len(o.Keys) < 1+o.BonusUnits && o.DownloadLink == "" {
		b.WriteString("Your keys will be sent by an admin shortly.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
