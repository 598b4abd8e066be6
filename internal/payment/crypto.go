package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/pkg/breaker"
)

// Crypto talks to an invoice-style crypto payment provider. Every call runs
// under its own deadline and behind a circuit breaker.
type Crypto struct {
	baseURL  string
	apiKey   string
	currency string
	timeout  time.Duration
	client   *http.Client
	breaker  *breaker.Breaker
	logger   *zap.Logger
}

type CryptoOptions struct {
	BaseURL  string
	APIKey   string
	Currency string
	Timeout  time.Duration
	Client   *http.Client
	Breaker  *breaker.Breaker
}

func NewCrypto(opts CryptoOptions, logger *zap.Logger) *Crypto {
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Crypto{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		currency: opts.Currency,
		timeout:  opts.Timeout,
		client:   opts.Client,
		breaker:  opts.Breaker,
		logger:   logger,
	}
}

type invoiceRequest struct {
	Reference string          `json:"reference"`
	Order     int64           `json:"order"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Asset     string          `json:"asset,omitempty"`
}

type invoiceResponse struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
	Asset   string          `json:"asset"`
}

type statusResponse struct {
	Status Status `json:"status"`
}

// Quote asks the provider for a receive address and the crypto amount due.
func (c *Crypto) Quote(ctx context.Context, method domain.PaymentMethod, order domain.Order) (Quote, error) {
	req := invoiceRequest{
		Reference: uuid.NewString(),
		Order:     order.Number,
		Amount:    order.Price,
		Currency:  c.currency,
		Asset:     method.Secret,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Quote{}, fmt.Errorf("encode invoice: %w", err)
	}

	var resp invoiceResponse
	if err := c.do(ctx, method, http.MethodPost, "/v1/invoices", body, &resp); err != nil {
		return Quote{}, err
	}
	if resp.Address == "" {
		return Quote{}, fmt.Errorf("%w: invoice without address", domain.ErrPaymentUnavailable)
	}
	return Quote{
		Address:   resp.Address,
		Amount:    resp.Amount,
		Currency:  resp.Asset,
		Reference: req.Reference,
	}, nil
}

// Poll reports the provider's view of the order's invoice.
func (c *Crypto) Poll(ctx context.Context, method domain.PaymentMethod, order domain.Order) (Status, error) {
	if order.PaymentRef == "" {
		return "", fmt.Errorf("order %d has no invoice: %w", order.Number, domain.ErrInvalidTransition)
	}
	var resp statusResponse
	if err := c.do(ctx, method, http.MethodGet, "/v1/invoices/"+url.PathEscape(order.PaymentRef), nil, &resp); err != nil {
		return "", err
	}
	switch resp.Status {
	case StatusPaid, StatusPending, StatusFailed:
		return resp.Status, nil
	default:
		return "", fmt.Errorf("%w: unknown invoice status %q", domain.ErrPaymentUnavailable, resp.Status)
	}
}

func (c *Crypto) do(ctx context.Context, method domain.PaymentMethod, verb, path string, body []byte, out any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrPaymentUnavailable, err)
		}
	}

	err := c.roundTrip(ctx, method, verb, path, body, out)
	if c.breaker != nil {
		if err != nil && !errors.Is(err, context.Canceled) {
			c.breaker.Failure()
		} else if err == nil {
			c.breaker.Success()
		}
	}
	if err != nil {
		c.logger.Warn("Crypto provider call failed",
			zap.String("method", method.Name),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", domain.ErrPaymentUnavailable, err)
	}
	return nil
}

func (c *Crypto) roundTrip(ctx context.Context, method domain.PaymentMethod, verb, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, verb, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	key := c.apiKey
	if method.Token != "" {
		key = method.Token
	}
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("provider status %d", resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out)
}
