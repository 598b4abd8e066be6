package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/TemirB/storefront-bot/internal/domain"
)

// BankTransfer quotes the account details stored on the method. Payment is
// confirmed by an admin, so Poll never reports paid.
type BankTransfer struct {
	currency string
}

func NewBankTransfer(currency string) *BankTransfer {
	return &BankTransfer{currency: currency}
}

func (b *BankTransfer) Quote(_ context.Context, method domain.PaymentMethod, order domain.Order) (Quote, error) {
	return Quote{
		Address:   method.Token,
		Amount:    order.Price,
		Currency:  b.currency,
		Reference: uuid.NewString(),
	}, nil
}

func (b *BankTransfer) Poll(context.Context, domain.PaymentMethod, domain.Order) (Status, error) {
	return StatusPending, nil
}
