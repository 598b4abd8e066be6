package domain

import "time"

type EventType string

const (
	EventOrderCreated    EventType = "order.created"
	EventPaymentSelected EventType = "order.awaiting_payment"
	EventOrderPaid       EventType = "order.paid"
	EventOrderFulfilled  EventType = "order.fulfilled"
	EventOrderDeleted    EventType = "order.deleted"
	EventOrderExpired    EventType = "order.expired"
)

// OrderEvent is published after a lifecycle change has been committed.
type OrderEvent struct {
	Type          EventType   `json:"type"`
	OrderNumber   int64       `json:"order_number"`
	BuyerID       int64       `json:"buyer_id,omitempty"`
	ProductNumber int64       `json:"product_number,omitempty"`
	Status        OrderStatus `json:"status"`
	Method        string      `json:"method,omitempty"`
	BonusUnits    int         `json:"bonus_units,omitempty"`
	At            time.Time   `json:"at"`
}

func NewOrderEvent(t EventType, o *Order) OrderEvent {
	method := o.PaymentPath
	if o.Paid() {
		method = o.PaidMethod
	}
	return OrderEvent{
		Type:          t,
		OrderNumber:   o.Number,
		BuyerID:       o.BuyerID,
		ProductNumber: o.ProductNumber,
		Status:        o.Status,
		Method:        method,
		BonusUnits:    o.BonusUnits,
		At:            time.Now().UTC(),
	}
}
