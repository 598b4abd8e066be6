package domain

type OrderStatus string

const (
	StatusCreated         OrderStatus = "created"
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusPaid            OrderStatus = "paid"
	StatusFulfilled       OrderStatus = "fulfilled"
	StatusAbandoned       OrderStatus = "abandoned"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusCreated:         {StatusAwaitingPayment, StatusAbandoned},
	StatusAwaitingPayment: {StatusAwaitingPayment, StatusPaid, StatusAbandoned},
	StatusPaid:            {StatusFulfilled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}
