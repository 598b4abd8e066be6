package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrBackendUnavailable = errors.New("backend unavailable")

	ErrProductNotFound    = errors.New("product not found")
	ErrSoldOut            = errors.New("sold out")
	ErrInvalidTransition  = errors.New("invalid order transition")
	ErrOrderExpired       = errors.New("order expired")
	ErrMethodInactive     = errors.New("payment method inactive")
	ErrPaymentPending     = errors.New("payment pending")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrPaymentUnavailable = errors.New("payment adapter unavailable")
	ErrForbidden          = errors.New("forbidden")
	ErrMaintenance        = errors.New("maintenance mode")
	ErrInvalidInput       = errors.New("invalid input")
)

// UserMessage returns a neutral text safe to show in chat. Internal detail
// stays in the logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrNotFound):
		return "Nothing was found for this request."
	case errors.Is(err, ErrSoldOut):
		return "Sorry, this product is sold out."
	case errors.Is(err, ErrPaymentFailed):
		return "The payment did not go through. Choose a payment method again with /pay."
	case errors.Is(err, ErrPaymentPending):
		return "Payment is not confirmed yet. Please try again in a moment."
	case errors.Is(err, ErrPaymentUnavailable):
		return "The payment service is temporarily unavailable. Please try again later."
	case errors.Is(err, ErrMethodInactive):
		return "This payment method is currently disabled."
	case errors.Is(err, ErrOrderExpired):
		return "This order has expired. An admin will contact you about any payment already sent."
	case errors.Is(err, ErrInvalidTransition):
		return "This order can no longer be changed."
	case errors.Is(err, ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, ErrMaintenance):
		return "The store is under maintenance. Please come back later."
	case errors.Is(err, ErrInvalidInput):
		return "The value you entered is not valid."
	default:
		return "Something went wrong. Please try again later."
	}
}
