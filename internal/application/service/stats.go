package service

import "time"

// Cache names reported to metrics.
const (
	cacheAdmins     = "admins"
	cacheProducts   = "products"
	cachePromotions = "promotions"
	cachePurchases  = "purchases"
)

func convertToMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
