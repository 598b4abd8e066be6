package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCategory is assigned to products created without a category.
	DefaultCategory = "Default Category"
	// Unpaid marks an order whose payment has not been confirmed yet.
	Unpaid = "NO"
)

type User struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Wallet decimal.Decimal `json:"wallet"`
}

type Admin struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Wallet decimal.Decimal `json:"wallet"`
}

type Product struct {
	Number      int64           `json:"product_number"`
	AdminID     int64           `json:"admin_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageRef    string          `json:"image_ref"`
	DownloadRef string          `json:"download_ref"`
	KeysRef     string          `json:"keys_ref"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
}

// ProductField names a single column an admin may edit through the dialogue.
type ProductField string

const (
	FieldName        ProductField = "name"
	FieldDescription ProductField = "description"
	FieldPrice       ProductField = "price"
	FieldImage       ProductField = "image_ref"
	FieldDownload    ProductField = "download_ref"
	FieldKeys        ProductField = "keys_ref"
	FieldQuantity    ProductField = "quantity"
	FieldCategory    ProductField = "category"
)

func (f ProductField) Valid() bool {
	switch f {
	case FieldName, FieldDescription, FieldPrice, FieldImage, FieldDownload, FieldKeys, FieldQuantity, FieldCategory:
		return true
	}
	return false
}

type Category struct {
	Number int64  `json:"category_number"`
	Name   string `json:"name"`
}

// Order holds snapshot copies of the product taken at creation time.
type Order struct {
	Number        int64           `json:"order_number"`
	BuyerID       int64           `json:"buyer_id"`
	BuyerName     string          `json:"buyer_name"`
	ProductNumber int64           `json:"product_number"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	DownloadLink  string          `json:"download_link"`
	CreatedAt     time.Time       `json:"created_at"`
	Status        OrderStatus     `json:"status"`
	PaymentPath   string          `json:"payment_path"`
	PaidMethod    string          `json:"paid_method"`
	PaymentRef    string          `json:"payment_ref"`
	BonusUnits    int             `json:"bonus_units"`
	Keys          []string        `json:"keys"`
	Comment       string          `json:"comment"`
}

func (o *Order) Paid() bool { return o.PaidMethod != "" && o.PaidMethod != Unpaid }

type PaymentMethod struct {
	Name      string `json:"name"`
	AdminID   int64  `json:"admin_id"`
	Token     string `json:"-"`
	Secret    string `json:"-"`
	Activated bool   `json:"activated"`
}

type Promotion struct {
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Sold      int       `json:"sold"`
	Max       int       `json:"max"`
	StartedAt time.Time `json:"started_at"`
}

// Available reports whether another bonus unit may be granted.
func (p Promotion) Available() bool { return p.Active && p.Sold < p.Max }

// PaidOutcome is the result of a committed payment confirmation.
type PaidOutcome struct {
	Order        *Order
	BonusGranted bool
}
