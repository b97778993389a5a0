package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	tenDigits = regexp.MustCompile(`^\d{10}$`)
	nonDigits = regexp.MustCompile(`\D`)
)

// PurchaseItemRequest is one intake line. A nil ProductID marks a product
// new to the catalog, created on the fly from the line's master fields.
type PurchaseItemRequest struct {
	ProductID         *uuid.UUID       `json:"product_id"`
	Name              string           `json:"name"`
	Brand             string           `json:"brand"`
	Category          string           `json:"category"`
	Quantity          int              `json:"quantity"`
	PurchasePrice     decimal.Decimal  `json:"purchase_price"`
	SellingPrice      decimal.Decimal  `json:"selling_price"`
	SIMType           string           `json:"sim_type"`
	GSTPercent        *decimal.Decimal `json:"gst_percent"`
	IMEIs             []string         `json:"imeis"`
	Description       string           `json:"description"`
	WarrantyPeriod    string           `json:"warranty_period"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
}

// Validate validates PurchaseItemRequest
func (r PurchaseItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

// NeedsMasterFields reports whether the line creates a new product but is
// missing the mandatory master data.
func (r PurchaseItemRequest) NeedsMasterFields() bool {
	return r.ProductID == nil &&
		(strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Brand) == "" || !r.SellingPrice.IsPositive())
}

// CreatePurchaseRequest - request to record a supplier intake
type CreatePurchaseRequest struct {
	Supplier              string                `json:"supplier"`
	SupplierInvoiceNumber string                `json:"supplier_invoice_number"`
	Items                 []PurchaseItemRequest `json:"items"`
	TotalAmount           decimal.Decimal       `json:"total_amount"`
	PaidAmount            decimal.Decimal       `json:"paid_amount"`
	Status                string                `json:"status"`
	PurchaseDate          *time.Time            `json:"purchase_date"`
}

// Validate validates CreatePurchaseRequest
func (r CreatePurchaseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Supplier, validation.Required),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.Status, validation.By(purchaseStatusRule)),
	)
}

func purchaseStatusRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" || ValidStatus(s) {
		return nil
	}
	return ErrInvalidPurchaseStatus
}

// CreateBuyBackRequest - request to buy a second-hand unit from a seller
type CreateBuyBackRequest struct {
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Category       string          `json:"category"`
	SIMType        string          `json:"sim_type"`
	IMEI           []string        `json:"imei"`
	Specifications string          `json:"specifications"`
	Description    string          `json:"description"`
	OriginalPrice  decimal.Decimal `json:"original_price"`
	BuyingPrice    decimal.Decimal `json:"buying_price"`
	SellerName     string          `json:"seller_name"`
	SellerPhone    string          `json:"seller_phone"`
	SellerAddress  string          `json:"seller_address"`
}

// Validate validates CreateBuyBackRequest
func (r CreateBuyBackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.IMEI, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.BuyingPrice, validation.Required, validation.By(positivePriceRule)),
		validation.Field(&r.SellerName, validation.Required),
		validation.Field(&r.SellerPhone, validation.Required, validation.By(sellerPhoneRule)),
	)
}

func positivePriceRule(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return validation.NewError("validation_price_positive", "price must be greater than 0")
	}
	return nil
}

func sellerPhoneRule(value interface{}) error {
	s, _ := value.(string)
	if !tenDigits.MatchString(strings.TrimSpace(s)) {
		return ErrInvalidSellerPhone
	}
	return nil
}

// CleanIMEIs strips non-digits from the submitted serials and keeps only
// the 15-digit ones.
func (r CreateBuyBackRequest) CleanIMEIs() []string {
	out := make([]string, 0, len(r.IMEI))
	for _, raw := range r.IMEI {
		digits := nonDigits.ReplaceAllString(raw, "")
		if len(digits) == 15 {
			out = append(out, digits)
		}
	}
	return out
}

// SoldToRequest carries the onward-sale details for a buy-back unit.
type SoldToRequest struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	SaleDate      *time.Time      `json:"sale_date"`
}

// UpdateBuyBackStatusRequest - request to move a buy-back unit between states
type UpdateBuyBackStatusRequest struct {
	Status string         `json:"status"`
	SoldTo *SoldToRequest `json:"sold_to"`
}

// Validate validates UpdateBuyBackStatusRequest
func (r UpdateBuyBackStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.By(buyBackStatusRule)),
	)
}

func buyBackStatusRule(value interface{}) error {
	s, _ := value.(string)
	if !ValidBuyBackStatus(s) {
		return ErrInvalidBuyBackState
	}
	return nil
}
