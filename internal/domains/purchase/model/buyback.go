package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Buy-back unit states.
const (
	BuyBackInStock     = "In Stock"
	BuyBackSold        = "Sold"
	BuyBackUnderRepair = "Under Repair"
)

// ValidBuyBackStatus reports whether s is a recognised buy-back state.
func ValidBuyBackStatus(s string) bool {
	switch s {
	case BuyBackInStock, BuyBackSold, BuyBackUnderRepair:
		return true
	}
	return false
}

// SoldTo records the onward sale of a buy-back unit.
type SoldTo struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	SaleDate      time.Time       `json:"sale_date"`
}

// =====================================================
// ENTITY: BuyBack
// =====================================================
// BuyBack is a second-hand unit bought over the counter from a walk-in
// seller. It lives outside the regular catalog: each record is a single
// physical device identified by its serials, tracked from intake to onward
// sale.
type BuyBack struct {
	ID             uuid.UUID       `json:"id"`
	BuyBackNumber  string          `json:"buyback_number"`
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
	Status         string          `json:"status"`
	SoldTo         *SoldTo         `json:"sold_to,omitempty"`
	PurchasedBy    *uuid.UUID      `json:"purchased_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
