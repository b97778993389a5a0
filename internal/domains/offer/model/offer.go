package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// OFFER TYPE CONSTANTS
// =====================================================
const (
	OfferTypeProduct  = "Product"
	OfferTypeCategory = "Category"
	OfferTypeAll      = "All"
)

// TargetAll is the sentinel target id for shop-wide offers.
const TargetAll = "ALL"

// =====================================================
// DISCOUNT TYPE CONSTANTS
// =====================================================
const (
	DiscountTypePercentage = "Percentage"
	DiscountTypeFixed      = "Fixed"
)

// =====================================================
// ENTITY: Offer
// =====================================================
// An Offer is a promotional rule. The pricing engine only ever reads offers;
// invoicing never mutates them.
type Offer struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	OfferType     string          `json:"offer_type"`
	TargetID      string          `json:"target_id"` // product id, category name, or "ALL"
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinQuantity   int             `json:"min_quantity"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EligibleAt reports whether the offer applies at the given instant for the
// given quantity. An absent end date means the offer runs indefinitely.
func (o *Offer) EligibleAt(asOf time.Time, quantity int) bool {
	if !o.IsActive {
		return false
	}
	if quantity < o.MinQuantity {
		return false
	}
	if o.StartDate.After(asOf) {
		return false
	}
	if o.EndDate != nil && o.EndDate.Before(asOf) {
		return false
	}
	return true
}

// DiscountOn computes the per-unit discount amount for the given price.
// The discount never exceeds the price, so net price floors at zero.
func (o *Offer) DiscountOn(price decimal.Decimal) decimal.Decimal {
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch o.DiscountType {
	case DiscountTypePercentage:
		discount = price.Mul(o.DiscountValue).Div(decimal.NewFromInt(100))
	case DiscountTypeFixed:
		discount = o.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(price) {
		discount = price
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	return discount
}
