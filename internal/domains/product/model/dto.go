package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest - request to register a catalog product
type CreateProductRequest struct {
	Name              string           `json:"name"`
	Brand             string           `json:"brand"`
	Category          string           `json:"category"`
	IMEI              []string         `json:"imei"`
	SIMType           string           `json:"sim_type"`
	PurchasePrice     decimal.Decimal  `json:"purchase_price"`
	SellingPrice      decimal.Decimal  `json:"selling_price"`
	GSTPercent        *decimal.Decimal `json:"gst_percent"`
	StockQuantity     int              `json:"stock_quantity"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	SupplierID        *uuid.UUID       `json:"supplier_id"`
	WarrantyPeriod    *string          `json:"warranty_period"`
	Description       *string          `json:"description"`
}

// Validate validates CreateProductRequest
func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Brand, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Category,
			validation.Required,
			validation.By(categoryRule),
		),
		validation.Field(&r.SIMType,
			validation.In(SIMTypeSingle, SIMTypeDual, SIMTypeNone),
		),
		validation.Field(&r.SellingPrice, validation.By(nonNegativeAmountRule)),
		validation.Field(&r.PurchasePrice, validation.By(nonNegativeAmountRule)),
		validation.Field(&r.StockQuantity, validation.Min(0)),
	)
}

// ozzo's threshold rules reflect on numeric kinds only; decimal.Decimal is a
// struct, so prices go through a custom rule.
func nonNegativeAmountRule(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return validation.NewError("validation_negative_amount", "amount cannot be negative")
	}
	return nil
}

func categoryRule(value interface{}) error {
	s, _ := value.(string)
	if !ValidCategory(s) {
		return ErrInvalidCategory
	}
	return nil
}

// ToEntity converts the request into a Product with defaults applied.
func (r CreateProductRequest) ToEntity() *Product {
	gst := decimal.NewFromInt(18)
	if r.GSTPercent != nil {
		gst = boundGST(*r.GSTPercent)
	}

	threshold := 2
	if r.LowStockThreshold != nil && *r.LowStockThreshold >= 0 {
		threshold = *r.LowStockThreshold
	}

	simType := r.SIMType
	if simType == "" {
		simType = SIMTypeNone
	}

	imeis := normalizeIMEIs(r.IMEI)

	return &Product{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(r.Name),
		Brand:             strings.TrimSpace(r.Brand),
		Category:          r.Category,
		IMEI:              imeis,
		TrackIMEI:         CategoryTracksIMEI(r.Category),
		SIMType:           simType,
		PurchasePrice:     r.PurchasePrice,
		SellingPrice:      r.SellingPrice,
		GSTPercent:        gst,
		StockQuantity:     r.StockQuantity,
		LowStockThreshold: threshold,
		SupplierID:        r.SupplierID,
		WarrantyPeriod:    r.WarrantyPeriod,
		Description:       r.Description,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
}

// UpdateProductRequest - partial update, only set fields are applied
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Brand             *string          `json:"brand"`
	Category          *string          `json:"category"`
	SIMType           *string          `json:"sim_type"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	GSTPercent        *decimal.Decimal `json:"gst_percent"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	WarrantyPeriod    *string          `json:"warranty_period"`
	Description       *string          `json:"description"`
}

// Validate validates UpdateProductRequest
func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Brand, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Category, validation.By(optionalCategoryRule)),
		validation.Field(&r.SIMType,
			validation.In(SIMTypeSingle, SIMTypeDual, SIMTypeNone),
		),
	)
}

func optionalCategoryRule(value interface{}) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	return categoryRule(*s)
}

// Apply copies set fields onto the product.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Brand != nil {
		p.Brand = strings.TrimSpace(*r.Brand)
	}
	if r.Category != nil {
		p.Category = *r.Category
		p.TrackIMEI = CategoryTracksIMEI(*r.Category)
	}
	if r.SIMType != nil {
		p.SIMType = *r.SIMType
	}
	if r.PurchasePrice != nil {
		p.PurchasePrice = *r.PurchasePrice
	}
	if r.SellingPrice != nil {
		p.SellingPrice = *r.SellingPrice
	}
	if r.GSTPercent != nil {
		p.GSTPercent = boundGST(*r.GSTPercent)
	}
	if r.LowStockThreshold != nil && *r.LowStockThreshold >= 0 {
		p.LowStockThreshold = *r.LowStockThreshold
	}
	if r.WarrantyPeriod != nil {
		p.WarrantyPeriod = r.WarrantyPeriod
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	p.UpdatedAt = time.Now()
}

// boundGST clamps a GST rate to [0, 100].
func boundGST(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return rate
}

// normalizeIMEIs trims serials and drops blanks and duplicates.
func normalizeIMEIs(imeis []string) []string {
	seen := make(map[string]bool, len(imeis))
	out := make([]string, 0, len(imeis))
	for _, imei := range imeis {
		trimmed := strings.TrimSpace(imei)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}
