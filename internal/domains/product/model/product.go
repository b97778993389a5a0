package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CATEGORY CONSTANTS
// =====================================================
const (
	CategoryMobilePhones      = "Mobile Phones"
	CategoryTablets           = "Tablets"
	CategoryChargers          = "Chargers"
	CategoryEarphones         = "Earphones"
	CategoryCables            = "Cables"
	CategoryPowerBanks        = "Power Banks"
	CategoryScreenGuards      = "Screen Guards"
	CategoryBackCovers        = "Back Covers"
	CategoryAccessories       = "Accessories"
	CategorySmartWatches      = "Smart Watches"
	CategoryBluetoothSpeakers = "Bluetooth Speakers"
	CategoryMemoryCards       = "Memory Cards"
	CategoryWirelessEarbuds   = "Wireless Earbuds"
	CategoryCarAccessories    = "Car Accessories"
	CategoryOthers            = "Others"
)

// Categories lists every valid product category.
var Categories = []string{
	CategoryMobilePhones,
	CategoryTablets,
	CategoryChargers,
	CategoryEarphones,
	CategoryCables,
	CategoryPowerBanks,
	CategoryScreenGuards,
	CategoryBackCovers,
	CategoryAccessories,
	CategorySmartWatches,
	CategoryBluetoothSpeakers,
	CategoryMemoryCards,
	CategoryWirelessEarbuds,
	CategoryCarAccessories,
	CategoryOthers,
}

// =====================================================
// SIM TYPE CONSTANTS
// =====================================================
const (
	SIMTypeSingle = "Single SIM"
	SIMTypeDual   = "Dual SIM"
	SIMTypeNone   = "None"
)

// =====================================================
// ENTITY: Product
// =====================================================
type Product struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Brand             string          `json:"brand"`
	Category          string          `json:"category"`
	IMEI              []string        `json:"imei"`
	TrackIMEI         bool            `json:"track_imei"`
	SIMType           string          `json:"sim_type"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	GSTPercent        decimal.Decimal `json:"gst_percent"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	WarrantyPeriod    *string         `json:"warranty_period,omitempty"`
	Description       *string         `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IMEISlotsPerUnit returns how many serials one physical unit consumes.
// A dual-SIM handset carries two IMEIs.
func (p *Product) IMEISlotsPerUnit() int {
	if p.SIMType == SIMTypeDual {
		return 2
	}
	return 1
}

// IsLowStock reports whether the product is at or below its threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// CategoryTracksIMEI reports whether products of the given category carry
// per-unit serials by default.
func CategoryTracksIMEI(category string) bool {
	return category == CategoryMobilePhones || category == CategoryTablets
}

// ValidCategory reports whether the given category is one of the known set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
