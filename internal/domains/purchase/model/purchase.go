package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CONSTANTS
// =====================================================
// Purchase settlement statuses (towards the supplier).
const (
	StatusPaid    = "Paid"
	StatusPartial = "Partial"
	StatusPending = "Pending"
)

// ValidStatus reports whether s is a recognised purchase status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPaid, StatusPartial, StatusPending:
		return true
	}
	return false
}

// =====================================================
// ENTITY: Purchase
// =====================================================
// Purchase is a supplier intake document. Its items snapshot what was
// bought; the stock and serial increments happen against the product
// catalog in the same transaction.
type Purchase struct {
	ID                    uuid.UUID       `json:"id"`
	PurchaseNumber        string          `json:"purchase_number"`
	Supplier              string          `json:"supplier"`
	SupplierInvoiceNumber string          `json:"supplier_invoice_number"`
	Items                 []PurchaseItem  `json:"items"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	PaidAmount            decimal.Decimal `json:"paid_amount"`
	Status                string          `json:"status"`
	PurchaseDate          time.Time       `json:"purchase_date"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// PurchaseItem is one intake line. ProductID always references a catalog
// product; products new to the shop are created before the document is
// persisted.
type PurchaseItem struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	SIMType       string          `json:"sim_type"`
	GSTPercent    decimal.Decimal `json:"gst_percent"`
	IMEIs         []string        `json:"imeis"`
}
