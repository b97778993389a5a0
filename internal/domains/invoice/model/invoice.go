package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CONSTANTS
// =====================================================
// Invoice statuses. The EMI forms keep their spaced spelling because printed
// invoices and the frontend both display the raw value.
const (
	StatusPaid         = "Paid"
	StatusPartial      = "Partial"
	StatusPending      = "Pending"
	StatusCancelled    = "Cancelled"
	StatusEMIActive    = "EMI - Active"
	StatusEMICompleted = "EMI - Completed"
)

// Payment modes.
const (
	PaymentCash  = "Cash"
	PaymentUPI   = "UPI"
	PaymentCard  = "Card"
	PaymentMixed = "Mixed"
	PaymentEMI   = "EMI"
)

// Document discount types.
const (
	DiscountFixed      = "Fixed"
	DiscountPercentage = "Percentage"
)

// InstallmentNoteDownPayment marks the synthetic first installment recorded
// at plan creation. EMI progress counting skips it.
const InstallmentNoteDownPayment = "Down Payment"

// =====================================================
// ENTITY: Invoice
// =====================================================
// Invoice is the persisted settlement document. Lines carry a full snapshot
// of the product at sale time (name, prices, tax split), so later catalog
// edits never change what an old invoice says.
type Invoice struct {
	ID             uuid.UUID       `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	CustomerMobile string          `json:"customer_mobile"`
	Items          []InvoiceLine   `json:"items"`
	SubTotal       decimal.Decimal `json:"sub_total"` // sum of taxable values
	Discount       decimal.Decimal `json:"discount"`  // document-level discount amount
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"` // as entered (percent or amount)
	GSTTotal       decimal.Decimal `json:"gst_total"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	PaymentMode    string          `json:"payment_mode"`
	PaymentDetails string          `json:"payment_details"`
	MixedPayments  []MixedPayment  `json:"mixed_payments,omitempty"`
	EMIDetails     *EMIDetails     `json:"emi_details,omitempty"`
	Status         string          `json:"status"`
	CreatedBy      *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InvoiceLine is one priced line of an invoice. Totals are tax-inclusive;
// TaxableValue and the CGST/SGST split are derived by reverse calculation.
type InvoiceLine struct {
	ProductID     *uuid.UUID      `json:"product_id,omitempty"` // nil for ad-hoc lines
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	IMEI          []string        `json:"imei"`
	SIMType       string          `json:"sim_type"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`          // unit price billed (inclusive)
	OriginalPrice decimal.Decimal `json:"original_price"` // catalog selling price at sale time
	PurchasePrice decimal.Decimal `json:"purchase_price"` // cost snapshot for margin reports
	GSTPercent    decimal.Decimal `json:"gst_percent"`
	Discount      decimal.Decimal `json:"discount"` // total line discount incl. allocated share
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	Total         decimal.Decimal `json:"total"`
	OfferApplied  string          `json:"offer_applied,omitempty"`
}

// MixedPayment is one leg of a split tender.
type MixedPayment struct {
	Mode   string          `json:"mode"`
	Amount decimal.Decimal `json:"amount"`
}

// Installment is one recorded EMI payment.
type Installment struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	PaymentDate time.Time       `json:"payment_date"`
	Note        string          `json:"note,omitempty"`
}

// EMIDetails is the instalment plan attached to an EMI or Mixed invoice.
type EMIDetails struct {
	RateOfInterest     decimal.Decimal `json:"rate_of_interest"`
	TenureMonths       int             `json:"tenure_months"`
	DownPayment        decimal.Decimal `json:"down_payment"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	NextDueDate        time.Time       `json:"next_due_date"`
	Installments       []Installment   `json:"installments"`
}

// TotalPayable returns principal plus flat interest for the plan.
func (e *EMIDetails) TotalPayable(grandTotal decimal.Decimal) decimal.Decimal {
	interest := grandTotal.Mul(e.RateOfInterest).Div(decimal.NewFromInt(100))
	return grandTotal.Add(interest)
}

// MonthsPaid counts recorded installments, excluding the down payment.
func (e *EMIDetails) MonthsPaid() int {
	n := 0
	for _, inst := range e.Installments {
		if inst.Note != InstallmentNoteDownPayment {
			n++
		}
	}
	return n
}

// ValidStatus reports whether s is a recognised invoice status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPaid, StatusPartial, StatusPending, StatusCancelled, StatusEMIActive, StatusEMICompleted:
		return true
	}
	return false
}
