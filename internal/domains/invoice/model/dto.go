package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one cart line. ProductID nil means an ad-hoc line
// (services, unlisted accessories) that never touches stock.
type InvoiceItemRequest struct {
	ProductID  *uuid.UUID       `json:"product_id"`
	Name       string           `json:"name"`
	Category   string           `json:"category"`
	Quantity   int              `json:"quantity"`
	Price      *decimal.Decimal `json:"price"`    // unit price override; nil = catalog/offer price
	Discount   decimal.Decimal  `json:"discount"` // total manual discount for the line
	GSTPercent *decimal.Decimal `json:"gst_percent"`
	IMEI       []string         `json:"imei"`
}

// Validate validates InvoiceItemRequest
func (r InvoiceItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		// ad-hoc lines need a name and a price; catalog lines snapshot both
		validation.Field(&r.Name, validation.Required.When(r.ProductID == nil)),
		validation.Field(&r.Price, validation.Required.When(r.ProductID == nil)),
	)
}

// MixedPaymentRequest is one leg of a split tender.
type MixedPaymentRequest struct {
	Mode   string          `json:"mode"`
	Amount decimal.Decimal `json:"amount"`
}

// Validate validates MixedPaymentRequest
func (r MixedPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mode, validation.Required, validation.In(PaymentCash, PaymentUPI, PaymentCard)),
	)
}

// EMIPlanRequest carries either a trusted pre-computed plan (MonthlyInstallment
// set) or the inputs for a computed one.
type EMIPlanRequest struct {
	RateOfInterest     decimal.Decimal  `json:"rate_of_interest"`
	TenureMonths       int              `json:"tenure_months"`
	DownPayment        decimal.Decimal  `json:"down_payment"`
	MonthlyInstallment *decimal.Decimal `json:"monthly_installment"`
	TotalPaid          *decimal.Decimal `json:"total_paid"`
	NextDueDate        *time.Time       `json:"next_due_date"`
	Installments       []Installment    `json:"installments"`
}

// CreateInvoiceRequest - request to settle a cart into an invoice
type CreateInvoiceRequest struct {
	CustomerName    string                `json:"customer_name"`
	CustomerMobile  string                `json:"customer_mobile"`
	CustomerAddress string                `json:"customer_address"`
	Items           []InvoiceItemRequest  `json:"items"`
	Discount        decimal.Decimal       `json:"discount"`
	DiscountType    string                `json:"discount_type"` // Fixed | Percentage
	PaymentMode     string                `json:"payment_mode"`
	PaymentDetails  string                `json:"payment_details"`
	Status          string                `json:"status"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	MixedPayments   []MixedPaymentRequest `json:"mixed_payments"`
	EMI             *EMIPlanRequest       `json:"emi_details"`
}

// Validate validates CreateInvoiceRequest
func (r CreateInvoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomerName, validation.Required),
		validation.Field(&r.CustomerMobile, validation.Required),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.DiscountType, validation.In(DiscountFixed, DiscountPercentage)),
		validation.Field(&r.PaymentMode,
			validation.In(PaymentCash, PaymentUPI, PaymentCard, PaymentMixed, PaymentEMI),
		),
		validation.Field(&r.Status, validation.By(statusRule)),
	)
}

func statusRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !ValidStatus(s) {
		return ErrInvalidStatus
	}
	return nil
}

// PayEMIRequest records one EMI installment against an invoice.
type PayEMIRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	Note        string          `json:"note"`
}

// Validate validates PayEMIRequest
func (r PayEMIRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmountRule)),
	)
}

func positiveAmountRule(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidInstallment
	}
	return nil
}
