package model

import (
	"errors"
	"fmt"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeInvoiceNotFound  = "INV001"
	ErrCodeEmptyCart        = "INV002"
	ErrCodeIMEIMismatch     = "INV003"
	ErrCodeDuplicateNumber  = "INV004"
	ErrCodeEMINotFound      = "INV005"
	ErrCodeInvalidPayment   = "INV006"
	ErrCodeNumberingExhaust = "INV007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrInvoiceNotFound         = errors.New("invoice not found")
	ErrEmptyCart               = errors.New("invoice has no items")
	ErrCustomerContactRequired = errors.New("customer name and mobile are required")
	ErrEMINotFound             = errors.New("emi details not found for this invoice")
	ErrDuplicateInvoiceNumber  = errors.New("invoice number already exists")
	ErrInvalidPaymentMode      = errors.New("invalid payment mode")
	ErrInvalidStatus           = errors.New("invalid invoice status")
	ErrInvalidInstallment      = errors.New("installment amount must be positive")
)

// IMEIMismatchError is returned when the serials supplied for a tracked
// line do not match the count the SIM slot layout demands.
type IMEIMismatchError struct {
	ProductName string
	Quantity    int
	SIMType     string
	Expected    int
	Received    int
}

func (e *IMEIMismatchError) Error() string {
	return fmt.Sprintf("IMEI mismatch: expected %d IMEIs for %s (qty: %d, type: %s), got %d",
		e.Expected, e.ProductName, e.Quantity, e.SIMType, e.Received)
}

// NewIMEIMismatchError creates a new IMEIMismatchError
func NewIMEIMismatchError(name string, quantity int, simType string, expected, received int) *IMEIMismatchError {
	return &IMEIMismatchError{
		ProductName: name,
		Quantity:    quantity,
		SIMType:     simType,
		Expected:    expected,
		Received:    received,
	}
}
