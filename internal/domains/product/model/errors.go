package model

import (
	"errors"
	"fmt"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeProductNotFound   = "PRD001"
	ErrCodeInsufficientStock = "PRD002"
	ErrCodeInvalidCategory   = "PRD003"
	ErrCodeDuplicateIMEI     = "PRD004"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid product category")
	ErrDuplicateIMEI   = errors.New("imei already registered")
)

// InsufficientStockError is returned when a conditional stock decrement
// cannot be satisfied. It names the product and both quantities so callers
// can report the conflict verbatim.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(name string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductName: name,
		Available:   available,
		Requested:   requested,
	}
}
