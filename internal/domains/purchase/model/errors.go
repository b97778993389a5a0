package model

import (
	"errors"
	"fmt"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodePurchaseNotFound = "PUR001"
	ErrCodeEmptyPurchase    = "PUR002"
	ErrCodeNewProductFields = "PUR003"
	ErrCodeBuyBackNotFound  = "PUR004"
	ErrCodeIMEIAlreadyHeld  = "PUR005"
	ErrCodeInvalidSeller    = "PUR006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrPurchaseNotFound      = errors.New("purchase not found")
	ErrEmptyPurchase         = errors.New("purchase has no items")
	ErrBuyBackNotFound       = errors.New("buy-back record not found")
	ErrInvalidSellerPhone    = errors.New("seller phone number must be exactly 10 digits")
	ErrInvalidBuyBackState   = errors.New("invalid buy-back status")
	ErrInvalidPurchaseStatus = errors.New("invalid purchase status")
	ErrSoldToRequired        = errors.New("customer details are required when marking as sold")
	ErrInvalidIMEIs          = errors.New("mobile or tablet buy-back requires 15-digit IMEIs")
)

// NewProductFieldsError is returned when an intake line introduces a product
// the catalog does not know but omits the fields needed to create it.
type NewProductFieldsError struct {
	Name string
}

func (e *NewProductFieldsError) Error() string {
	name := e.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("new product '%s' requires brand and selling price", name)
}

// IMEIAlreadyHeldError is returned when a buy-back offers serials the shop
// already holds from an earlier buy-back.
type IMEIAlreadyHeldError struct {
	IMEIs []string
}

func (e *IMEIAlreadyHeldError) Error() string {
	return fmt.Sprintf("one or more IMEIs already exist in a second-hand purchase: %v", e.IMEIs)
}
