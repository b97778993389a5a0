package model

import "errors"

const (
	ErrCodeOfferNotFound = "OFR001"
	ErrCodeInvalidOffer  = "OFR002"
)

var (
	ErrOfferNotFound       = errors.New("offer not found")
	ErrInvalidOfferType    = errors.New("invalid offer type")
	ErrInvalidDiscountType = errors.New("invalid discount type")
	ErrTargetRequired      = errors.New("target id is required for product and category offers")
	ErrEndBeforeStart      = errors.New("end date cannot be before start date")
)
