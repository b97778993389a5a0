package model

import "errors"

const (
	ErrCodeCustomerNotFound = "CUS001"
	ErrCodeDuplicateMobile  = "CUS002"
	ErrCodeInvalidMobile    = "CUS003"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrDuplicateMobile  = errors.New("customer with this mobile number already exists")
	ErrInvalidMobile    = errors.New("mobile number must be 10 digits and start with 6, 7, 8, or 9")
)
