package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Indian mobile numbers: 10 digits starting 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// NormalizeMobile trims whitespace from a raw mobile number. The stored form
// is always the normalized one, so lookups by mobile are exact matches.
func NormalizeMobile(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidMobile reports whether the (normalized) mobile number is acceptable.
func ValidMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

// CreateCustomerRequest - request to register a customer
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	IDProof string `json:"id_proof"`
}

// Validate validates CreateCustomerRequest
func (r CreateCustomerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Mobile, validation.Required, validation.By(mobileRule)),
	)
}

func mobileRule(value interface{}) error {
	s, _ := value.(string)
	if !ValidMobile(NormalizeMobile(s)) {
		return ErrInvalidMobile
	}
	return nil
}

// ToEntity converts the request into a Customer entity.
func (r CreateCustomerRequest) ToEntity() *Customer {
	now := time.Now()
	return &Customer{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(r.Name),
		Mobile:             NormalizeMobile(r.Mobile),
		Address:            strings.TrimSpace(r.Address),
		IDProof:            strings.TrimSpace(r.IDProof),
		PurchaseHistory:    []uuid.UUID{},
		OutstandingBalance: decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// UpdateCustomerRequest - partial update for a customer
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Mobile  *string `json:"mobile"`
	Address *string `json:"address"`
	IDProof *string `json:"id_proof"`
}

// Validate validates UpdateCustomerRequest
func (r UpdateCustomerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Mobile, validation.By(optionalMobileRule)),
	)
}

func optionalMobileRule(value interface{}) error {
	p, _ := value.(*string)
	if p == nil {
		return nil
	}
	if !ValidMobile(NormalizeMobile(*p)) {
		return ErrInvalidMobile
	}
	return nil
}

// Apply copies the provided fields onto the customer.
func (r UpdateCustomerRequest) Apply(c *Customer) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Mobile != nil {
		c.Mobile = NormalizeMobile(*r.Mobile)
	}
	if r.Address != nil {
		c.Address = strings.TrimSpace(*r.Address)
	}
	if r.IDProof != nil {
		c.IDProof = strings.TrimSpace(*r.IDProof)
	}
	c.UpdatedAt = time.Now()
}
