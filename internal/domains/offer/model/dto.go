package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOfferRequest - request to create a promotional rule
type CreateOfferRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	OfferType     string          `json:"offer_type"`
	TargetID      string          `json:"target_id"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinQuantity   *int            `json:"min_quantity"`
	StartDate     *time.Time      `json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
	IsActive      *bool           `json:"is_active"`
}

// Validate validates CreateOfferRequest
func (r CreateOfferRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.OfferType,
			validation.Required,
			validation.In(OfferTypeProduct, OfferTypeCategory, OfferTypeAll).Error(ErrInvalidOfferType.Error()),
		),
		validation.Field(&r.DiscountType,
			validation.Required,
			validation.In(DiscountTypePercentage, DiscountTypeFixed).Error(ErrInvalidDiscountType.Error()),
		),
		validation.Field(&r.DiscountValue,
			validation.By(positiveDiscountRule),
			validation.By(r.percentageRule),
		),
		validation.Field(&r.TargetID, validation.By(r.targetRule)),
		validation.Field(&r.EndDate, validation.By(r.dateRule)),
	)
}

// decimal.Decimal is a struct, out of reach of ozzo's numeric Min rule.
func positiveDiscountRule(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return validation.NewError("validation_discount_positive", "discount value must be greater than 0")
	}
	return nil
}

func (r CreateOfferRequest) targetRule(interface{}) error {
	if r.OfferType != OfferTypeAll && strings.TrimSpace(r.TargetID) == "" {
		return ErrTargetRequired
	}
	return nil
}

func (r CreateOfferRequest) dateRule(interface{}) error {
	if r.EndDate == nil {
		return nil
	}
	start := time.Now()
	if r.StartDate != nil {
		start = *r.StartDate
	}
	if r.EndDate.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}

func (r CreateOfferRequest) percentageRule(interface{}) error {
	if r.DiscountType == DiscountTypePercentage && r.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return validation.NewError("validation_percentage_range", "percentage discount cannot exceed 100%")
	}
	return nil
}

// ToEntity converts the request into an Offer with defaults applied.
func (r CreateOfferRequest) ToEntity() *Offer {
	minQty := 1
	if r.MinQuantity != nil && *r.MinQuantity > 1 {
		minQty = *r.MinQuantity
	}

	start := time.Now()
	if r.StartDate != nil {
		start = *r.StartDate
	}

	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	target := strings.TrimSpace(r.TargetID)
	if r.OfferType == OfferTypeAll {
		target = TargetAll
	}

	return &Offer{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(r.Name),
		Description:   strings.TrimSpace(r.Description),
		OfferType:     r.OfferType,
		TargetID:      target,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		MinQuantity:   minQty,
		StartDate:     start,
		EndDate:       r.EndDate,
		IsActive:      active,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// UpdateOfferRequest - partial update for an offer
type UpdateOfferRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	OfferType     *string          `json:"offer_type"`
	TargetID      *string          `json:"target_id"`
	DiscountType  *string          `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	MinQuantity   *int             `json:"min_quantity"`
	StartDate     *time.Time       `json:"start_date"`
	EndDate       *time.Time       `json:"end_date"`
	IsActive      *bool            `json:"is_active"`
}

// Validate validates UpdateOfferRequest
func (r UpdateOfferRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.OfferType,
			validation.In(OfferTypeProduct, OfferTypeCategory, OfferTypeAll).Error(ErrInvalidOfferType.Error()),
		),
		validation.Field(&r.DiscountType,
			validation.In(DiscountTypePercentage, DiscountTypeFixed).Error(ErrInvalidDiscountType.Error()),
		),
	)
}

// Apply copies set fields onto the offer.
func (r UpdateOfferRequest) Apply(o *Offer) {
	if r.Name != nil {
		o.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		o.Description = strings.TrimSpace(*r.Description)
	}
	if r.OfferType != nil {
		o.OfferType = *r.OfferType
		if o.OfferType == OfferTypeAll {
			o.TargetID = TargetAll
		}
	}
	if r.TargetID != nil && o.OfferType != OfferTypeAll {
		o.TargetID = strings.TrimSpace(*r.TargetID)
	}
	if r.DiscountType != nil {
		o.DiscountType = *r.DiscountType
	}
	if r.DiscountValue != nil {
		o.DiscountValue = *r.DiscountValue
	}
	if r.MinQuantity != nil && *r.MinQuantity >= 1 {
		o.MinQuantity = *r.MinQuantity
	}
	if r.StartDate != nil {
		o.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		o.EndDate = r.EndDate
	}
	if r.IsActive != nil {
		o.IsActive = *r.IsActive
	}
	o.UpdatedAt = time.Now()
}

// Quote is the result of offer resolution for one line: the effective unit
// price after the best matching offer, the per-unit discount taken, and the
// name of the applied offer when one matched.
type Quote struct {
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	OfferName string          `json:"offer_name,omitempty"`
}
