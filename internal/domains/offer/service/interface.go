package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/offer/model"
)

// ResolverInterface resolves the best promotional price for a product line.
// Resolution is read-only and safe to call speculatively (cart previews).
type ResolverInterface interface {
	Resolve(ctx context.Context, productID uuid.UUID, category string, price decimal.Decimal, quantity int, asOf time.Time) (model.Quote, error)
}

// ServiceInterface defines offer business logic.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateOfferRequest) (*model.Offer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	List(ctx context.Context) ([]model.Offer, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateOfferRequest) (*model.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
