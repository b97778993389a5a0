package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/offer/model"
)

// OfferRepository defines offer data access.
type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	List(ctx context.Context) ([]model.Offer, error)
	Update(ctx context.Context, offer *model.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindEligible returns the active offers of one scope whose quantity
	// break and date window admit the given purchase, ordered by
	// min_quantity descending so the best quantity break comes first.
	FindEligible(ctx context.Context, offerType, targetID string, quantity int, asOf time.Time) ([]model.Offer, error)
}
