package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/offer/model"
	"phoneshop-backend/internal/domains/offer/repository"
)

// Resolver finds the single best-matching active offer for a line and
// returns the adjusted unit price. Scope precedence is fixed: an offer
// targeting the exact product beats a category offer, which beats a
// shop-wide one. Within a scope the highest satisfied quantity break wins,
// so a bulk discount is never shadowed by a lower tier.
type Resolver struct {
	offerRepo repository.OfferRepository
}

// NewResolver creates a new offer resolver
func NewResolver(offerRepo repository.OfferRepository) ResolverInterface {
	return &Resolver{offerRepo: offerRepo}
}

// Resolve implements ResolverInterface. It never mutates state; with no
// matching offer the input price comes back unchanged with zero discount.
func (r *Resolver) Resolve(ctx context.Context, productID uuid.UUID, category string, price decimal.Decimal, quantity int, asOf time.Time) (model.Quote, error) {
	noOffer := model.Quote{Price: price, Discount: decimal.Zero}

	if price.LessThanOrEqual(decimal.Zero) {
		return noOffer, nil
	}
	if quantity < 1 {
		quantity = 1
	}

	scopes := []struct {
		offerType string
		targetID  string
	}{
		{model.OfferTypeProduct, productID.String()},
		{model.OfferTypeCategory, category},
		{model.OfferTypeAll, model.TargetAll},
	}

	for _, scope := range scopes {
		if scope.targetID == "" || (scope.offerType == model.OfferTypeProduct && productID == uuid.Nil) {
			continue
		}

		offers, err := r.offerRepo.FindEligible(ctx, scope.offerType, scope.targetID, quantity, asOf)
		if err != nil {
			return noOffer, err
		}

		for i := range offers {
			offer := &offers[i]
			// FindEligible pre-filters, but the window check is repeated
			// here so a cached or stale row can never slip through.
			if !offer.EligibleAt(asOf, quantity) {
				continue
			}

			discount := offer.DiscountOn(price)
			return model.Quote{
				Price:     price.Sub(discount),
				Discount:  discount,
				OfferName: offer.Name,
			}, nil
		}
	}

	return noOffer, nil
}
