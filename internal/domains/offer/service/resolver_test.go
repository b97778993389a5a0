package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneshop-backend/internal/domains/offer/model"
)

// fakeOfferRepo serves offers from memory, filtered and ordered the way the
// SQL repository does.
type fakeOfferRepo struct {
	offers []model.Offer
}

func (f *fakeOfferRepo) Create(ctx context.Context, offer *model.Offer) error { return nil }
func (f *fakeOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	return nil, model.ErrOfferNotFound
}
func (f *fakeOfferRepo) List(ctx context.Context) ([]model.Offer, error)  { return f.offers, nil }
func (f *fakeOfferRepo) Update(ctx context.Context, o *model.Offer) error { return nil }
func (f *fakeOfferRepo) Delete(ctx context.Context, id uuid.UUID) error   { return nil }

func (f *fakeOfferRepo) FindEligible(ctx context.Context, offerType, targetID string, quantity int, asOf time.Time) ([]model.Offer, error) {
	matched := []model.Offer{}
	for _, o := range f.offers {
		if o.OfferType != offerType || o.TargetID != targetID {
			continue
		}
		if o.EligibleAt(asOf, quantity) {
			matched = append(matched, o)
		}
	}
	// min_quantity DESC, as the SQL orders it
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].MinQuantity > matched[i].MinQuantity {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}
	return matched, nil
}

func percentOffer(name, offerType, target string, percent int64, minQty int) model.Offer {
	return model.Offer{
		ID:            uuid.New(),
		Name:          name,
		OfferType:     offerType,
		TargetID:      target,
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(percent),
		MinQuantity:   minQty,
		StartDate:     time.Now().Add(-24 * time.Hour),
		IsActive:      true,
	}
}

func fixedOffer(name, offerType, target string, amount int64, minQty int) model.Offer {
	o := percentOffer(name, offerType, target, 0, minQty)
	o.DiscountType = model.DiscountTypeFixed
	o.DiscountValue = decimal.NewFromInt(amount)
	return o
}

func TestResolverScopePrecedence(t *testing.T) {
	productID := uuid.New()

	repo := &fakeOfferRepo{offers: []model.Offer{
		percentOffer("Storewide 5", model.OfferTypeAll, model.TargetAll, 5, 1),
		percentOffer("Accessories 10", model.OfferTypeCategory, "Accessories", 10, 1),
		percentOffer("Product 20", model.OfferTypeProduct, productID.String(), 20, 1),
	}}
	resolver := NewResolver(repo)

	price := decimal.NewFromInt(1000)
	quote, err := resolver.Resolve(context.Background(), productID, "Accessories", price, 1, time.Now())
	require.NoError(t, err)

	// the product-scoped offer wins over category and storewide
	assert.Equal(t, "Product 20", quote.OfferName)
	assert.True(t, quote.Discount.Equal(decimal.NewFromInt(200)), "discount = %s", quote.Discount)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(800)), "price = %s", quote.Price)
}

func TestResolverFallsThroughScopes(t *testing.T) {
	productID := uuid.New()

	repo := &fakeOfferRepo{offers: []model.Offer{
		percentOffer("Storewide 5", model.OfferTypeAll, model.TargetAll, 5, 1),
		percentOffer("Chargers 10", model.OfferTypeCategory, "Chargers", 10, 1),
	}}
	resolver := NewResolver(repo)

	price := decimal.NewFromInt(500)

	quote, err := resolver.Resolve(context.Background(), productID, "Chargers", price, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Chargers 10", quote.OfferName)

	quote, err = resolver.Resolve(context.Background(), productID, "Earphones", price, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Storewide 5", quote.OfferName)
}

func TestResolverQuantityBreakTieBreak(t *testing.T) {
	productID := uuid.New()

	repo := &fakeOfferRepo{offers: []model.Offer{
		percentOffer("Single unit 5", model.OfferTypeProduct, productID.String(), 5, 1),
		percentOffer("Bulk 15", model.OfferTypeProduct, productID.String(), 15, 5),
	}}
	resolver := NewResolver(repo)

	price := decimal.NewFromInt(100)

	// qty 5 satisfies both tiers; the higher quantity break must win
	quote, err := resolver.Resolve(context.Background(), productID, "Accessories", price, 5, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bulk 15", quote.OfferName)

	// qty 2 only satisfies the single-unit tier
	quote, err = resolver.Resolve(context.Background(), productID, "Accessories", price, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Single unit 5", quote.OfferName)
}

func TestResolverDateWindow(t *testing.T) {
	productID := uuid.New()
	now := time.Now()

	expired := percentOffer("Expired", model.OfferTypeProduct, productID.String(), 50, 1)
	end := now.Add(-time.Hour)
	expired.EndDate = &end

	future := percentOffer("Future", model.OfferTypeProduct, productID.String(), 50, 1)
	future.StartDate = now.Add(time.Hour)

	inactive := percentOffer("Inactive", model.OfferTypeProduct, productID.String(), 50, 1)
	inactive.IsActive = false

	repo := &fakeOfferRepo{offers: []model.Offer{expired, future, inactive}}
	resolver := NewResolver(repo)

	quote, err := resolver.Resolve(context.Background(), productID, "Accessories", decimal.NewFromInt(100), 1, now)
	require.NoError(t, err)
	assert.Empty(t, quote.OfferName)
	assert.True(t, quote.Discount.IsZero())
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(100)))
}

func TestResolverFixedDiscountClampedToPrice(t *testing.T) {
	productID := uuid.New()

	repo := &fakeOfferRepo{offers: []model.Offer{
		fixedOffer("Big fixed", model.OfferTypeProduct, productID.String(), 900, 1),
	}}
	resolver := NewResolver(repo)

	price := decimal.NewFromInt(300)
	quote, err := resolver.Resolve(context.Background(), productID, "Accessories", price, 1, time.Now())
	require.NoError(t, err)

	// a 900 discount on a 300 item floors the price at zero, never below
	assert.True(t, quote.Discount.Equal(price), "discount = %s", quote.Discount)
	assert.True(t, quote.Price.IsZero(), "price = %s", quote.Price)
}

func TestResolverNoOffersReturnsInputPrice(t *testing.T) {
	resolver := NewResolver(&fakeOfferRepo{})

	price := decimal.NewFromFloat(1499.50)
	quote, err := resolver.Resolve(context.Background(), uuid.New(), "Cables", price, 3, time.Now())
	require.NoError(t, err)

	assert.True(t, quote.Price.Equal(price))
	assert.True(t, quote.Discount.IsZero())
	assert.Empty(t, quote.OfferName)
}
