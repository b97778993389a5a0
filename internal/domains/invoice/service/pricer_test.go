package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneshop-backend/internal/domains/invoice/model"
	offermodel "phoneshop-backend/internal/domains/offer/model"
	productmodel "phoneshop-backend/internal/domains/product/model"
	productrepo "phoneshop-backend/internal/domains/product/repository"
)

// =====================================================
// FAKES
// =====================================================

// fakeProductRepo serves products from a map keyed by id.
type fakeProductRepo struct {
	products map[uuid.UUID]*productmodel.Product

	decrements []struct {
		ID       uuid.UUID
		Quantity int
		IMEIs    []string
	}
}

func newFakeProductRepo(products ...*productmodel.Product) *fakeProductRepo {
	m := make(map[uuid.UUID]*productmodel.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (f *fakeProductRepo) Create(ctx context.Context, p *productmodel.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*productmodel.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productmodel.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(ctx context.Context, filter productrepo.ListFilter) ([]productmodel.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *productmodel.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }
func (f *fakeProductRepo) ListLowStock(ctx context.Context) ([]productmodel.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) DecrementStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string) error {
	p, ok := f.products[id]
	if !ok {
		return productmodel.ErrProductNotFound
	}
	if p.StockQuantity < quantity {
		return productmodel.NewInsufficientStockError(p.Name, p.StockQuantity, quantity)
	}
	p.StockQuantity -= quantity
	f.decrements = append(f.decrements, struct {
		ID       uuid.UUID
		Quantity int
		IMEIs    []string
	}{id, quantity, imeis})
	return nil
}

func (f *fakeProductRepo) AddStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string, purchasePrice *decimal.Decimal) error {
	p, ok := f.products[id]
	if !ok {
		return productmodel.ErrProductNotFound
	}
	p.StockQuantity += quantity
	return nil
}

// fakeResolver returns a fixed quote, or the input price untouched when no
// discount is configured.
type fakeResolver struct {
	discount  decimal.Decimal
	offerName string
	calls     int
}

func (f *fakeResolver) Resolve(ctx context.Context, productID uuid.UUID, category string, price decimal.Decimal, quantity int, asOf time.Time) (offermodel.Quote, error) {
	f.calls++
	if f.discount.IsZero() {
		return offermodel.Quote{Price: price, Discount: decimal.Zero}, nil
	}
	return offermodel.Quote{
		Price:     price.Sub(f.discount),
		Discount:  f.discount,
		OfferName: f.offerName,
	}, nil
}

// =====================================================
// HELPERS
// =====================================================

func handset(name string, price int64, stock int, simType string) *productmodel.Product {
	return &productmodel.Product{
		ID:            uuid.New(),
		Name:          name,
		Brand:         "Acme",
		Category:      productmodel.CategoryMobilePhones,
		TrackIMEI:     true,
		SIMType:       simType,
		SellingPrice:  decimal.NewFromInt(price),
		PurchasePrice: decimal.NewFromInt(price - 2000),
		GSTPercent:    decimal.NewFromInt(18), // deliberately wrong, must be pinned
		StockQuantity: stock,
	}
}

func accessory(name, category string, price int64, gst int64, stock int) *productmodel.Product {
	return &productmodel.Product{
		ID:            uuid.New(),
		Name:          name,
		Category:      category,
		TrackIMEI:     false,
		SIMType:       productmodel.SIMTypeNone,
		SellingPrice:  decimal.NewFromInt(price),
		GSTPercent:    decimal.NewFromInt(gst),
		StockQuantity: stock,
	}
}

func requirePriced(t *testing.T, pricer *Pricer, item model.InvoiceItemRequest) PricedLine {
	t.Helper()
	priced, err := pricer.PriceLine(context.Background(), item, time.Now())
	require.NoError(t, err)
	return priced
}

// =====================================================
// TESTS
// =====================================================

func TestPriceCatalogLineMobileGSTPinned(t *testing.T) {
	phone := handset("Galaxy S24", 22400, 5, productmodel.SIMTypeSingle)
	pricer := NewPricer(newFakeProductRepo(phone), &fakeResolver{})

	priced := requirePriced(t, pricer, model.InvoiceItemRequest{
		ProductID: &phone.ID,
		Quantity:  1,
		IMEI:      []string{"123456789012345"},
	})
	line := priced.Line

	// handsets are always 12% regardless of the catalog's 18%
	assert.True(t, line.GSTPercent.Equal(decimal.NewFromInt(12)))

	// 22400 inclusive of 12%: taxable 20000, GST 2400 split evenly
	assert.True(t, line.Total.Equal(decimal.NewFromInt(22400)), "total = %s", line.Total)
	assert.True(t, line.TaxableValue.Equal(decimal.NewFromInt(20000)), "taxable = %s", line.TaxableValue)
	assert.True(t, line.GSTAmount.Equal(decimal.NewFromInt(2400)), "gst = %s", line.GSTAmount)
	assert.True(t, line.CGST.Equal(decimal.NewFromInt(1200)))
	assert.True(t, line.SGST.Equal(decimal.NewFromInt(1200)))

	require.NotNil(t, priced.Intent)
	assert.Equal(t, phone.ID, priced.Intent.ProductID)
	assert.Equal(t, 1, priced.Intent.Quantity)
	assert.Equal(t, []string{"123456789012345"}, priced.Intent.IMEIs)
}

func TestPriceCatalogLineClientRateIgnoredForHandsets(t *testing.T) {
	phone := handset("Pixel 9", 11200, 3, productmodel.SIMTypeSingle)
	pricer := NewPricer(newFakeProductRepo(phone), &fakeResolver{})

	five := decimal.NewFromInt(5)
	priced := requirePriced(t, pricer, model.InvoiceItemRequest{
		ProductID:  &phone.ID,
		Quantity:   1,
		GSTPercent: &five,
		IMEI:       []string{"490154203237518"},
	})

	assert.True(t, priced.Line.GSTPercent.Equal(decimal.NewFromInt(12)))
}

func TestPriceCatalogLineClientRateHonouredForAccessories(t *testing.T) {
	charger := accessory("Fast Charger", productmodel.CategoryChargers, 1180, 18, 10)
	pricer := NewPricer(newFakeProductRepo(charger), &fakeResolver{})

	tests := []struct {
		name       string
		clientRate *decimal.Decimal
		wantRate   decimal.Decimal
	}{
		{"catalog rate by default", nil, decimal.NewFromInt(18)},
		{"client override within bounds", decPtr(5), decimal.NewFromInt(5)},
		{"negative clamps to zero", decPtr(-3), decimal.Zero},
		{"over 100 clamps to 100", decPtr(250), decimal.NewFromInt(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priced := requirePriced(t, pricer, model.InvoiceItemRequest{
				ProductID:  &charger.ID,
				Quantity:   1,
				GSTPercent: tt.clientRate,
			})
			assert.True(t, priced.Line.GSTPercent.Equal(tt.wantRate),
				"rate = %s, want %s", priced.Line.GSTPercent, tt.wantRate)
		})
	}
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestPriceCatalogLineInsufficientStock(t *testing.T) {
	phone := handset("iPhone 15", 60000, 1, productmodel.SIMTypeSingle)
	pricer := NewPricer(newFakeProductRepo(phone), &fakeResolver{})

	_, err := pricer.PriceLine(context.Background(), model.InvoiceItemRequest{
		ProductID: &phone.ID,
		Quantity:  2,
		IMEI:      []string{"a", "b"},
	}, time.Now())

	var stockErr *productmodel.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "iPhone 15", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)
}

func TestPriceCatalogLineIMEICount(t *testing.T) {
	tests := []struct {
		name     string
		simType  string
		quantity int
		imeis    []string
		wantErr  bool
		expected int
	}{
		{"single sim exact", productmodel.SIMTypeSingle, 2, []string{"111", "222"}, false, 2},
		{"dual sim needs two per unit", productmodel.SIMTypeDual, 2, []string{"111", "222", "333"}, true, 4},
		{"dual sim exact", productmodel.SIMTypeDual, 2, []string{"111", "222", "333", "444"}, false, 4},
		{"blanks and duplicates collapse", productmodel.SIMTypeSingle, 1, []string{" 111 ", "111", ""}, false, 1},
		{"missing serials", productmodel.SIMTypeSingle, 1, nil, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone := handset("Redmi Note", 10000, 10, tt.simType)
			pricer := NewPricer(newFakeProductRepo(phone), &fakeResolver{})

			priced, err := pricer.PriceLine(context.Background(), model.InvoiceItemRequest{
				ProductID: &phone.ID,
				Quantity:  tt.quantity,
				IMEI:      tt.imeis,
			}, time.Now())

			if tt.wantErr {
				var mismatch *model.IMEIMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, tt.expected, mismatch.Expected)
				return
			}
			require.NoError(t, err)
			assert.Len(t, priced.Line.IMEI, tt.expected)
		})
	}
}

func TestPriceCatalogLineUntrackedIgnoresSerials(t *testing.T) {
	cable := accessory("USB-C Cable", productmodel.CategoryCables, 299, 18, 50)
	pricer := NewPricer(newFakeProductRepo(cable), &fakeResolver{})

	priced := requirePriced(t, pricer, model.InvoiceItemRequest{
		ProductID: &cable.ID,
		Quantity:  3,
		IMEI:      []string{"whatever"},
	})

	assert.Empty(t, priced.Line.IMEI)
}

func TestPriceCatalogLineOverrideSkipsOffers(t *testing.T) {
	phone := handset("OnePlus 12", 30000, 5, productmodel.SIMTypeSingle)
	resolver := &fakeResolver{discount: decimal.NewFromInt(2000), offerName: "Festival"}
	pricer := NewPricer(newFakeProductRepo(phone), resolver)

	override := decimal.NewFromInt(28500)
	priced := requirePriced(t, pricer, model.InvoiceItemRequest{
		ProductID: &phone.ID,
		Quantity:  1,
		Price:     &override,
		IMEI:      []string{"356938035643809"},
	})

	assert.Equal(t, 0, resolver.calls, "resolver must not run when the price is overridden")
	assert.True(t, priced.Line.Price.Equal(override))
	assert.Empty(t, priced.Line.OfferApplied)
	assert.True(t, priced.Line.OriginalPrice.Equal(decimal.NewFromInt(30000)))
}

func TestPriceCatalogLineOfferApplied(t *testing.T) {
	phone := handset("Moto G", 12000, 5, productmodel.SIMTypeSingle)
	resolver := &fakeResolver{discount: decimal.NewFromInt(1000), offerName: "Clearance"}
	pricer := NewPricer(newFakeProductRepo(phone), resolver)

	priced := requirePriced(t, pricer, model.InvoiceItemRequest{
		ProductID: &phone.ID,
		Quantity:  1,
		IMEI:      []string{"352099001761481"},
	})

	assert.Equal(t, "Clearance", priced.Line.OfferApplied)
	assert.True(t, priced.Line.Price.Equal(decimal.NewFromInt(11000)))
	assert.True(t, priced.Line.Total.Equal(decimal.NewFromInt(11000)))
}

func TestPriceLineDiscountFloorsTotalAtZero(t *testing.T) {
	cable := accessory("Aux Cable", productmodel.CategoryCables, 100, 18, 10)
	pricer := NewPricer(newFakeProductRepo(cable), &fakeResolver{})

	priced := requirePriced(t, pricer, model.InvoiceItemRequest{
		ProductID: &cable.ID,
		Quantity:  1,
		Discount:  decimal.NewFromInt(500),
	})

	assert.True(t, priced.Line.Total.IsZero())
	assert.True(t, priced.Line.TaxableValue.IsZero())
	assert.True(t, priced.Line.GSTAmount.IsZero())
}

func TestPriceAdHocLine(t *testing.T) {
	pricer := NewPricer(newFakeProductRepo(), &fakeResolver{})

	price := decimal.NewFromInt(590)
	priced := requirePriced(t, pricer, model.InvoiceItemRequest{
		Name:     "Tempered Glass (loose)",
		Quantity: 2,
		Price:    &price,
	})
	line := priced.Line

	assert.Nil(t, priced.Intent, "ad-hoc lines never touch stock")
	assert.Nil(t, line.ProductID)
	assert.Equal(t, productmodel.CategoryOthers, line.Category)
	assert.True(t, line.GSTPercent.Equal(decimal.NewFromInt(18)))
	assert.True(t, line.Total.Equal(decimal.NewFromInt(1180)))
	assert.True(t, line.TaxableValue.Equal(decimal.NewFromInt(1000)))
}

func TestPriceLineUnknownProduct(t *testing.T) {
	pricer := NewPricer(newFakeProductRepo(), &fakeResolver{})

	missing := uuid.New()
	_, err := pricer.PriceLine(context.Background(), model.InvoiceItemRequest{
		ProductID: &missing,
		Quantity:  1,
	}, time.Now())

	require.True(t, errors.Is(err, productmodel.ErrProductNotFound))
}
