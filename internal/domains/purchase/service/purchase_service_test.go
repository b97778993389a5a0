package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productmodel "phoneshop-backend/internal/domains/product/model"
	productrepo "phoneshop-backend/internal/domains/product/repository"
	"phoneshop-backend/internal/domains/purchase/model"
)

// fakeCatalog implements the product repository over a map and records
// stock additions.
type fakeCatalog struct {
	products map[uuid.UUID]*productmodel.Product

	additions []struct {
		ID       uuid.UUID
		Quantity int
		IMEIs    []string
	}
}

func newFakeCatalog(products ...*productmodel.Product) *fakeCatalog {
	m := make(map[uuid.UUID]*productmodel.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeCatalog{products: m}
}

func (f *fakeCatalog) Create(ctx context.Context, p *productmodel.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id uuid.UUID) (*productmodel.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productmodel.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) List(ctx context.Context, filter productrepo.ListFilter) ([]productmodel.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeCatalog) Update(ctx context.Context, p *productmodel.Product) error { return nil }
func (f *fakeCatalog) Delete(ctx context.Context, id uuid.UUID) error            { return nil }
func (f *fakeCatalog) ListLowStock(ctx context.Context) ([]productmodel.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) DecrementStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string) error {
	return nil
}

func (f *fakeCatalog) AddStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string, purchasePrice *decimal.Decimal) error {
	p, ok := f.products[id]
	if !ok {
		return productmodel.ErrProductNotFound
	}
	p.StockQuantity += quantity
	p.IMEI = append(p.IMEI, imeis...)
	if purchasePrice != nil {
		p.PurchasePrice = *purchasePrice
	}
	f.additions = append(f.additions, struct {
		ID       uuid.UUID
		Quantity int
		IMEIs    []string
	}{id, quantity, imeis})
	return nil
}

// fakePurchaseRepo stores intake documents in memory.
type fakePurchaseRepo struct {
	purchases []model.Purchase
}

func (f *fakePurchaseRepo) CreateTx(ctx context.Context, tx pgx.Tx, p *model.Purchase) error {
	f.purchases = append(f.purchases, *p)
	return nil
}

func (f *fakePurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	for i := range f.purchases {
		if f.purchases[i].ID == id {
			p := f.purchases[i]
			return &p, nil
		}
	}
	return nil, model.ErrPurchaseNotFound
}

func (f *fakePurchaseRepo) List(ctx context.Context, limit, offset int) ([]model.Purchase, int, error) {
	return f.purchases, len(f.purchases), nil
}

func (f *fakePurchaseRepo) MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error) {
	return 0, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func newPurchaseService(repo *fakePurchaseRepo, catalog *fakeCatalog) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: repo,
		productRepo:  catalog,
		seq:          &fixedSequence{},
		tx:           passthroughTx{},
		now:          func() time.Time { return time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC) },
	}
}

func TestPurchaseCreateExistingProduct(t *testing.T) {
	phone := &productmodel.Product{
		ID:            uuid.New(),
		Name:          "Redmi 13C",
		Brand:         "Xiaomi",
		Category:      productmodel.CategoryMobilePhones,
		TrackIMEI:     true,
		SIMType:       productmodel.SIMTypeSingle,
		SellingPrice:  decimal.NewFromInt(11000),
		PurchasePrice: decimal.NewFromInt(9000),
		StockQuantity: 1,
	}
	catalog := newFakeCatalog(phone)
	repo := &fakePurchaseRepo{}
	svc := newPurchaseService(repo, catalog)

	purchase, err := svc.Create(context.Background(), model.CreatePurchaseRequest{
		Supplier: "Om Distributors",
		Items: []model.PurchaseItemRequest{{
			ProductID:     &phone.ID,
			Quantity:      3,
			PurchasePrice: decimal.NewFromInt(8800),
			IMEIs:         []string{"111", " 222 ", "333", ""},
		}},
		TotalAmount: decimal.NewFromInt(26400),
		PaidAmount:  decimal.NewFromInt(26400),
		Status:      model.StatusPaid,
	})
	require.NoError(t, err)

	assert.Equal(t, "PUR-20260502-001", purchase.PurchaseNumber)
	assert.Equal(t, model.StatusPaid, purchase.Status)
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, []string{"111", "222", "333"}, purchase.Items[0].IMEIs)

	// stock and cost price updated through the intake transaction
	stocked := catalog.products[phone.ID]
	assert.Equal(t, 4, stocked.StockQuantity)
	assert.Equal(t, []string{"111", "222", "333"}, stocked.IMEI)
	assert.True(t, stocked.PurchasePrice.Equal(decimal.NewFromInt(8800)))
	require.Len(t, repo.purchases, 1)
}

func TestPurchaseCreatesProductMaster(t *testing.T) {
	catalog := newFakeCatalog()
	svc := newPurchaseService(&fakePurchaseRepo{}, catalog)

	purchase, err := svc.Create(context.Background(), model.CreatePurchaseRequest{
		Supplier: "New Age Traders",
		Items: []model.PurchaseItemRequest{{
			Name:          "Galaxy Buds FE",
			Brand:         "Samsung",
			Category:      productmodel.CategoryWirelessEarbuds,
			Quantity:      5,
			PurchasePrice: decimal.NewFromInt(4000),
			SellingPrice:  decimal.NewFromInt(5500),
		}},
	})
	require.NoError(t, err)

	require.Len(t, purchase.Items, 1)
	created := catalog.products[purchase.Items[0].ProductID]
	require.NotNil(t, created, "product master must exist in the catalog")
	assert.Equal(t, "Galaxy Buds FE", created.Name)
	assert.Equal(t, productmodel.CategoryWirelessEarbuds, created.Category)
	// intake filled the stock; the new master started empty
	assert.Equal(t, 5, created.StockQuantity)
}

func TestPurchaseNewProductNeedsMasterFields(t *testing.T) {
	svc := newPurchaseService(&fakePurchaseRepo{}, newFakeCatalog())

	_, err := svc.Create(context.Background(), model.CreatePurchaseRequest{
		Supplier: "New Age Traders",
		Items: []model.PurchaseItemRequest{{
			Name:     "Mystery Item",
			Quantity: 1, // no brand, no selling price
		}},
	})

	var fieldsErr *model.NewProductFieldsError
	require.ErrorAs(t, err, &fieldsErr)
	assert.Equal(t, "Mystery Item", fieldsErr.Name)
}

func TestPurchaseClampsPaidToTotal(t *testing.T) {
	phone := &productmodel.Product{
		ID:           uuid.New(),
		Name:         "Charger",
		Brand:        "Anker",
		Category:     productmodel.CategoryChargers,
		SellingPrice: decimal.NewFromInt(1500),
	}
	repo := &fakePurchaseRepo{}
	svc := newPurchaseService(repo, newFakeCatalog(phone))

	purchase, err := svc.Create(context.Background(), model.CreatePurchaseRequest{
		Supplier:    "Om Distributors",
		Items:       []model.PurchaseItemRequest{{ProductID: &phone.ID, Quantity: 1}},
		TotalAmount: decimal.NewFromInt(1000),
		PaidAmount:  decimal.NewFromInt(5000),
		Status:      "Nonsense",
	})
	require.NoError(t, err)

	assert.True(t, purchase.PaidAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, model.StatusPending, purchase.Status, "unknown status falls back to pending")
}

func TestPurchaseEmptyItems(t *testing.T) {
	svc := newPurchaseService(&fakePurchaseRepo{}, newFakeCatalog())

	_, err := svc.Create(context.Background(), model.CreatePurchaseRequest{Supplier: "X"})
	assert.ErrorIs(t, err, model.ErrEmptyPurchase)
}
