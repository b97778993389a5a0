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

	customermodel "phoneshop-backend/internal/domains/customer/model"
	"phoneshop-backend/internal/domains/invoice/model"
	"phoneshop-backend/internal/domains/invoice/repository"
	productmodel "phoneshop-backend/internal/domains/product/model"
)

// =====================================================
// FAKES
// =====================================================

// fakeTxManager runs the callback with a nil transaction handle; the repo
// fakes below never touch it.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

// fakeSequence counts up from zero. failures forces the counter offline for
// the first N calls.
type fakeSequence struct {
	n        int
	failures int
}

func (f *fakeSequence) Next(ctx context.Context, prefix string, day time.Time) (int, error) {
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("sequence source down")
	}
	f.n++
	return f.n, nil
}

// fakeInvoiceRepo stores invoices in memory and refuses numbers listed in
// taken, mirroring the unique constraint on invoice_number.
type fakeInvoiceRepo struct {
	invoices []model.Invoice
	taken    map[string]bool
	maxSeq   int

	createAttempts []string
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{taken: map[string]bool{}}
}

func (f *fakeInvoiceRepo) CreateTx(ctx context.Context, tx pgx.Tx, inv *model.Invoice) error {
	f.createAttempts = append(f.createAttempts, inv.InvoiceNumber)
	if f.taken[inv.InvoiceNumber] {
		return model.ErrDuplicateInvoiceNumber
	}
	f.taken[inv.InvoiceNumber] = true
	f.invoices = append(f.invoices, *inv)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			inv := f.invoices[i]
			return &inv, nil
		}
	}
	return nil, model.ErrInvoiceNotFound
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter repository.ListFilter) ([]model.Invoice, int, error) {
	return f.invoices, len(f.invoices), nil
}

func (f *fakeInvoiceRepo) ListEMIActive(ctx context.Context) ([]model.Invoice, error) {
	out := []model.Invoice{}
	for _, inv := range f.invoices {
		if inv.Status == model.StatusEMIActive {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Invoice, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeInvoiceRepo) UpdateEMITx(ctx context.Context, tx pgx.Tx, inv *model.Invoice) error {
	for i := range f.invoices {
		if f.invoices[i].ID == inv.ID {
			f.invoices[i] = *inv
			return nil
		}
	}
	return model.ErrInvoiceNotFound
}

func (f *fakeInvoiceRepo) MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error) {
	return f.maxSeq, nil
}

// fakeCustomerRepo hands back one customer for any mobile and records the
// side effects settlement asks for.
type fakeCustomerRepo struct {
	customer  customermodel.Customer
	purchases []uuid.UUID
	deltas    []decimal.Decimal
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customer: customermodel.Customer{ID: uuid.New(), Name: "Walk In", Mobile: "9876543210"},
	}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *customermodel.Customer) error { return nil }
func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*customermodel.Customer, error) {
	c := f.customer
	return &c, nil
}
func (f *fakeCustomerRepo) GetByMobile(ctx context.Context, mobile string) (*customermodel.Customer, error) {
	c := f.customer
	return &c, nil
}
func (f *fakeCustomerRepo) List(ctx context.Context, limit, offset int) ([]customermodel.Customer, int, error) {
	return nil, 0, nil
}
func (f *fakeCustomerRepo) Update(ctx context.Context, c *customermodel.Customer) error { return nil }

func (f *fakeCustomerRepo) FindOrCreateTx(ctx context.Context, tx pgx.Tx, name, mobile, address string) (*customermodel.Customer, error) {
	c := f.customer
	return &c, nil
}

func (f *fakeCustomerRepo) AdjustBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) error {
	f.deltas = append(f.deltas, delta)
	return nil
}

func (f *fakeCustomerRepo) AppendPurchaseTx(ctx context.Context, tx pgx.Tx, id, invoiceID uuid.UUID) error {
	f.purchases = append(f.purchases, invoiceID)
	return nil
}

func (f *fakeCustomerRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*customermodel.Customer, error) {
	c := f.customer
	return &c, nil
}

// =====================================================
// HARNESS
// =====================================================

type settlementFixture struct {
	service      *InvoiceService
	invoiceRepo  *fakeInvoiceRepo
	productRepo  *fakeProductRepo
	customerRepo *fakeCustomerRepo
	seq          *fakeSequence
	now          time.Time
}

func newSettlementFixture(products ...*productmodel.Product) *settlementFixture {
	invoiceRepo := newFakeInvoiceRepo()
	productRepo := newFakeProductRepo(products...)
	customerRepo := newFakeCustomerRepo()
	seq := &fakeSequence{}
	now := time.Date(2026, 7, 20, 11, 30, 0, 0, time.UTC)

	svc := &InvoiceService{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		pricer:       NewPricer(productRepo, &fakeResolver{}),
		seq:          seq,
		tx:           fakeTxManager{},
		now:          func() time.Time { return now },
	}

	return &settlementFixture{
		service:      svc,
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		seq:          seq,
		now:          now,
	}
}

func cashRequest(items ...model.InvoiceItemRequest) model.CreateInvoiceRequest {
	return model.CreateInvoiceRequest{
		CustomerName:   "Ravi Kumar",
		CustomerMobile: "9876543210",
		Items:          items,
		PaymentMode:    model.PaymentCash,
	}
}

// =====================================================
// TESTS
// =====================================================

func TestCreateCashSale(t *testing.T) {
	phone := handset("Galaxy A55", 22400, 4, productmodel.SIMTypeSingle)
	fx := newSettlementFixture(phone)

	inv, err := fx.service.Create(context.Background(), cashRequest(model.InvoiceItemRequest{
		ProductID: &phone.ID,
		Quantity:  1,
		IMEI:      []string{"359881234567890"},
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, "INV-20260720-001", inv.InvoiceNumber)
	assert.Equal(t, model.StatusPaid, inv.Status)
	assert.Equal(t, fx.customerRepo.customer.ID, inv.CustomerID)
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(22400)))

	// stock committed and history appended inside the transaction
	require.Len(t, fx.productRepo.decrements, 1)
	assert.Equal(t, phone.ID, fx.productRepo.decrements[0].ID)
	assert.Equal(t, 3, fx.productRepo.products[phone.ID].StockQuantity)
	require.Len(t, fx.customerRepo.purchases, 1)
	assert.Equal(t, inv.ID, fx.customerRepo.purchases[0])

	// a fully paid sale leaves the balance alone
	assert.Empty(t, fx.customerRepo.deltas)
}

func TestCreateNumbersAreSequential(t *testing.T) {
	cable := accessory("Lightning Cable", productmodel.CategoryCables, 500, 18, 100)
	fx := newSettlementFixture(cable)

	for i, want := range []string{"INV-20260720-001", "INV-20260720-002", "INV-20260720-003"} {
		inv, err := fx.service.Create(context.Background(), cashRequest(model.InvoiceItemRequest{
			ProductID: &cable.ID,
			Quantity:  1,
		}), nil)
		require.NoError(t, err, "sale %d", i)
		assert.Equal(t, want, inv.InvoiceNumber)
	}
}

func TestCreateRetriesOnDuplicateNumber(t *testing.T) {
	cable := accessory("USB Cable", productmodel.CategoryCables, 300, 18, 10)
	fx := newSettlementFixture(cable)

	// another terminal already wrote 001
	fx.invoiceRepo.taken["INV-20260720-001"] = true

	inv, err := fx.service.Create(context.Background(), cashRequest(model.InvoiceItemRequest{
		ProductID: &cable.ID,
		Quantity:  1,
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, "INV-20260720-002", inv.InvoiceNumber)
	assert.Equal(t, []string{"INV-20260720-001", "INV-20260720-002"}, fx.invoiceRepo.createAttempts)
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	cable := accessory("HDMI Cable", productmodel.CategoryCables, 800, 18, 10)
	fx := newSettlementFixture(cable)

	for _, n := range []string{"INV-20260720-001", "INV-20260720-002", "INV-20260720-003"} {
		fx.invoiceRepo.taken[n] = true
	}

	_, err := fx.service.Create(context.Background(), cashRequest(model.InvoiceItemRequest{
		ProductID: &cable.ID,
		Quantity:  1,
	}), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDuplicateInvoiceNumber)
	assert.Len(t, fx.invoiceRepo.createAttempts, 3)
}

func TestCreateFallsBackToStoredScanWhenSequenceDown(t *testing.T) {
	cable := accessory("OTG Adapter", productmodel.CategoryOthers, 250, 18, 10)
	fx := newSettlementFixture(cable)
	fx.seq.failures = 1
	fx.invoiceRepo.maxSeq = 41

	inv, err := fx.service.Create(context.Background(), cashRequest(model.InvoiceItemRequest{
		ProductID: &cable.ID,
		Quantity:  1,
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, "INV-20260720-042", inv.InvoiceNumber)
}

func TestCreateAbortsBeforeAnyWrite(t *testing.T) {
	phone := handset("Nothing Phone", 25000, 5, productmodel.SIMTypeSingle)
	scarce := handset("Rare Fold", 90000, 0, productmodel.SIMTypeSingle)
	fx := newSettlementFixture(phone, scarce)

	_, err := fx.service.Create(context.Background(), cashRequest(
		model.InvoiceItemRequest{ProductID: &phone.ID, Quantity: 1, IMEI: []string{"111"}},
		model.InvoiceItemRequest{ProductID: &scarce.ID, Quantity: 1, IMEI: []string{"222"}},
	), nil)

	var stockErr *productmodel.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// pricing failed, so nothing reached the write phase
	assert.Empty(t, fx.invoiceRepo.createAttempts)
	assert.Empty(t, fx.productRepo.decrements)
	assert.Empty(t, fx.customerRepo.purchases)
	assert.Equal(t, 5, fx.productRepo.products[phone.ID].StockQuantity)
}

func TestCreateRequiresContactAndItems(t *testing.T) {
	fx := newSettlementFixture()

	_, err := fx.service.Create(context.Background(), model.CreateInvoiceRequest{
		CustomerMobile: "9876543210",
		Items:          []model.InvoiceItemRequest{{Name: "x", Quantity: 1}},
	}, nil)
	assert.ErrorIs(t, err, model.ErrCustomerContactRequired)

	_, err = fx.service.Create(context.Background(), model.CreateInvoiceRequest{
		CustomerName:   "Ravi",
		CustomerMobile: "  ",
		Items:          []model.InvoiceItemRequest{{Name: "x", Quantity: 1}},
	}, nil)
	assert.ErrorIs(t, err, model.ErrCustomerContactRequired)

	_, err = fx.service.Create(context.Background(), model.CreateInvoiceRequest{
		CustomerName:   "Ravi",
		CustomerMobile: "9876543210",
	}, nil)
	assert.ErrorIs(t, err, model.ErrEmptyCart)
}

func TestCreatePendingSaleRaisesBalance(t *testing.T) {
	cable := accessory("Type-C Cable", productmodel.CategoryCables, 1000, 18, 10)
	fx := newSettlementFixture(cable)

	req := cashRequest(model.InvoiceItemRequest{ProductID: &cable.ID, Quantity: 2})
	req.Status = model.StatusPartial
	req.PaidAmount = decimal.NewFromInt(500)

	inv, err := fx.service.Create(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPartial, inv.Status)
	require.Len(t, fx.customerRepo.deltas, 1)
	// 2000 billed, 500 paid
	assert.True(t, fx.customerRepo.deltas[0].Equal(decimal.NewFromInt(1500)),
		"delta = %s", fx.customerRepo.deltas[0])
}

func TestCreateEMISale(t *testing.T) {
	phone := handset("Vivo V40", 20000, 2, productmodel.SIMTypeDual)
	fx := newSettlementFixture(phone)

	req := cashRequest(model.InvoiceItemRequest{
		ProductID: &phone.ID,
		Quantity:  1,
		IMEI:      []string{"111", "222"},
	})
	req.PaymentMode = model.PaymentEMI
	req.EMI = &model.EMIPlanRequest{
		RateOfInterest: decimal.NewFromInt(10),
		TenureMonths:   10,
		DownPayment:    decimal.NewFromInt(2000),
	}

	inv, err := fx.service.Create(context.Background(), req, nil)
	require.NoError(t, err)

	// EMI always settles as active regardless of the requested status
	assert.Equal(t, model.StatusEMIActive, inv.Status)
	require.NotNil(t, inv.EMIDetails)
	// (20000 + 2000 interest - 2000 down) / 10
	assert.True(t, inv.EMIDetails.MonthlyInstallment.Equal(decimal.NewFromInt(2000)))

	// everything beyond the down payment becomes outstanding
	require.Len(t, fx.customerRepo.deltas, 1)
	assert.True(t, fx.customerRepo.deltas[0].Equal(decimal.NewFromInt(18000)))
}

func TestCreateAppliesDocumentDiscount(t *testing.T) {
	phone := handset("Oppo Reno", 20000, 3, productmodel.SIMTypeSingle)
	charger := accessory("GaN Charger", productmodel.CategoryChargers, 2000, 18, 5)
	fx := newSettlementFixture(phone, charger)

	req := cashRequest(
		model.InvoiceItemRequest{ProductID: &phone.ID, Quantity: 1, IMEI: []string{"333"}},
		model.InvoiceItemRequest{ProductID: &charger.ID, Quantity: 1},
	)
	req.Discount = decimal.NewFromInt(10)
	req.DiscountType = model.DiscountPercentage

	inv, err := fx.service.Create(context.Background(), req, nil)
	require.NoError(t, err)

	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(19800)), "grand = %s", inv.GrandTotal)
	assert.True(t, inv.Discount.Equal(decimal.NewFromInt(2200)))

	sum := decimal.Zero
	for _, l := range inv.Items {
		sum = sum.Add(l.Total)
	}
	assert.True(t, sum.Equal(inv.GrandTotal), "lines sum to %s, grand %s", sum, inv.GrandTotal)
}

func TestPayInstallment(t *testing.T) {
	cable := accessory("Dock", productmodel.CategoryOthers, 100, 18, 10)
	fx := newSettlementFixture(cable)

	due := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	inv := model.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-20260720-009",
		CustomerID:    fx.customerRepo.customer.ID,
		GrandTotal:    decimal.NewFromInt(10000),
		Status:        model.StatusEMIActive,
		EMIDetails: &model.EMIDetails{
			RateOfInterest:     decimal.NewFromInt(10),
			TenureMonths:       10,
			DownPayment:        decimal.NewFromInt(1000),
			MonthlyInstallment: decimal.NewFromInt(1000),
			TotalPaid:          decimal.NewFromInt(1000),
			NextDueDate:        due,
			Installments: []model.Installment{
				{Amount: decimal.NewFromInt(1000), Note: model.InstallmentNoteDownPayment},
			},
		},
	}
	fx.invoiceRepo.invoices = append(fx.invoiceRepo.invoices, inv)

	updated, err := fx.service.PayInstallment(context.Background(), inv.ID, model.PayEMIRequest{
		Amount:      decimal.NewFromInt(1000),
		PaymentMode: model.PaymentUPI,
	})
	require.NoError(t, err)

	assert.True(t, updated.EMIDetails.TotalPaid.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, due.AddDate(0, 1, 0), updated.EMIDetails.NextDueDate)
	assert.Equal(t, model.StatusEMIActive, updated.Status)

	// persisted and balance reduced in the same transaction
	stored, err := fx.invoiceRepo.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.EMIDetails.TotalPaid.Equal(decimal.NewFromInt(2000)))
	require.Len(t, fx.customerRepo.deltas, 1)
	assert.True(t, fx.customerRepo.deltas[0].Equal(decimal.NewFromInt(-1000)))
}

func TestPayInstallmentUnknownInvoice(t *testing.T) {
	fx := newSettlementFixture()

	_, err := fx.service.PayInstallment(context.Background(), uuid.New(), model.PayEMIRequest{
		Amount: decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, model.ErrInvoiceNotFound)
}

func TestListEMIActiveSummaries(t *testing.T) {
	fx := newSettlementFixture()

	due := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	fx.invoiceRepo.invoices = append(fx.invoiceRepo.invoices,
		model.Invoice{
			ID:             uuid.New(),
			InvoiceNumber:  "INV-20260720-004",
			CustomerName:   "Meena",
			CustomerMobile: "9812345678",
			GrandTotal:     decimal.NewFromInt(10000),
			Status:         model.StatusEMIActive,
			Items: []model.InvoiceLine{
				{Name: "Redmi 13", Total: decimal.NewFromInt(9500)},
				{Name: "Back Cover", Total: decimal.NewFromInt(500)},
			},
			EMIDetails: &model.EMIDetails{
				RateOfInterest:     decimal.NewFromInt(10),
				TenureMonths:       10,
				DownPayment:        decimal.NewFromInt(1000),
				MonthlyInstallment: decimal.NewFromInt(1000),
				TotalPaid:          decimal.NewFromInt(3000),
				NextDueDate:        due,
				Installments: []model.Installment{
					{Amount: decimal.NewFromInt(1000), Note: model.InstallmentNoteDownPayment},
					{Amount: decimal.NewFromInt(1000)},
					{Amount: decimal.NewFromInt(1000)},
				},
			},
		},
		model.Invoice{ID: uuid.New(), Status: model.StatusPaid},
	)

	summaries, err := fx.service.ListEMIActive(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "INV-20260720-004", s.InvoiceNumber)
	assert.Equal(t, "Redmi 13, Back Cover", s.Products)
	assert.True(t, s.TotalPayable.Equal(decimal.NewFromInt(11000)))
	assert.True(t, s.Remaining.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, 2, s.MonthsPaid)
	assert.Equal(t, 8, s.MonthsRemaining)
	assert.Equal(t, "2/10", s.Progress)
	assert.Equal(t, "2026-09-05", s.NextDueDate)
}
