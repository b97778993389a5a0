package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	productmodel "phoneshop-backend/internal/domains/product/model"
	productrepo "phoneshop-backend/internal/domains/product/repository"
	"phoneshop-backend/internal/domains/purchase/model"
	"phoneshop-backend/internal/domains/purchase/repository"
	"phoneshop-backend/internal/infrastructure/sequence"
	"phoneshop-backend/pkg/database"
	"phoneshop-backend/pkg/logger"
)

const purchasePrefix = "PUR"

// PurchaseService coordinates supplier intake: catalog creation for unknown
// products, document numbering, and the transaction that persists the
// document together with stock and serial increments.
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  productrepo.RepositoryInterface
	seq          sequence.Daily
	tx           database.TxManager
	now          func() time.Time
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo productrepo.RepositoryInterface,
	seq sequence.Daily,
	tx database.TxManager,
) ServiceInterface {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		seq:          seq,
		tx:           tx,
		now:          time.Now,
	}
}

// Create implements ServiceInterface.Create
func (s *PurchaseService) Create(ctx context.Context, req model.CreatePurchaseRequest) (*model.Purchase, error) {
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyPurchase
	}

	now := s.now()

	items := make([]model.PurchaseItem, 0, len(req.Items))
	intakes := make([]stockIntake, 0, len(req.Items))

	for _, line := range req.Items {
		item, intake, err := s.resolveLine(ctx, line, req.Supplier)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		intakes = append(intakes, intake)
	}

	total := req.TotalAmount
	if total.IsNegative() {
		total = decimal.Zero
	}
	paid := req.PaidAmount
	if paid.IsNegative() {
		paid = decimal.Zero
	}
	if paid.GreaterThan(total) {
		paid = total
	}

	status := req.Status
	if !model.ValidStatus(status) {
		status = model.StatusPending
	}

	purchaseDate := now
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	number, err := s.nextPurchaseNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		ID:                    uuid.New(),
		PurchaseNumber:        number,
		Supplier:              strings.TrimSpace(req.Supplier),
		SupplierInvoiceNumber: strings.TrimSpace(req.SupplierInvoiceNumber),
		Items:                 items,
		TotalAmount:           total,
		PaidAmount:            paid,
		Status:                status,
		PurchaseDate:          purchaseDate,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.purchaseRepo.CreateTx(ctx, tx, purchase); err != nil {
			return err
		}
		for _, intake := range intakes {
			price := intake.purchasePrice
			if err := s.productRepo.AddStockTx(ctx, tx, intake.productID, intake.quantity, intake.imeis, &price); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Purchase recorded", map[string]interface{}{
		"purchase_number": purchase.PurchaseNumber,
		"supplier":        purchase.Supplier,
		"items":           len(purchase.Items),
	})

	return purchase, nil
}

type stockIntake struct {
	productID     uuid.UUID
	quantity      int
	imeis         []string
	purchasePrice decimal.Decimal
}

// resolveLine maps an intake line to a catalog product, creating the
// product master on the fly when the line introduces one.
func (s *PurchaseService) resolveLine(ctx context.Context, line model.PurchaseItemRequest, supplier string) (model.PurchaseItem, stockIntake, error) {
	var product *productmodel.Product

	if line.ProductID != nil {
		existing, err := s.productRepo.GetByID(ctx, *line.ProductID)
		if err != nil {
			return model.PurchaseItem{}, stockIntake{}, err
		}
		product = existing
	} else {
		if line.NeedsMasterFields() {
			return model.PurchaseItem{}, stockIntake{}, &model.NewProductFieldsError{Name: line.Name}
		}
		created, err := s.createProductMaster(ctx, line)
		if err != nil {
			return model.PurchaseItem{}, stockIntake{}, err
		}
		product = created
	}

	quantity := line.Quantity
	if quantity < 1 {
		quantity = 1
	}

	purchasePrice := line.PurchasePrice
	if purchasePrice.IsNegative() {
		purchasePrice = decimal.Zero
	}

	imeis := make([]string, 0, len(line.IMEIs))
	for _, raw := range line.IMEIs {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			imeis = append(imeis, trimmed)
		}
	}

	item := model.PurchaseItem{
		ProductID:     product.ID,
		Name:          product.Name,
		Brand:         product.Brand,
		Category:      product.Category,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		SellingPrice:  product.SellingPrice,
		SIMType:       product.SIMType,
		GSTPercent:    product.GSTPercent,
		IMEIs:         imeis,
	}

	return item, stockIntake{
		productID:     product.ID,
		quantity:      quantity,
		imeis:         imeis,
		purchasePrice: purchasePrice,
	}, nil
}

func (s *PurchaseService) createProductMaster(ctx context.Context, line model.PurchaseItemRequest) (*productmodel.Product, error) {
	category := line.Category
	if !productmodel.ValidCategory(category) {
		category = productmodel.CategoryOthers
	}

	req := productmodel.CreateProductRequest{
		Name:              line.Name,
		Brand:             line.Brand,
		Category:          category,
		SIMType:           line.SIMType,
		PurchasePrice:     line.PurchasePrice,
		SellingPrice:      line.SellingPrice,
		GSTPercent:        line.GSTPercent,
		LowStockThreshold: line.LowStockThreshold,
	}
	if line.Description != "" {
		req.Description = &line.Description
	}
	if line.WarrantyPeriod != "" {
		req.WarrantyPeriod = &line.WarrantyPeriod
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	product := req.ToEntity()
	// intake fills stock; the master starts empty
	product.StockQuantity = 0
	product.IMEI = []string{}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product master created from purchase", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
	})

	return product, nil
}

func (s *PurchaseService) nextPurchaseNumber(ctx context.Context, day time.Time) (string, error) {
	n, err := s.seq.Next(ctx, purchasePrefix, day)
	if err != nil {
		logger.Warn("Sequence source unavailable, falling back to stored scan",
			map[string]interface{}{"error": err.Error()})
		max, scanErr := s.purchaseRepo.MaxSequenceForDay(ctx, purchasePrefix, day)
		if scanErr != nil {
			return "", fmt.Errorf("purchase numbering failed: %w", scanErr)
		}
		n = max + 1
	}

	return fmt.Sprintf("%s-%s-%03d", purchasePrefix, day.Format("20060102"), n), nil
}

// GetByID implements ServiceInterface.GetByID
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	return s.purchaseRepo.GetByID(ctx, id)
}

// List implements ServiceInterface.List
func (s *PurchaseService) List(ctx context.Context, limit, offset int) ([]model.Purchase, int, error) {
	return s.purchaseRepo.List(ctx, limit, offset)
}
