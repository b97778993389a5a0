package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	productmodel "phoneshop-backend/internal/domains/product/model"
	"phoneshop-backend/internal/domains/purchase/model"
	"phoneshop-backend/internal/domains/purchase/repository"
	"phoneshop-backend/internal/infrastructure/sequence"
	"phoneshop-backend/pkg/logger"
)

const buybackPrefix = "SH"

// BuyBackService handles second-hand units bought from walk-in sellers.
type BuyBackService struct {
	buybackRepo repository.BuyBackRepository
	seq         sequence.Daily
	now         func() time.Time
}

// NewBuyBackService creates a new buy-back service
func NewBuyBackService(buybackRepo repository.BuyBackRepository, seq sequence.Daily) BuyBackServiceInterface {
	return &BuyBackService{
		buybackRepo: buybackRepo,
		seq:         seq,
		now:         time.Now,
	}
}

// Create implements BuyBackServiceInterface.Create
func (s *BuyBackService) Create(ctx context.Context, req model.CreateBuyBackRequest, actorID *uuid.UUID) (*model.BuyBack, error) {
	now := s.now()

	imeis := req.CleanIMEIs()
	category := normalizeBuyBackCategory(req.Category)
	if len(imeis) == 0 && productmodel.CategoryTracksIMEI(category) {
		return nil, model.ErrInvalidIMEIs
	}

	// The same physical phone must not be bought twice.
	held, err := s.buybackRepo.AnyIMEIHeld(ctx, imeis)
	if err != nil {
		return nil, err
	}
	if len(held) > 0 {
		return nil, &model.IMEIAlreadyHeldError{IMEIs: held}
	}

	buyingPrice := req.BuyingPrice
	if buyingPrice.IsNegative() {
		buyingPrice = decimal.Zero
	}
	originalPrice := req.OriginalPrice
	if originalPrice.IsNegative() {
		originalPrice = decimal.Zero
	}

	simType := req.SIMType
	if simType == "" {
		simType = productmodel.SIMTypeNone
	}

	number, err := s.nextBuyBackNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	buyback := &model.BuyBack{
		ID:             uuid.New(),
		BuyBackNumber:  number,
		Name:           strings.TrimSpace(req.Name),
		Brand:          strings.TrimSpace(req.Brand),
		Category:       category,
		SIMType:        simType,
		IMEI:           imeis,
		Specifications: strings.TrimSpace(req.Specifications),
		Description:    strings.TrimSpace(req.Description),
		OriginalPrice:  originalPrice,
		BuyingPrice:    buyingPrice,
		SellerName:     strings.TrimSpace(req.SellerName),
		SellerPhone:    strings.TrimSpace(req.SellerPhone),
		SellerAddress:  strings.TrimSpace(req.SellerAddress),
		Status:         model.BuyBackInStock,
		PurchasedBy:    actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.buybackRepo.Create(ctx, buyback); err != nil {
		logger.Error("Failed to record buy-back", err)
		return nil, err
	}

	logger.Info("Buy-back recorded", map[string]interface{}{
		"buyback_number": buyback.BuyBackNumber,
		"name":           buyback.Name,
		"seller":         buyback.SellerName,
	})

	return buyback, nil
}

// GetByID implements BuyBackServiceInterface.GetByID
func (s *BuyBackService) GetByID(ctx context.Context, id uuid.UUID) (*model.BuyBack, error) {
	return s.buybackRepo.GetByID(ctx, id)
}

// List implements BuyBackServiceInterface.List
func (s *BuyBackService) List(ctx context.Context, limit, offset int) ([]model.BuyBack, int, error) {
	return s.buybackRepo.List(ctx, limit, offset)
}

// UpdateStatus implements BuyBackServiceInterface.UpdateStatus
func (s *BuyBackService) UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateBuyBackStatusRequest) (*model.BuyBack, error) {
	buyback, err := s.buybackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	buyback.Status = req.Status

	if req.Status == model.BuyBackSold {
		soldTo, err := validateSoldTo(req.SoldTo, s.now())
		if err != nil {
			return nil, err
		}
		buyback.SoldTo = soldTo
	}

	if err := s.buybackRepo.UpdateStatus(ctx, buyback); err != nil {
		return nil, err
	}

	return buyback, nil
}

func validateSoldTo(req *model.SoldToRequest, now time.Time) (*model.SoldTo, error) {
	if req == nil {
		return nil, model.ErrSoldToRequired
	}

	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)
	if name == "" || len(phone) != 10 {
		return nil, model.ErrSoldToRequired
	}
	if !req.SalePrice.IsPositive() {
		return nil, model.ErrSoldToRequired
	}

	saleDate := now
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}

	return &model.SoldTo{
		CustomerName:  name,
		CustomerPhone: phone,
		SalePrice:     req.SalePrice,
		SaleDate:      saleDate,
	}, nil
}

// normalizeBuyBackCategory maps the short frontend labels onto catalog
// categories; a second-hand unit defaults to a handset.
func normalizeBuyBackCategory(category string) string {
	switch category {
	case "", "Mobile", productmodel.CategoryMobilePhones:
		return productmodel.CategoryMobilePhones
	case "Tablet", productmodel.CategoryTablets:
		return productmodel.CategoryTablets
	default:
		return category
	}
}

func (s *BuyBackService) nextBuyBackNumber(ctx context.Context, day time.Time) (string, error) {
	n, err := s.seq.Next(ctx, buybackPrefix, day)
	if err != nil {
		logger.Warn("Sequence source unavailable, falling back to stored scan",
			map[string]interface{}{"error": err.Error()})
		max, scanErr := s.buybackRepo.MaxSequenceForDay(ctx, buybackPrefix, day)
		if scanErr != nil {
			return "", fmt.Errorf("buy-back numbering failed: %w", scanErr)
		}
		n = max + 1
	}

	return fmt.Sprintf("%s-%s-%03d", buybackPrefix, day.Format("20060102"), n), nil
}
