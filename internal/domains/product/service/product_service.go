package service

import (
	"context"

	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/product/model"
	"phoneshop-backend/internal/domains/product/repository"
)

type productService struct {
	repo repository.RepositoryInterface
}

// NewProductService creates a new product service
func NewProductService(repo repository.RepositoryInterface) ServiceInterface {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product := req.ToEntity()

	// A tracked product's stock must mirror its serial pool. SIM-count
	// accounting: a dual-SIM unit holds two serials.
	if product.TrackIMEI && len(product.IMEI) > 0 {
		product.StockQuantity = len(product.IMEI) / product.IMEISlotsPerUnit()
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context, filter repository.ListFilter) ([]model.Product, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(product)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *productService) ListLowStock(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListLowStock(ctx)
}
