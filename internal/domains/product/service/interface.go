package service

import (
	"context"

	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/product/model"
	"phoneshop-backend/internal/domains/product/repository"
)

// ServiceInterface defines product business logic.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter repository.ListFilter) ([]model.Product, int, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListLowStock(ctx context.Context) ([]model.Product, error)
}
