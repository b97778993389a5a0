package service

import (
	"context"

	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/customer/model"
)

// ServiceInterface defines customer business logic.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateCustomerRequest) (*model.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByMobile(ctx context.Context, mobile string) (*model.Customer, error)
	List(ctx context.Context, limit, offset int) ([]model.Customer, int, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateCustomerRequest) (*model.Customer, error)
}
