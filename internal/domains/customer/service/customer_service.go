package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/customer/model"
	"phoneshop-backend/internal/domains/customer/repository"
	"phoneshop-backend/pkg/logger"
)

type CustomerService struct {
	customerRepo repository.RepositoryInterface
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.RepositoryInterface) ServiceInterface {
	return &CustomerService{customerRepo: customerRepo}
}

func (s *CustomerService) Create(ctx context.Context, req model.CreateCustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Explicit registration rejects duplicates; settlement uses
	// find-or-create instead and never hits this path.
	if _, err := s.customerRepo.GetByMobile(ctx, model.NormalizeMobile(req.Mobile)); err == nil {
		return nil, model.ErrDuplicateMobile
	} else if !errors.Is(err, model.ErrCustomerNotFound) {
		return nil, err
	}

	customer := req.ToEntity()
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		logger.Error("Failed to create customer", err)
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *CustomerService) GetByMobile(ctx context.Context, mobile string) (*model.Customer, error) {
	return s.customerRepo.GetByMobile(ctx, model.NormalizeMobile(mobile))
}

func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]model.Customer, int, error) {
	return s.customerRepo.List(ctx, limit, offset)
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req model.UpdateCustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(customer)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		logger.Error("Failed to update customer", err)
		return nil, err
	}
	return customer, nil
}
