package service

import (
	"context"

	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/purchase/model"
)

// ServiceInterface defines supplier-intake business logic.
type ServiceInterface interface {
	// Create records a supplier purchase: unknown products are created in
	// the catalog first, then the document insert and every stock/serial
	// increment commit in one transaction.
	Create(ctx context.Context, req model.CreatePurchaseRequest) (*model.Purchase, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, limit, offset int) ([]model.Purchase, int, error)
}

// BuyBackServiceInterface defines second-hand buy-back business logic.
type BuyBackServiceInterface interface {
	Create(ctx context.Context, req model.CreateBuyBackRequest, actorID *uuid.UUID) (*model.BuyBack, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BuyBack, error)
	List(ctx context.Context, limit, offset int) ([]model.BuyBack, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateBuyBackStatusRequest) (*model.BuyBack, error)
}
