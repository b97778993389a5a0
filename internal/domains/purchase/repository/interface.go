package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"phoneshop-backend/internal/domains/purchase/model"
)

// PurchaseRepository defines supplier-intake data access.
type PurchaseRepository interface {
	// CreateTx inserts the purchase inside the intake transaction, so the
	// document and its stock increments commit together.
	CreateTx(ctx context.Context, tx pgx.Tx, purchase *model.Purchase) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, limit, offset int) ([]model.Purchase, int, error)

	// MaxSequenceForDay is the numbering fallback when the sequence source
	// is unavailable.
	MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error)
}

// BuyBackRepository defines second-hand buy-back data access.
type BuyBackRepository interface {
	Create(ctx context.Context, buyback *model.BuyBack) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BuyBack, error)
	List(ctx context.Context, limit, offset int) ([]model.BuyBack, int, error)
	UpdateStatus(ctx context.Context, buyback *model.BuyBack) error

	// AnyIMEIHeld reports which of the given serials already belong to a
	// recorded buy-back.
	AnyIMEIHeld(ctx context.Context, imeis []string) ([]string, error)

	MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error)
}
