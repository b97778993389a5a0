package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/product/model"
)

// ListFilter narrows List results.
type ListFilter struct {
	Category string
	Brand    string
	Search   string
	Page     int
	Limit    int
}

// RepositoryInterface defines product data access.
type RepositoryInterface interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter ListFilter) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListLowStock(ctx context.Context) ([]model.Product, error)

	// DecrementStockTx performs a conditional atomic decrement inside the
	// given transaction: stock is reduced only when the current quantity is
	// sufficient, so concurrent invoices can never oversell. The supplied
	// serials are removed from the product's IMEI pool in the same statement.
	DecrementStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string) error

	// AddStockTx increments stock and appends serials (purchase intake).
	// A non-nil purchasePrice also refreshes the product's cost price.
	AddStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string, purchasePrice *decimal.Decimal) error
}
