package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/customer/model"
)

// RepositoryInterface defines customer data access. The Tx variants run
// inside a caller-owned transaction so settlement can update balances and
// history atomically with the invoice insert.
type RepositoryInterface interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByMobile(ctx context.Context, mobile string) (*model.Customer, error)
	List(ctx context.Context, limit, offset int) ([]model.Customer, int, error)
	Update(ctx context.Context, customer *model.Customer) error

	// FindOrCreateTx resolves a customer by mobile, inserting one when
	// absent. The returned customer always exists in the database once
	// the surrounding transaction commits.
	FindOrCreateTx(ctx context.Context, tx pgx.Tx, name, mobile, address string) (*model.Customer, error)

	// AdjustBalanceTx adds delta (may be negative) to the outstanding
	// balance, flooring the result at zero.
	AdjustBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) error

	// AppendPurchaseTx appends an invoice id to the purchase history.
	AppendPurchaseTx(ctx context.Context, tx pgx.Tx, id, invoiceID uuid.UUID) error

	// GetByIDForUpdate locks the customer row for the duration of the
	// transaction before reading it.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Customer, error)
}
