package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"phoneshop-backend/internal/domains/invoice/model"
)

// ListFilter narrows invoice listings.
type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

// RepositoryInterface defines invoice data access. Settlement writes run
// inside a caller-owned transaction so the invoice insert commits or rolls
// back together with stock and balance mutations.
type RepositoryInterface interface {
	// CreateTx inserts the invoice. A unique-violation on invoice_number
	// maps to ErrDuplicateInvoiceNumber so the coordinator can renumber
	// and retry.
	CreateTx(ctx context.Context, tx pgx.Tx, invoice *model.Invoice) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]model.Invoice, int, error)

	// ListEMIActive returns EMI - Active invoices ordered by next due date.
	ListEMIActive(ctx context.Context) ([]model.Invoice, error)

	// GetByIDForUpdate locks the invoice row before reading it.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Invoice, error)

	// UpdateEMITx persists emi_details and status after an installment.
	UpdateEMITx(ctx context.Context, tx pgx.Tx, invoice *model.Invoice) error

	// MaxSequenceForDay scans stored invoice numbers with the day's prefix
	// and returns the highest trailing sequence. Numbering fallback when
	// the sequence source is unavailable.
	MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error)
}
