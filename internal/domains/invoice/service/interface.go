package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/invoice/model"
	"phoneshop-backend/internal/domains/invoice/repository"
)

// EMISummary is the flattened row the EMI collections screen works from.
type EMISummary struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerMobile  string          `json:"customer_mobile"`
	Products        string          `json:"products"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
	Paid            decimal.Decimal `json:"paid"`
	Remaining       decimal.Decimal `json:"remaining"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
	NextDueDate     string          `json:"next_due_date"`
	MonthsPaid      int             `json:"months_paid"`
	MonthsRemaining int             `json:"months_remaining"`
	Progress        string          `json:"progress"`
}

// ServiceInterface defines invoice business logic.
type ServiceInterface interface {
	// Create settles a cart: prices every line, allocates the document
	// discount, plans the payment, and commits invoice, stock, history and
	// balance mutations in one transaction.
	Create(ctx context.Context, req model.CreateInvoiceRequest, actorID *uuid.UUID) (*model.Invoice, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter repository.ListFilter) ([]model.Invoice, int, error)

	// PayInstallment records one EMI payment against a locked invoice and
	// reduces the customer's outstanding balance.
	PayInstallment(ctx context.Context, id uuid.UUID, req model.PayEMIRequest) (*model.Invoice, error)

	ListEMIActive(ctx context.Context) ([]EMISummary, error)
}
