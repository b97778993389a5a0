package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	customerrepo "phoneshop-backend/internal/domains/customer/repository"
	"phoneshop-backend/internal/domains/invoice/model"
	"phoneshop-backend/internal/domains/invoice/repository"
	productrepo "phoneshop-backend/internal/domains/product/repository"
	"phoneshop-backend/internal/infrastructure/sequence"
	"phoneshop-backend/pkg/database"
	"phoneshop-backend/pkg/logger"
)

const invoicePrefix = "INV"

// numberingAttempts bounds the renumber-and-retry loop when a concurrent
// settlement grabs the same invoice number.
const numberingAttempts = 3

// InvoiceService coordinates settlement: pricing, allocation, payment
// planning, numbering, and the single transaction that commits the invoice
// together with its stock, history and balance side effects.
type InvoiceService struct {
	invoiceRepo  repository.RepositoryInterface
	productRepo  productrepo.RepositoryInterface
	customerRepo customerrepo.RepositoryInterface
	pricer       *Pricer
	seq          sequence.Daily
	tx           database.TxManager
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.RepositoryInterface,
	productRepo productrepo.RepositoryInterface,
	customerRepo customerrepo.RepositoryInterface,
	pricer *Pricer,
	seq sequence.Daily,
	tx database.TxManager,
) ServiceInterface {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		pricer:       pricer,
		seq:          seq,
		tx:           tx,
		now:          time.Now,
	}
}

// Create implements ServiceInterface.Create
func (s *InvoiceService) Create(ctx context.Context, req model.CreateInvoiceRequest, actorID *uuid.UUID) (*model.Invoice, error) {
	name := strings.TrimSpace(req.CustomerName)
	mobile := strings.TrimSpace(req.CustomerMobile)
	if name == "" || mobile == "" {
		return nil, model.ErrCustomerContactRequired
	}
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	now := s.now()

	// Price every line up front. Any business failure aborts here, before
	// a single row has been touched.
	lines := make([]model.InvoiceLine, 0, len(req.Items))
	intents := make([]StockIntent, 0, len(req.Items))
	for _, item := range req.Items {
		priced, err := s.pricer.PriceLine(ctx, item, now)
		if err != nil {
			return nil, err
		}
		lines = append(lines, priced.Line)
		if priced.Intent != nil {
			intents = append(intents, *priced.Intent)
		}
	}

	lines, totals := AllocateDocumentDiscount(lines, req.Discount, req.DiscountType)

	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = model.PaymentCash
	}

	var emi *model.EMIDetails
	if paymentMode == model.PaymentEMI || paymentMode == model.PaymentMixed {
		emi = BuildEMIPlan(req.EMI, totals.GrandTotal, paymentMode, now)
	}

	var mixed []model.MixedPayment
	if paymentMode == model.PaymentMixed {
		CheckMixedPayments(req.MixedPayments, req.PaidAmount)
		mixed = make([]model.MixedPayment, 0, len(req.MixedPayments))
		for _, p := range req.MixedPayments {
			mixed = append(mixed, model.MixedPayment{Mode: p.Mode, Amount: p.Amount})
		}
	}

	status := req.Status
	if emi != nil {
		status = model.StatusEMIActive
	} else if status == "" {
		status = model.StatusPaid
	}

	invoice := &model.Invoice{
		ID:             uuid.New(),
		CustomerName:   name,
		CustomerMobile: mobile,
		Items:          lines,
		SubTotal:       totals.SubTotal,
		Discount:       totals.Discount,
		DiscountType:   discountTypeOrDefault(req.DiscountType),
		DiscountValue:  req.Discount,
		GSTTotal:       totals.GSTTotal,
		GrandTotal:     totals.GrandTotal,
		PaymentMode:    paymentMode,
		PaymentDetails: req.PaymentDetails,
		MixedPayments:  mixed,
		EMIDetails:     emi,
		Status:         status,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	balanceDelta := s.balanceDelta(invoice, req.PaidAmount)

	var lastErr error
	for attempt := 0; attempt < numberingAttempts; attempt++ {
		number, err := s.nextInvoiceNumber(ctx, now)
		if err != nil {
			return nil, err
		}
		invoice.InvoiceNumber = number

		err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return s.commitSettlement(ctx, tx, invoice, req.CustomerAddress, intents, balanceDelta)
		})
		if err == nil {
			logger.Info("Invoice created", map[string]interface{}{
				"invoice_number": invoice.InvoiceNumber,
				"grand_total":    invoice.GrandTotal.String(),
				"payment_mode":   invoice.PaymentMode,
			})
			return invoice, nil
		}
		if !errors.Is(err, model.ErrDuplicateInvoiceNumber) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("invoice numbering exhausted after %d attempts: %w", numberingAttempts, lastErr)
}

// commitSettlement runs the all-or-nothing write phase inside one
// transaction: customer, invoice, stock, history, balance.
func (s *InvoiceService) commitSettlement(ctx context.Context, tx pgx.Tx, invoice *model.Invoice, address string, intents []StockIntent, balanceDelta decimal.Decimal) error {
	customer, err := s.customerRepo.FindOrCreateTx(ctx, tx, invoice.CustomerName, invoice.CustomerMobile, address)
	if err != nil {
		return err
	}
	invoice.CustomerID = customer.ID

	if err := s.invoiceRepo.CreateTx(ctx, tx, invoice); err != nil {
		return err
	}

	for _, intent := range intents {
		if err := s.productRepo.DecrementStockTx(ctx, tx, intent.ProductID, intent.Quantity, intent.IMEIs); err != nil {
			return err
		}
	}

	if err := s.customerRepo.AppendPurchaseTx(ctx, tx, customer.ID, invoice.ID); err != nil {
		return err
	}

	if !balanceDelta.IsZero() {
		if err := s.customerRepo.AdjustBalanceTx(ctx, tx, customer.ID, balanceDelta); err != nil {
			return err
		}
	}

	return nil
}

// balanceDelta computes what the settlement adds to the customer's
// outstanding balance. Fully paid and completed-EMI invoices add nothing;
// unpaid and partial ones add the shortfall; an active EMI adds everything
// beyond the down payment.
func (s *InvoiceService) balanceDelta(invoice *model.Invoice, paidAmount decimal.Decimal) decimal.Decimal {
	switch invoice.Status {
	case model.StatusPaid, model.StatusEMICompleted, model.StatusCancelled:
		return decimal.Zero
	case model.StatusEMIActive:
		down := decimal.Zero
		if invoice.EMIDetails != nil {
			down = invoice.EMIDetails.DownPayment
		}
		return invoice.GrandTotal.Sub(down)
	default:
		return invoice.GrandTotal.Sub(paidAmount)
	}
}

// nextInvoiceNumber formats INV-YYYYMMDD-NNN from the daily sequence. When
// the sequence source is down the stored numbers are scanned instead; that
// path can collide under concurrency, which the caller's retry absorbs.
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context, day time.Time) (string, error) {
	n, err := s.seq.Next(ctx, invoicePrefix, day)
	if err != nil {
		logger.Warn("Sequence source unavailable, falling back to stored scan",
			map[string]interface{}{"error": err.Error()})
		max, scanErr := s.invoiceRepo.MaxSequenceForDay(ctx, invoicePrefix, day)
		if scanErr != nil {
			return "", fmt.Errorf("invoice numbering failed: %w", scanErr)
		}
		n = max + 1
	}

	return fmt.Sprintf("%s-%s-%03d", invoicePrefix, day.Format("20060102"), n), nil
}

func discountTypeOrDefault(t string) string {
	if t == model.DiscountPercentage {
		return model.DiscountPercentage
	}
	return model.DiscountFixed
}

// GetByID implements ServiceInterface.GetByID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// List implements ServiceInterface.List
func (s *InvoiceService) List(ctx context.Context, filter repository.ListFilter) ([]model.Invoice, int, error) {
	return s.invoiceRepo.List(ctx, filter)
}

// PayInstallment implements ServiceInterface.PayInstallment
func (s *InvoiceService) PayInstallment(ctx context.Context, id uuid.UUID, req model.PayEMIRequest) (*model.Invoice, error) {
	var invoice *model.Invoice
	now := s.now()

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		inv, err := s.invoiceRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := ApplyInstallment(inv, req.Amount, req.PaymentMode, req.Note, now); err != nil {
			return err
		}

		if err := s.invoiceRepo.UpdateEMITx(ctx, tx, inv); err != nil {
			return err
		}

		if err := s.customerRepo.AdjustBalanceTx(ctx, tx, inv.CustomerID, req.Amount.Neg()); err != nil {
			return err
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("EMI installment recorded", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"amount":         req.Amount.String(),
		"status":         invoice.Status,
	})

	return invoice, nil
}

// ListEMIActive implements ServiceInterface.ListEMIActive
func (s *InvoiceService) ListEMIActive(ctx context.Context) ([]EMISummary, error) {
	invoices, err := s.invoiceRepo.ListEMIActive(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]EMISummary, 0, len(invoices))
	for i := range invoices {
		summaries = append(summaries, summarizeEMI(&invoices[i]))
	}

	return summaries, nil
}

func summarizeEMI(inv *model.Invoice) EMISummary {
	names := make([]string, 0, len(inv.Items))
	for _, l := range inv.Items {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}

	summary := EMISummary{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerName:   inv.CustomerName,
		CustomerMobile: inv.CustomerMobile,
		Products:       strings.Join(names, ", "),
	}

	emi := inv.EMIDetails
	if emi == nil {
		return summary
	}

	payable := emi.TotalPayable(inv.GrandTotal).Round(0)
	remaining := payable.Sub(emi.TotalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	monthsPaid := emi.MonthsPaid()
	monthsRemaining := emi.TenureMonths - monthsPaid
	if monthsRemaining < 0 {
		monthsRemaining = 0
	}

	summary.TotalPayable = payable
	summary.Paid = emi.TotalPaid
	summary.Remaining = remaining.Round(0)
	summary.MonthlyEMI = emi.MonthlyInstallment
	summary.NextDueDate = emi.NextDueDate.Format("2006-01-02")
	summary.MonthsPaid = monthsPaid
	summary.MonthsRemaining = monthsRemaining
	summary.Progress = fmt.Sprintf("%d/%d", monthsPaid, emi.TenureMonths)

	return summary
}
