package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"phoneshop-backend/internal/domains/invoice/model"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
	}
}

// Lines, mixed payments and the EMI plan live in jsonb columns. They are
// document snapshots that are always read and written with the invoice,
// never queried relationally.
const invoiceColumns = `
	id, invoice_number, customer_id, customer_name, customer_mobile,
	items, sub_total, discount, discount_type, discount_value,
	gst_total, grand_total,
	payment_mode, payment_details, mixed_payments, emi_details,
	status, created_by, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner, inv *model.Invoice) error {
	var (
		itemsJSON []byte
		mixedJSON []byte
		emiJSON   []byte
	)

	err := row.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.CustomerID,
		&inv.CustomerName,
		&inv.CustomerMobile,
		&itemsJSON,
		&inv.SubTotal,
		&inv.Discount,
		&inv.DiscountType,
		&inv.DiscountValue,
		&inv.GSTTotal,
		&inv.GrandTotal,
		&inv.PaymentMode,
		&inv.PaymentDetails,
		&mixedJSON,
		&emiJSON,
		&inv.Status,
		&inv.CreatedBy,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
		return fmt.Errorf("failed to decode invoice items: %w", err)
	}
	if len(mixedJSON) > 0 {
		if err := json.Unmarshal(mixedJSON, &inv.MixedPayments); err != nil {
			return fmt.Errorf("failed to decode mixed payments: %w", err)
		}
	}
	if len(emiJSON) > 0 && string(emiJSON) != "null" {
		inv.EMIDetails = &model.EMIDetails{}
		if err := json.Unmarshal(emiJSON, inv.EMIDetails); err != nil {
			return fmt.Errorf("failed to decode emi details: %w", err)
		}
	}

	return nil
}

func encodeInvoiceDocs(inv *model.Invoice) (items, mixed, emi []byte, err error) {
	items, err = json.Marshal(inv.Items)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode invoice items: %w", err)
	}

	if inv.MixedPayments == nil {
		mixed = []byte("[]")
	} else if mixed, err = json.Marshal(inv.MixedPayments); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode mixed payments: %w", err)
	}

	if inv.EMIDetails == nil {
		emi = []byte("null")
	} else if emi, err = json.Marshal(inv.EMIDetails); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode emi details: %w", err)
	}

	return items, mixed, emi, nil
}

// CreateTx implements RepositoryInterface.CreateTx
func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, invoice *model.Invoice) error {
	items, mixed, emi, err := encodeInvoiceDocs(invoice)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (
			id, invoice_number, customer_id, customer_name, customer_mobile,
			items, sub_total, discount, discount_type, discount_value,
			gst_total, grand_total,
			payment_mode, payment_details, mixed_payments, emi_details,
			status, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`

	_, err = tx.Exec(ctx, query,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.CustomerID,
		invoice.CustomerName,
		invoice.CustomerMobile,
		items,
		invoice.SubTotal,
		invoice.Discount,
		invoice.DiscountType,
		invoice.DiscountValue,
		invoice.GSTTotal,
		invoice.GrandTotal,
		invoice.PaymentMode,
		invoice.PaymentDetails,
		mixed,
		emi,
		invoice.Status,
		invoice.CreatedBy,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	return nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	var inv model.Invoice
	err := scanInvoice(r.pool.QueryRow(ctx, query, id), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return &inv, nil
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]model.Invoice, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM invoices WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(
		`SELECT %s FROM invoices WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []model.Invoice{}
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, total, rows.Err()
}

// ListEMIActive implements RepositoryInterface.ListEMIActive
func (r *postgresRepository) ListEMIActive(ctx context.Context) ([]model.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status = $1
		ORDER BY (emi_details->>'next_due_date') ASC
	`

	rows, err := r.pool.Query(ctx, query, model.StatusEMIActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list emi invoices: %w", err)
	}
	defer rows.Close()

	invoices := []model.Invoice{}
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

// GetByIDForUpdate implements RepositoryInterface.GetByIDForUpdate
func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`

	var inv model.Invoice
	err := scanInvoice(tx.QueryRow(ctx, query, id), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to lock invoice: %w", err)
	}

	return &inv, nil
}

// UpdateEMITx implements RepositoryInterface.UpdateEMITx
func (r *postgresRepository) UpdateEMITx(ctx context.Context, tx pgx.Tx, invoice *model.Invoice) error {
	emi := []byte("null")
	if invoice.EMIDetails != nil {
		var err error
		emi, err = json.Marshal(invoice.EMIDetails)
		if err != nil {
			return fmt.Errorf("failed to encode emi details: %w", err)
		}
	}

	query := `
		UPDATE invoices SET
			emi_details = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, invoice.ID, emi, invoice.Status)
	if err != nil {
		return fmt.Errorf("failed to update emi details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInvoiceNotFound
	}

	return nil
}

// MaxSequenceForDay implements RepositoryInterface.MaxSequenceForDay
func (r *postgresRepository) MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error) {
	pattern := fmt.Sprintf("%s-%s-%%", prefix, day.Format("20060102"))

	query := `SELECT invoice_number FROM invoices WHERE invoice_number LIKE $1`
	rows, err := r.pool.Query(ctx, query, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to scan invoice numbers: %w", err)
	}
	defer rows.Close()

	max := 0
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return 0, fmt.Errorf("failed to scan invoice number: %w", err)
		}
		parts := strings.Split(number, "-")
		if len(parts) == 0 {
			continue
		}
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil && n > max {
			max = n
		}
	}

	return max, rows.Err()
}
