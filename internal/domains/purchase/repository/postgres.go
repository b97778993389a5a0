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
	"github.com/jackc/pgx/v5/pgxpool"

	"phoneshop-backend/internal/domains/purchase/model"
)

// postgresPurchaseRepository implements PurchaseRepository
type postgresPurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository creates a new PostgreSQL purchase repository
func NewPurchaseRepository(pool *pgxpool.Pool) PurchaseRepository {
	return &postgresPurchaseRepository{
		pool: pool,
	}
}

const purchaseColumns = `
	id, purchase_number, supplier, supplier_invoice_number,
	items, total_amount, paid_amount, status, purchase_date,
	created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row rowScanner, p *model.Purchase) error {
	var itemsJSON []byte

	err := row.Scan(
		&p.ID,
		&p.PurchaseNumber,
		&p.Supplier,
		&p.SupplierInvoiceNumber,
		&itemsJSON,
		&p.TotalAmount,
		&p.PaidAmount,
		&p.Status,
		&p.PurchaseDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(itemsJSON, &p.Items); err != nil {
		return fmt.Errorf("failed to decode purchase items: %w", err)
	}
	return nil
}

// CreateTx implements PurchaseRepository.CreateTx
func (r *postgresPurchaseRepository) CreateTx(ctx context.Context, tx pgx.Tx, purchase *model.Purchase) error {
	items, err := json.Marshal(purchase.Items)
	if err != nil {
		return fmt.Errorf("failed to encode purchase items: %w", err)
	}

	query := `
		INSERT INTO purchases (
			id, purchase_number, supplier, supplier_invoice_number,
			items, total_amount, paid_amount, status, purchase_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.Exec(ctx, query,
		purchase.ID,
		purchase.PurchaseNumber,
		purchase.Supplier,
		purchase.SupplierInvoiceNumber,
		items,
		purchase.TotalAmount,
		purchase.PaidAmount,
		purchase.Status,
		purchase.PurchaseDate,
		purchase.CreatedAt,
		purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	return nil
}

// GetByID implements PurchaseRepository.GetByID
func (r *postgresPurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	var p model.Purchase
	err := scanPurchase(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return &p, nil
}

// List implements PurchaseRepository.List
func (r *postgresPurchaseRepository) List(ctx context.Context, limit, offset int) ([]model.Purchase, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := []model.Purchase{}
	for rows.Next() {
		var p model.Purchase
		if err := scanPurchase(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}

	return purchases, total, rows.Err()
}

// MaxSequenceForDay implements PurchaseRepository.MaxSequenceForDay
func (r *postgresPurchaseRepository) MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error) {
	pattern := fmt.Sprintf("%s-%s-%%", prefix, day.Format("20060102"))
	query := `SELECT purchase_number FROM purchases WHERE purchase_number LIKE $1`
	return maxTrailingSequence(ctx, r.pool, query, pattern)
}

func maxTrailingSequence(ctx context.Context, pool *pgxpool.Pool, query, pattern string) (int, error) {
	rows, err := pool.Query(ctx, query, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to scan document numbers: %w", err)
	}
	defer rows.Close()

	max := 0
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return 0, fmt.Errorf("failed to scan document number: %w", err)
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
