package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/product/model"
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

const productColumns = `
	id, name, brand, category, imei, track_imei, sim_type,
	purchase_price, selling_price, gst_percent,
	stock_quantity, low_stock_threshold,
	supplier_id, warranty_period, description,
	created_at, updated_at
`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.Category,
		pq.Array(&p.IMEI),
		&p.TrackIMEI,
		&p.SIMType,
		&p.PurchasePrice,
		&p.SellingPrice,
		&p.GSTPercent,
		&p.StockQuantity,
		&p.LowStockThreshold,
		&p.SupplierID,
		&p.WarrantyPeriod,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create implements RepositoryInterface.Create
func (r *postgresRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (
			id, name, brand, category, imei, track_imei, sim_type,
			purchase_price, selling_price, gst_percent,
			stock_quantity, low_stock_threshold,
			supplier_id, warranty_period, description,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Brand,
		product.Category,
		pq.Array(product.IMEI),
		product.TrackIMEI,
		product.SIMType,
		product.PurchasePrice,
		product.SellingPrice,
		product.GSTPercent,
		product.StockQuantity,
		product.LowStockThreshold,
		product.SupplierID,
		product.WarrantyPeriod,
		product.Description,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]model.Product, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand = $%d", argIdx))
		args = append(args, filter.Brand)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		productColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, total, nil
}

// Update implements RepositoryInterface.Update
func (r *postgresRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET
			name = $2, brand = $3, category = $4, imei = $5, track_imei = $6,
			sim_type = $7, purchase_price = $8, selling_price = $9,
			gst_percent = $10, stock_quantity = $11, low_stock_threshold = $12,
			supplier_id = $13, warranty_period = $14, description = $15,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Brand,
		product.Category,
		pq.Array(product.IMEI),
		product.TrackIMEI,
		product.SIMType,
		product.PurchasePrice,
		product.SellingPrice,
		product.GSTPercent,
		product.StockQuantity,
		product.LowStockThreshold,
		product.SupplierID,
		product.WarrantyPeriod,
		product.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Delete implements RepositoryInterface.Delete
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// ListLowStock implements RepositoryInterface.ListLowStock
func (r *postgresRepository) ListLowStock(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, nil
}

// DecrementStockTx implements RepositoryInterface.DecrementStockTx.
// The WHERE clause makes the decrement conditional: zero rows affected means
// either the product is gone or stock was insufficient at commit time.
func (r *postgresRepository) DecrementStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string) error {
	query := `
		UPDATE products
		SET
			stock_quantity = stock_quantity - $2,
			imei = (
				SELECT COALESCE(array_agg(s), '{}')
				FROM unnest(imei) AS s
				WHERE s <> ALL($3)
			),
			updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
	`

	tag, err := tx.Exec(ctx, query, id, quantity, pq.Array(imeis))
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish missing product from insufficient stock.
		var name string
		var available int
		checkErr := tx.QueryRow(ctx,
			"SELECT name, stock_quantity FROM products WHERE id = $1", id,
		).Scan(&name, &available)
		if checkErr != nil {
			if errors.Is(checkErr, pgx.ErrNoRows) {
				return model.ErrProductNotFound
			}
			return fmt.Errorf("failed to check product stock: %w", checkErr)
		}
		return model.NewInsufficientStockError(name, available, quantity)
	}

	return nil
}

// AddStockTx implements RepositoryInterface.AddStockTx
func (r *postgresRepository) AddStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int, imeis []string, purchasePrice *decimal.Decimal) error {
	query := `
		UPDATE products
		SET
			stock_quantity = stock_quantity + $2,
			imei = imei || $3,
			purchase_price = COALESCE($4, purchase_price),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, quantity, pq.Array(imeis), purchasePrice)
	if err != nil {
		return fmt.Errorf("failed to add stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}
