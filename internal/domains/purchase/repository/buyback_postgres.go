package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"phoneshop-backend/internal/domains/purchase/model"
)

// postgresBuyBackRepository implements BuyBackRepository
type postgresBuyBackRepository struct {
	pool *pgxpool.Pool
}

// NewBuyBackRepository creates a new PostgreSQL buy-back repository
func NewBuyBackRepository(pool *pgxpool.Pool) BuyBackRepository {
	return &postgresBuyBackRepository{
		pool: pool,
	}
}

const buybackColumns = `
	id, buyback_number, name, brand, category, sim_type, imei,
	specifications, description, original_price, buying_price,
	seller_name, seller_phone, seller_address,
	status, sold_to, purchased_by,
	created_at, updated_at
`

func scanBuyBack(row rowScanner, b *model.BuyBack) error {
	var soldToJSON []byte

	err := row.Scan(
		&b.ID,
		&b.BuyBackNumber,
		&b.Name,
		&b.Brand,
		&b.Category,
		&b.SIMType,
		pq.Array(&b.IMEI),
		&b.Specifications,
		&b.Description,
		&b.OriginalPrice,
		&b.BuyingPrice,
		&b.SellerName,
		&b.SellerPhone,
		&b.SellerAddress,
		&b.Status,
		&soldToJSON,
		&b.PurchasedBy,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if len(soldToJSON) > 0 && string(soldToJSON) != "null" {
		b.SoldTo = &model.SoldTo{}
		if err := json.Unmarshal(soldToJSON, b.SoldTo); err != nil {
			return fmt.Errorf("failed to decode sold-to details: %w", err)
		}
	}
	return nil
}

func encodeSoldTo(soldTo *model.SoldTo) ([]byte, error) {
	if soldTo == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(soldTo)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sold-to details: %w", err)
	}
	return data, nil
}

// Create implements BuyBackRepository.Create
func (r *postgresBuyBackRepository) Create(ctx context.Context, buyback *model.BuyBack) error {
	soldTo, err := encodeSoldTo(buyback.SoldTo)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO buybacks (
			id, buyback_number, name, brand, category, sim_type, imei,
			specifications, description, original_price, buying_price,
			seller_name, seller_phone, seller_address,
			status, sold_to, purchased_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	_, err = r.pool.Exec(ctx, query,
		buyback.ID,
		buyback.BuyBackNumber,
		buyback.Name,
		buyback.Brand,
		buyback.Category,
		buyback.SIMType,
		pq.Array(buyback.IMEI),
		buyback.Specifications,
		buyback.Description,
		buyback.OriginalPrice,
		buyback.BuyingPrice,
		buyback.SellerName,
		buyback.SellerPhone,
		buyback.SellerAddress,
		buyback.Status,
		soldTo,
		buyback.PurchasedBy,
		buyback.CreatedAt,
		buyback.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert buy-back: %w", err)
	}

	return nil
}

// GetByID implements BuyBackRepository.GetByID
func (r *postgresBuyBackRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BuyBack, error) {
	query := `SELECT ` + buybackColumns + ` FROM buybacks WHERE id = $1`

	var b model.BuyBack
	err := scanBuyBack(r.pool.QueryRow(ctx, query, id), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBuyBackNotFound
		}
		return nil, fmt.Errorf("failed to get buy-back: %w", err)
	}

	return &b, nil
}

// List implements BuyBackRepository.List
func (r *postgresBuyBackRepository) List(ctx context.Context, limit, offset int) ([]model.BuyBack, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM buybacks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count buy-backs: %w", err)
	}

	query := `SELECT ` + buybackColumns + ` FROM buybacks ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list buy-backs: %w", err)
	}
	defer rows.Close()

	buybacks := []model.BuyBack{}
	for rows.Next() {
		var b model.BuyBack
		if err := scanBuyBack(rows, &b); err != nil {
			return nil, 0, fmt.Errorf("failed to scan buy-back: %w", err)
		}
		buybacks = append(buybacks, b)
	}

	return buybacks, total, rows.Err()
}

// UpdateStatus implements BuyBackRepository.UpdateStatus
func (r *postgresBuyBackRepository) UpdateStatus(ctx context.Context, buyback *model.BuyBack) error {
	soldTo, err := encodeSoldTo(buyback.SoldTo)
	if err != nil {
		return err
	}

	query := `
		UPDATE buybacks SET
			status = $2, sold_to = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, buyback.ID, buyback.Status, soldTo)
	if err != nil {
		return fmt.Errorf("failed to update buy-back status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBuyBackNotFound
	}

	return nil
}

// AnyIMEIHeld implements BuyBackRepository.AnyIMEIHeld
func (r *postgresBuyBackRepository) AnyIMEIHeld(ctx context.Context, imeis []string) ([]string, error) {
	if len(imeis) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT s
		FROM buybacks, unnest(imei) AS s
		WHERE s = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, imeis)
	if err != nil {
		return nil, fmt.Errorf("failed to check held IMEIs: %w", err)
	}
	defer rows.Close()

	held := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan held IMEI: %w", err)
		}
		held = append(held, s)
	}

	return held, rows.Err()
}

// MaxSequenceForDay implements BuyBackRepository.MaxSequenceForDay
func (r *postgresBuyBackRepository) MaxSequenceForDay(ctx context.Context, prefix string, day time.Time) (int, error) {
	pattern := fmt.Sprintf("%s-%s-%%", prefix, day.Format("20060102"))
	query := `SELECT buyback_number FROM buybacks WHERE buyback_number LIKE $1`
	return maxTrailingSequence(ctx, r.pool, query, pattern)
}
