package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"phoneshop-backend/internal/domains/offer/model"
)

// PostgresRepository implements OfferRepository with PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new instance
func NewRepository(db *pgxpool.Pool) OfferRepository {
	return &PostgresRepository{db: db}
}

const offerColumns = `
	id, name, description, offer_type, target_id,
	discount_type, discount_value, min_quantity,
	start_date, end_date, is_active,
	created_at, updated_at
`

func scanOffer(row pgx.Row, o *model.Offer) error {
	return row.Scan(
		&o.ID,
		&o.Name,
		&o.Description,
		&o.OfferType,
		&o.TargetID,
		&o.DiscountType,
		&o.DiscountValue,
		&o.MinQuantity,
		&o.StartDate,
		&o.EndDate,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// Create inserts a new offer
func (r *PostgresRepository) Create(ctx context.Context, offer *model.Offer) error {
	query := `
		INSERT INTO offers (
			id, name, description, offer_type, target_id,
			discount_type, discount_value, min_quantity,
			start_date, end_date, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		offer.ID,
		offer.Name,
		offer.Description,
		offer.OfferType,
		offer.TargetID,
		offer.DiscountType,
		offer.DiscountValue,
		offer.MinQuantity,
		offer.StartDate,
		offer.EndDate,
		offer.IsActive,
		offer.CreatedAt,
		offer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}

	return nil
}

// GetByID finds an offer by id
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	var o model.Offer
	err := scanOffer(r.db.QueryRow(ctx, query, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	return &o, nil
}

// List returns all offers, newest first
func (r *PostgresRepository) List(ctx context.Context) ([]model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		if err := scanOffer(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan offer row: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offer rows: %w", err)
	}

	return offers, nil
}

// Update rewrites an offer
func (r *PostgresRepository) Update(ctx context.Context, offer *model.Offer) error {
	query := `
		UPDATE offers
		SET
			name = $2, description = $3, offer_type = $4, target_id = $5,
			discount_type = $6, discount_value = $7, min_quantity = $8,
			start_date = $9, end_date = $10, is_active = $11,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		offer.ID,
		offer.Name,
		offer.Description,
		offer.OfferType,
		offer.TargetID,
		offer.DiscountType,
		offer.DiscountValue,
		offer.MinQuantity,
		offer.StartDate,
		offer.EndDate,
		offer.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOfferNotFound
	}

	return nil
}

// Delete removes an offer
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM offers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOfferNotFound
	}

	return nil
}

// FindEligible implements OfferRepository.FindEligible
func (r *PostgresRepository) FindEligible(ctx context.Context, offerType, targetID string, quantity int, asOf time.Time) ([]model.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE is_active = TRUE
		  AND offer_type = $1
		  AND ($2 = '' OR target_id = $2)
		  AND min_quantity <= $3
		  AND start_date <= $4
		  AND (end_date IS NULL OR end_date >= $4)
		ORDER BY min_quantity DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, offerType, targetID, quantity, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to find eligible offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		if err := scanOffer(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan offer row: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offer rows: %w", err)
	}

	return offers, nil
}
