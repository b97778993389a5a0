package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"phoneshop-backend/internal/domains/customer/model"
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

const customerColumns = `
	id, name, mobile, address, id_proof,
	purchase_history, outstanding_balance,
	created_at, updated_at
`

// purchase_history is a text[] column; uuids cross the wire as strings.
func scanCustomer(row pgx.Row, c *model.Customer) error {
	var history []string
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Mobile,
		&c.Address,
		&c.IDProof,
		pq.Array(&history),
		&c.OutstandingBalance,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return err
	}

	c.PurchaseHistory = make([]uuid.UUID, 0, len(history))
	for _, s := range history {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		c.PurchaseHistory = append(c.PurchaseHistory, id)
	}
	return nil
}

func historyStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Create implements RepositoryInterface.Create
func (r *postgresRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (
			id, name, mobile, address, id_proof,
			purchase_history, outstanding_balance,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.Name,
		customer.Mobile,
		customer.Address,
		customer.IDProof,
		pq.Array(historyStrings(customer.PurchaseHistory)),
		customer.OutstandingBalance,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateMobile
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	return nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var c model.Customer
	err := scanCustomer(r.pool.QueryRow(ctx, query, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &c, nil
}

// GetByMobile implements RepositoryInterface.GetByMobile
func (r *postgresRepository) GetByMobile(ctx context.Context, mobile string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE mobile = $1`

	var c model.Customer
	err := scanCustomer(r.pool.QueryRow(ctx, query, mobile), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by mobile: %w", err)
	}

	return &c, nil
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.Customer, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, total, rows.Err()
}

// Update implements RepositoryInterface.Update
func (r *postgresRepository) Update(ctx context.Context, customer *model.Customer) error {
	query := `
		UPDATE customers SET
			name = $2, mobile = $3, address = $4, id_proof = $5,
			updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.Name,
		customer.Mobile,
		customer.Address,
		customer.IDProof,
		customer.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateMobile
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}

	return nil
}

// FindOrCreateTx implements RepositoryInterface.FindOrCreateTx
func (r *postgresRepository) FindOrCreateTx(ctx context.Context, tx pgx.Tx, name, mobile, address string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE mobile = $1`

	var c model.Customer
	err := scanCustomer(tx.QueryRow(ctx, query, mobile), &c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	req := model.CreateCustomerRequest{Name: name, Mobile: mobile, Address: address}
	fresh := req.ToEntity()

	insert := `
		INSERT INTO customers (
			id, name, mobile, address, id_proof,
			purchase_history, outstanding_balance,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (mobile) DO UPDATE SET updated_at = NOW()
		RETURNING ` + customerColumns

	// ON CONFLICT covers the race where two settlements register the same
	// walk-in customer concurrently; both end up with the same row.
	err = scanCustomer(tx.QueryRow(ctx, insert,
		fresh.ID,
		fresh.Name,
		fresh.Mobile,
		fresh.Address,
		fresh.IDProof,
		pq.Array([]string{}),
		fresh.OutstandingBalance,
		fresh.CreatedAt,
		fresh.UpdatedAt,
	), &c)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return &c, nil
}

// AdjustBalanceTx implements RepositoryInterface.AdjustBalanceTx
func (r *postgresRepository) AdjustBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE customers SET
			outstanding_balance = GREATEST(outstanding_balance + $2, 0),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}

	return nil
}

// AppendPurchaseTx implements RepositoryInterface.AppendPurchaseTx
func (r *postgresRepository) AppendPurchaseTx(ctx context.Context, tx pgx.Tx, id, invoiceID uuid.UUID) error {
	query := `
		UPDATE customers SET
			purchase_history = array_append(purchase_history, $2),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, invoiceID.String())
	if err != nil {
		return fmt.Errorf("failed to append purchase history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}

	return nil
}

// GetByIDForUpdate implements RepositoryInterface.GetByIDForUpdate
func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`

	var c model.Customer
	err := scanCustomer(tx.QueryRow(ctx, query, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to lock customer: %w", err)
	}

	return &c, nil
}
