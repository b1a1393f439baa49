package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bizledger/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.CustomerFilter) ([]*models.Customer, int, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type customerRepo struct {
	db DBTX
}

func NewCustomerRepo(db DBTX) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, organization_id, name, email, phone, address, gstin, created_at, updated_at`

func (r *customerRepo) Create(ctx context.Context, c *models.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO customers (id, organization_id, name, email, phone, address, gstin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, c.ID, c.OrganizationID, c.Name, c.Email, c.Phone, c.Address, c.GSTIN, c.CreatedAt, c.UpdatedAt)
	return mapError(err, "customer")
}

func (r *customerRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 AND id = $2`
	c := &models.Customer{}
	err := r.db.QueryRow(ctx, query, orgID, id).Scan(
		&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.GSTIN, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "customer")
	}
	return c, nil
}

func (r *customerRepo) List(ctx context.Context, orgID uuid.UUID, filter models.CustomerFilter) ([]*models.Customer, int, error) {
	where := ` WHERE organization_id = $1`
	args := []interface{}{orgID}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR gstin ILIKE $%d)", len(args), len(args), len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + customerColumns + ` FROM customers` + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.GSTIN, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *customerRepo) Update(ctx context.Context, c *models.Customer) error {
	c.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4, gstin = $5, updated_at = $6
		WHERE organization_id = $7 AND id = $8`
	tag, err := r.db.Exec(ctx, query, c.Name, c.Email, c.Phone, c.Address, c.GSTIN, c.UpdatedAt, c.OrganizationID, c.ID)
	if err != nil {
		return mapError(err, "customer")
	}
	if tag.RowsAffected() == 0 {
		return mapError(errNoRows, "customer")
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return mapError(err, "customer")
	}
	if tag.RowsAffected() == 0 {
		return mapError(errNoRows, "customer")
	}
	return nil
}
