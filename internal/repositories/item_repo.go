package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error)
	GetByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Item, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.ItemFilter) ([]*models.Item, int, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	AdjustStock(ctx context.Context, orgID, id uuid.UUID, delta int) (*models.Item, error)
}

type itemRepo struct {
	db DBTX
}

func NewItemRepo(db DBTX) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `id, organization_id, name, item_type, unit_price, tax_rate, hsn_sac_code, stock_quantity, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	it := &models.Item{}
	err := row.Scan(&it.ID, &it.OrganizationID, &it.Name, &it.ItemType, &it.UnitPrice, &it.TaxRate,
		&it.HSNSACCode, &it.StockQuantity, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *itemRepo) Create(ctx context.Context, it *models.Item) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	now := time.Now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now

	query := `
		INSERT INTO items (id, organization_id, name, item_type, unit_price, tax_rate, hsn_sac_code, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query, it.ID, it.OrganizationID, it.Name, it.ItemType, it.UnitPrice, it.TaxRate,
		it.HSNSACCode, it.StockQuantity, it.CreatedAt, it.UpdatedAt)
	return mapError(err, "item")
}

func (r *itemRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE organization_id = $1 AND id = $2`
	it, err := scanItem(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, mapError(err, "item")
	}
	return it, nil
}

func (r *itemRepo) GetByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE organization_id = $1 AND id = ANY($2)`
	rows, err := r.db.Query(ctx, query, orgID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID]*models.Item, len(ids))
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items[it.ID] = it
	}
	return items, rows.Err()
}

func (r *itemRepo) List(ctx context.Context, orgID uuid.UUID, filter models.ItemFilter) ([]*models.Item, int, error) {
	where := ` WHERE organization_id = $1`
	args := []interface{}{orgID}
	if filter.ItemType != "" {
		args = append(args, filter.ItemType)
		where += fmt.Sprintf(" AND item_type = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR hsn_sac_code ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + itemColumns + ` FROM items` + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *itemRepo) Update(ctx context.Context, it *models.Item) error {
	it.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE items
		SET name = $1, item_type = $2, unit_price = $3, tax_rate = $4, hsn_sac_code = $5, stock_quantity = $6, updated_at = $7
		WHERE organization_id = $8 AND id = $9`
	tag, err := r.db.Exec(ctx, query, it.Name, it.ItemType, it.UnitPrice, it.TaxRate, it.HSNSACCode, it.StockQuantity,
		it.UpdatedAt, it.OrganizationID, it.ID)
	if err != nil {
		return mapError(err, "item")
	}
	if tag.RowsAffected() == 0 {
		return mapError(errNoRows, "item")
	}
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return mapError(err, "item")
	}
	if tag.RowsAffected() == 0 {
		return mapError(errNoRows, "item")
	}
	return nil
}

// AdjustStock applies delta to a product's stock. The update is refused when
// the item is not a product or the result would go negative.
func (r *itemRepo) AdjustStock(ctx context.Context, orgID, id uuid.UUID, delta int) (*models.Item, error) {
	query := `
		UPDATE items
		SET stock_quantity = stock_quantity + $3, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2 AND item_type = 'product' AND stock_quantity + $3 >= 0
		RETURNING ` + itemColumns
	it, err := scanItem(r.db.QueryRow(ctx, query, orgID, id, delta))
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	current, getErr := r.GetByID(ctx, orgID, id)
	if getErr != nil {
		return nil, getErr
	}
	if !current.IsProduct() {
		return nil, common.Validationf("stock is only tracked for products")
	}
	return nil, common.Validationf("insufficient stock for %s", current.Name)
}

// decrementStock is used inside the checkout transaction.
func decrementStock(ctx context.Context, db DBTX, orgID, itemID uuid.UUID, qty int) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE items
		SET stock_quantity = stock_quantity - $3, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2 AND stock_quantity >= $3`, orgID, itemID, qty)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
