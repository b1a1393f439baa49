package repositories

import (
	"context"

	"github.com/google/uuid"

	"bizledger/internal/models"
)

type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type organizationRepo struct {
	db DBTX
}

func NewOrganizationRepo(db DBTX) OrganizationRepository {
	return &organizationRepo{db: db}
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org := &models.Organization{}
	query := `
		SELECT id, name, gstin, state_code, address, status, created_at, updated_at
		FROM organizations
		WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.GSTIN, &org.StateCode, &org.Address, &org.Status, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "organization")
	}
	return org, nil
}

// ListActiveIDs is used by background jobs that sweep every organization.
func (r *organizationRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM organizations WHERE status = $1 ORDER BY created_at`, models.OrganizationActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
