package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"bizledger/internal/models"
)

type GstReturnRepository interface {
	// Upsert replaces the computed figures for (organization, period, return
	// type). Status, notes and reference number of an existing row survive.
	Upsert(ctx context.Context, ret *models.GstReturn) (*models.GstReturn, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.GstReturn, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.GstReturn, int, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, update models.GstStatusUpdate) (*models.GstReturn, error)
}

type gstReturnRepo struct {
	db DBTX
}

func NewGstReturnRepo(db DBTX) GstReturnRepository {
	return &gstReturnRepo{db: db}
}

const gstReturnColumns = `id, organization_id, period, period_start, period_end, return_type, status,
	total_taxable_value, total_tax, total_cess, gross_turnover, payments_received, outstanding_tax_liability,
	total_invoices, total_transactions, summary_breakup, notes, reference_number, filed_at, generated_by,
	created_at, updated_at`

func scanGstReturn(row rowScanner) (*models.GstReturn, error) {
	g := &models.GstReturn{}
	var breakup []byte
	err := row.Scan(&g.ID, &g.OrganizationID, &g.Period, &g.PeriodStart, &g.PeriodEnd, &g.ReturnType, &g.Status,
		&g.TotalTaxableValue, &g.TotalTax, &g.TotalCess, &g.GrossTurnover, &g.PaymentsReceived, &g.OutstandingTaxLiability,
		&g.TotalInvoices, &g.TotalTransactions, &breakup, &g.Notes, &g.ReferenceNumber, &g.FiledAt, &g.GeneratedBy,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(breakup) > 0 {
		if err := json.Unmarshal(breakup, &g.SummaryBreakup); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary_breakup: %w", err)
		}
	}
	if g.SummaryBreakup.Invoices == nil {
		g.SummaryBreakup.Invoices = map[string]models.BreakupBucket{}
	}
	return g, nil
}

func (r *gstReturnRepo) Upsert(ctx context.Context, g *models.GstReturn) (*models.GstReturn, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Status == "" {
		g.Status = models.GstStatusDraft
	}
	breakup, err := json.Marshal(g.SummaryBreakup)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary_breakup: %w", err)
	}

	query := `
		INSERT INTO gst_returns (id, organization_id, period, period_start, period_end, return_type, status,
			total_taxable_value, total_tax, total_cess, gross_turnover, payments_received, outstanding_tax_liability,
			total_invoices, total_transactions, summary_breakup, generated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		ON CONFLICT (organization_id, period, return_type)
		DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			total_taxable_value = EXCLUDED.total_taxable_value,
			total_tax = EXCLUDED.total_tax,
			total_cess = EXCLUDED.total_cess,
			gross_turnover = EXCLUDED.gross_turnover,
			payments_received = EXCLUDED.payments_received,
			outstanding_tax_liability = EXCLUDED.outstanding_tax_liability,
			total_invoices = EXCLUDED.total_invoices,
			total_transactions = EXCLUDED.total_transactions,
			summary_breakup = EXCLUDED.summary_breakup,
			generated_by = EXCLUDED.generated_by,
			updated_at = NOW()
		RETURNING ` + gstReturnColumns

	saved, err := scanGstReturn(r.db.QueryRow(ctx, query, g.ID, g.OrganizationID, g.Period, g.PeriodStart, g.PeriodEnd,
		g.ReturnType, g.Status, g.TotalTaxableValue, g.TotalTax, g.TotalCess, g.GrossTurnover, g.PaymentsReceived,
		g.OutstandingTaxLiability, g.TotalInvoices, g.TotalTransactions, breakup, g.GeneratedBy))
	if err != nil {
		return nil, mapError(err, "GST return")
	}
	return saved, nil
}

func (r *gstReturnRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.GstReturn, error) {
	query := `SELECT ` + gstReturnColumns + ` FROM gst_returns WHERE organization_id = $1 AND id = $2`
	g, err := scanGstReturn(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, mapError(err, "GST return")
	}
	return g, nil
}

func (r *gstReturnRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.GstReturn, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gst_returns WHERE organization_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + gstReturnColumns + `
		FROM gst_returns
		WHERE organization_id = $1
		ORDER BY period DESC, return_type ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	returns := []*models.GstReturn{}
	for rows.Next() {
		g, err := scanGstReturn(rows)
		if err != nil {
			return nil, 0, err
		}
		returns = append(returns, g)
	}
	return returns, total, rows.Err()
}

// UpdateStatus sets the filing status. filed_at is stamped the first time a
// return reaches "filed". A nil note or reference keeps the stored value and
// an empty one clears it.
func (r *gstReturnRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, u models.GstStatusUpdate) (*models.GstReturn, error) {
	query := `
		UPDATE gst_returns
		SET status = $3,
			notes = CASE WHEN $4::text IS NULL THEN notes ELSE NULLIF($4::text, '') END,
			reference_number = CASE WHEN $5::text IS NULL THEN reference_number ELSE NULLIF($5::text, '') END,
			filed_at = CASE WHEN $3 = 'filed' AND filed_at IS NULL THEN NOW() ELSE filed_at END,
			updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		RETURNING ` + gstReturnColumns
	g, err := scanGstReturn(r.db.QueryRow(ctx, query, orgID, id, u.Status, u.Notes, u.ReferenceNumber))
	if err != nil {
		return nil, mapError(err, "GST return")
	}
	return g, nil
}
