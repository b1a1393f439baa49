package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bizledger/internal/analytics"
	"bizledger/internal/models"
)

type DashboardRepository interface {
	// EntityStats counts records of entity created between from and to
	// (inclusive days, nil = unbounded) with the entity's money sums.
	EntityStats(ctx context.Context, orgID uuid.UUID, entity string, from, to *time.Time) (models.EntityStats, error)
	InventorySummary(ctx context.Context, orgID uuid.UUID, lowStockThreshold int) (models.InventorySummary, error)
	DailyTotals(ctx context.Context, orgID uuid.UUID, from, to *time.Time) ([]models.DailyTotals, error)
}

type entitySource struct {
	table string
	sums  []string
}

var entitySources = map[string]entitySource{
	analytics.EntityCustomer:  {table: "customers"},
	analytics.EntityItem:      {table: "items"},
	analytics.EntityInvoice:   {table: "invoices", sums: []string{analytics.SumGrandTotal, analytics.SumTaxAmount}},
	analytics.EntityPayment:   {table: "payments", sums: []string{analytics.SumAmountReceived}},
	analytics.EntityEmployee:  {table: "employees"},
	analytics.EntityGstReturn: {table: "gst_returns"},
}

type dashboardRepo struct {
	db DBTX
}

func NewDashboardRepo(db DBTX) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) EntityStats(ctx context.Context, orgID uuid.UUID, entity string, from, to *time.Time) (models.EntityStats, error) {
	src, ok := entitySources[entity]
	if !ok {
		return models.EntityStats{}, fmt.Errorf("unknown dashboard entity %q", entity)
	}

	cols := []string{"COUNT(*)"}
	for _, s := range src.sums {
		cols = append(cols, fmt.Sprintf("COALESCE(SUM(%s), 0)", s))
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE organization_id = $1
			AND ($2::date IS NULL OR created_at >= $2::date)
			AND ($3::date IS NULL OR created_at < $3::date + INTERVAL '1 day')`,
		strings.Join(cols, ", "), src.table)

	var count int
	sums := make([]decimal.Decimal, len(src.sums))
	dest := []any{&count}
	for i := range sums {
		dest = append(dest, &sums[i])
	}
	if err := r.db.QueryRow(ctx, query, orgID, from, to).Scan(dest...); err != nil {
		return models.EntityStats{}, fmt.Errorf("count %s: %w", src.table, err)
	}

	stats := models.EntityStats{Count: count}
	if len(src.sums) > 0 {
		stats.Sums = make(map[string]decimal.Decimal, len(src.sums))
		for i, name := range src.sums {
			stats.Sums[name] = sums[i]
		}
	}
	return stats, nil
}

func (r *dashboardRepo) InventorySummary(ctx context.Context, orgID uuid.UUID, lowStockThreshold int) (models.InventorySummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE item_type = 'product'),
			COUNT(*) FILTER (WHERE item_type = 'service'),
			COUNT(*) FILTER (WHERE item_type = 'product' AND stock_quantity <= $2)
		FROM items
		WHERE organization_id = $1`
	var s models.InventorySummary
	if err := r.db.QueryRow(ctx, query, orgID, lowStockThreshold).Scan(&s.Products, &s.Services, &s.LowStock); err != nil {
		return models.InventorySummary{}, fmt.Errorf("inventory summary: %w", err)
	}
	return s, nil
}

// DailyTotals returns non-cancelled invoice revenue by issue date merged with
// collections by payment date. Days without activity are absent.
func (r *dashboardRepo) DailyTotals(ctx context.Context, orgID uuid.UUID, from, to *time.Time) ([]models.DailyTotals, error) {
	query := `
		SELECT to_char(day, 'YYYY-MM-DD'), SUM(revenue), SUM(invoices)::int, SUM(collected)
		FROM (
			SELECT issue_date AS day, grand_total AS revenue, 1 AS invoices, 0::numeric AS collected
			FROM invoices
			WHERE organization_id = $1 AND status <> 'Cancelled'
				AND ($2::date IS NULL OR issue_date >= $2::date)
				AND ($3::date IS NULL OR issue_date <= $3::date)
			UNION ALL
			SELECT payment_date, 0::numeric, 0, amount_received
			FROM payments
			WHERE organization_id = $1
				AND ($2::date IS NULL OR payment_date >= $2::date)
				AND ($3::date IS NULL OR payment_date <= $3::date)
		) activity
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.Query(ctx, query, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []models.DailyTotals{}
	for rows.Next() {
		var d models.DailyTotals
		if err := rows.Scan(&d.Day, &d.Revenue, &d.Invoices, &d.Collected); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
