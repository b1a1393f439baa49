package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/internal/analytics"
)

func TestDashboardRepo_InvoiceStatsCarrySums(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	orgID := uuid.New()
	mock.ExpectQuery(`COALESCE\(SUM\(grand_total\), 0\), COALESCE\(SUM\(tax_amount\), 0\)\s+FROM invoices`).
		WithArgs(anyArgs(3)...).
		WillReturnRows(pgxmock.NewRows([]string{"count", "grand_total", "tax_amount"}).
			AddRow(4, decimal.NewFromInt(4720), decimal.NewFromInt(720)))

	stats, err := NewDashboardRepo(mock).EntityStats(context.Background(), orgID, analytics.EntityInvoice, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Count)
	assert.True(t, decimal.NewFromInt(4720).Equal(stats.Sums[analytics.SumGrandTotal]))
	assert.True(t, decimal.NewFromInt(720).Equal(stats.Sums[analytics.SumTaxAmount]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepo_CountOnlyEntity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM customers`).
		WithArgs(anyArgs(3)...).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	stats, err := NewDashboardRepo(mock).EntityStats(context.Background(), uuid.New(), analytics.EntityCustomer, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Count)
	assert.Nil(t, stats.Sums)
}

func TestDashboardRepo_UnknownEntity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewDashboardRepo(mock).EntityStats(context.Background(), uuid.New(), "Warehouse", nil, nil)
	assert.EqualError(t, err, `unknown dashboard entity "Warehouse"`)
}

func TestDashboardRepo_DailyTotals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`GROUP BY day`).
		WithArgs(anyArgs(3)...).
		WillReturnRows(pgxmock.NewRows([]string{"day", "revenue", "invoices", "collected"}).
			AddRow("2025-11-01", decimal.NewFromInt(1180), 1, decimal.Zero).
			AddRow("2025-11-03", decimal.Zero, 0, decimal.NewFromInt(500)))

	days, err := NewDashboardRepo(mock).DailyTotals(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-11-03", days[1].Day)
	assert.True(t, decimal.NewFromInt(500).Equal(days[1].Collected))
}
