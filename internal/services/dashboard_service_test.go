package services

import (
	"context"
	"testing"
	"time"

	"bizledger/internal/analytics"
	"bizledger/internal/common"
	applog "bizledger/internal/log"
	"bizledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectEntityStats(repo *MockDashboardRepository, orgID uuid.UUID) {
	stats := map[string]models.EntityStats{
		analytics.EntityCustomer: {Count: 4},
		analytics.EntityItem:     {Count: 9},
		analytics.EntityInvoice: {Count: 3, Sums: map[string]decimal.Decimal{
			analytics.SumGrandTotal: decimal.NewFromInt(3540),
			analytics.SumTaxAmount:  decimal.NewFromInt(540),
		}},
		analytics.EntityPayment: {Count: 2, Sums: map[string]decimal.Decimal{
			analytics.SumAmountReceived: decimal.NewFromInt(1180),
		}},
		analytics.EntityEmployee:  {Count: 5},
		analytics.EntityGstReturn: {Count: 1},
	}
	for entity, st := range stats {
		repo.On("EntityStats", mock.Anything, orgID, entity, mock.Anything, mock.Anything).Return(st, nil).Once()
	}
}

func TestDashboardSummary_AggregatesEntities(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	repo := &MockDashboardRepository{}
	cache := &MockCacheService{}
	expectEntityStats(repo, orgID)
	repo.On("InventorySummary", mock.Anything, orgID, LowStockThreshold).
		Return(models.InventorySummary{Products: 7, Services: 2, LowStock: 3}, nil)
	cache.On("GetDashboard", ctx, orgID, "2025-11-01_2025-11-30").Return(nil, nil)
	cache.On("SetDashboard", ctx, orgID, "2025-11-01_2025-11-30", mock.AnythingOfType("*models.DashboardSummary"), dashboardTTL).Return(nil)

	summary, err := NewDashboardService(repo, cache, applog.Discard()).Summary(ctx, orgID, "2025-11-01", "2025-11-30")

	require.NoError(t, err)
	assert.Equal(t, models.DateRange{Start: "2025-11-01", End: "2025-11-30"}, summary.Range)
	assert.Len(t, summary.Entities, 6)
	assert.Equal(t, 4, summary.Entities[analytics.EntityCustomer].Count)
	assert.Equal(t, 3, summary.Sales.Total)
	assert.True(t, summary.Sales.Revenue.Equal(decimal.NewFromInt(3540)))
	assert.True(t, summary.Sales.Tax.Equal(decimal.NewFromInt(540)))
	assert.True(t, summary.Payments.Collected.Equal(decimal.NewFromInt(1180)))
	assert.Equal(t, 3, summary.Inventory.LowStock)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestDashboardSummary_ServesCache(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	repo := &MockDashboardRepository{}
	cache := &MockCacheService{}
	cached := &models.DashboardSummary{Sales: models.SalesSummary{Total: 12}}
	cache.On("GetDashboard", ctx, orgID, "all_all").Return(cached, nil)

	summary, err := NewDashboardService(repo, cache, applog.Discard()).Summary(ctx, orgID, "", "")

	require.NoError(t, err)
	assert.Same(t, cached, summary)
	repo.AssertNotCalled(t, "EntityStats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardSummary_StorageFailure(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	repo := &MockDashboardRepository{}
	repo.On("EntityStats", mock.Anything, orgID, mock.Anything, mock.Anything, mock.Anything).
		Return(models.EntityStats{}, assert.AnError)
	repo.On("InventorySummary", mock.Anything, orgID, LowStockThreshold).Return(models.InventorySummary{}, nil).Maybe()

	_, err := NewDashboardService(repo, nil, applog.Discard()).Summary(ctx, orgID, "2025-11-01", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dashboard")
}

func TestDashboardSummary_RejectsInvertedRange(t *testing.T) {
	_, err := NewDashboardService(&MockDashboardRepository{}, nil, applog.Discard()).
		Summary(context.Background(), uuid.New(), "2025-12-01", "2025-11-01")

	assert.EqualError(t, err, "from cannot be after to")
}

func TestDashboardTimeseries_ZeroFills(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	repo := &MockDashboardRepository{}
	repo.On("DailyTotals", ctx, orgID, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("*time.Time")).
		Return([]models.DailyTotals{
			{Day: "2025-11-02", Revenue: decimal.NewFromInt(1180), Invoices: 1, Collected: decimal.NewFromInt(500)},
		}, nil)

	points, err := NewDashboardService(repo, nil, applog.Discard()).Timeseries(ctx, orgID, "2025-11-01", "2025-11-03")

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2025-11-01", points[0].Date)
	assert.True(t, points[0].Revenue.IsZero())
	assert.Equal(t, 1, points[1].Invoices)
	assert.True(t, points[1].Collected.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "2025-11-03", points[2].Date)
}

func TestDashboardTimeseries_RejectsLongRange(t *testing.T) {
	repo := &MockDashboardRepository{}
	from := date("2024-01-01")
	to := from.Add(400 * 24 * time.Hour)

	_, err := NewDashboardService(repo, nil, applog.Discard()).
		Timeseries(context.Background(), uuid.New(), from.Format(common.DateLayout), to.Format(common.DateLayout))

	assert.EqualError(t, err, "timeseries range cannot exceed 366 days")
	repo.AssertNotCalled(t, "DailyTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRangeKey(t *testing.T) {
	from := date("2025-11-01")
	assert.Equal(t, "2025-11-01_all", rangeKey(&from, nil))
	assert.Equal(t, "all_2025-11-01", rangeKey(nil, &from))
	assert.Equal(t, "all_all", rangeKey(nil, nil))
}
