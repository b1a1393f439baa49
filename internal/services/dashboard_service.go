package services

import (
	"context"
	"sync"
	"time"

	"bizledger/internal/analytics"
	"bizledger/internal/caching"
	"bizledger/internal/common"
	applog "bizledger/internal/log"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// LowStockThreshold is the stock level at or below which a product counts as low.
	LowStockThreshold = 5

	dashboardTTL = time.Minute
)

var dashboardEntities = []string{
	analytics.EntityCustomer,
	analytics.EntityItem,
	analytics.EntityInvoice,
	analytics.EntityPayment,
	analytics.EntityEmployee,
	analytics.EntityGstReturn,
}

type DashboardService interface {
	Summary(ctx context.Context, orgID uuid.UUID, from, to string) (*models.DashboardSummary, error)
	Timeseries(ctx context.Context, orgID uuid.UUID, from, to string) ([]models.TimeseriesPoint, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepository
	cache         caching.CacheService
	logger        *applog.Logger
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository, cache caching.CacheService, logger *applog.Logger) DashboardService {
	if logger == nil {
		logger = applog.Discard()
	}
	if cache == nil {
		cache = caching.NewNoopCacheService()
	}
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		cache:         cache,
		logger:        logger.WithComponent(applog.ComponentDashboard),
	}
}

// parseBounds reads the optional from/to dates; a missing side is unbounded.
func parseBounds(from, to string) (*time.Time, *time.Time, error) {
	start, err := parseOptionalDate(from, "from")
	if err != nil {
		return nil, nil, err
	}
	end, err := parseOptionalDate(to, "to")
	if err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, common.Validationf("from cannot be after to")
	}
	return start, end, nil
}

func rangeKey(from, to *time.Time) string {
	key := "all"
	if from != nil {
		key = from.Format(common.DateLayout)
	}
	key += "_"
	if to != nil {
		return key + to.Format(common.DateLayout)
	}
	return key + "all"
}

// Summary counts every entity created in range concurrently, together with
// the inventory snapshot.
func (s *dashboardService) Summary(ctx context.Context, orgID uuid.UUID, from, to string) (*models.DashboardSummary, error) {
	start, end, err := parseBounds(from, to)
	if err != nil {
		return nil, err
	}
	key := rangeKey(start, end)

	if cached, err := s.cache.GetDashboard(ctx, orgID, key); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache read failed",
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldError, err.Error())
	} else if cached != nil {
		return cached, nil
	}

	var (
		mu        sync.Mutex
		stats     = make(map[string]models.EntityStats, len(dashboardEntities))
		inventory models.InventorySummary
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, entity := range dashboardEntities {
		g.Go(func() error {
			st, err := s.dashboardRepo.EntityStats(gctx, orgID, entity, start, end)
			if err != nil {
				return err
			}
			mu.Lock()
			stats[entity] = st
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		inv, err := s.dashboardRepo.InventorySummary(gctx, orgID, LowStockThreshold)
		if err != nil {
			return err
		}
		inventory = inv
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, common.SecureErrorMessage("load dashboard", err)
	}

	summary := analytics.BuildDashboardSummary(start, end, stats, inventory)
	if err := s.cache.SetDashboard(ctx, orgID, key, summary, dashboardTTL); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache write failed",
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldError, err.Error())
	}
	return summary, nil
}

// Timeseries returns zero-filled daily revenue and collections.
func (s *dashboardService) Timeseries(ctx context.Context, orgID uuid.UUID, from, to string) ([]models.TimeseriesPoint, error) {
	start, end, err := parseBounds(from, to)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && int(end.Sub(*start).Hours()/24)+1 > analytics.MaxTimeseriesDays {
		return nil, common.Validationf("timeseries range cannot exceed %d days", analytics.MaxTimeseriesDays)
	}

	days, err := s.dashboardRepo.DailyTotals(ctx, orgID, start, end)
	if err != nil {
		return nil, common.SecureErrorMessage("load dashboard timeseries", err)
	}
	return analytics.BuildTimeseries(start, end, days)
}
