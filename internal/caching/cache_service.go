package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	applog "bizledger/internal/log"
	"bizledger/internal/models"
)

const keyPrefix = "bizledger"

type CacheService interface {
	// GST draft previews, keyed by organization and period
	GetGstDraft(ctx context.Context, orgID uuid.UUID, period string) (*models.GstDraft, error)
	SetGstDraft(ctx context.Context, orgID uuid.UUID, draft *models.GstDraft, ttl time.Duration) error

	// Dashboard summaries, keyed by organization and requested range
	GetDashboard(ctx context.Context, orgID uuid.UUID, rangeKey string) (*models.DashboardSummary, error)
	SetDashboard(ctx context.Context, orgID uuid.UUID, rangeKey string, summary *models.DashboardSummary, ttl time.Duration) error

	// Cache invalidation
	InvalidateOrganizationCache(ctx context.Context, orgID uuid.UUID) error

	Ping(ctx context.Context) error
}

// GstDraftKey is the redis key of a cached draft preview.
func GstDraftKey(orgID uuid.UUID, period string) string {
	return fmt.Sprintf("%s:gst_draft:%s:%s", keyPrefix, orgID.String(), period)
}

// DashboardKey is the redis key of a cached dashboard summary.
func DashboardKey(orgID uuid.UUID, rangeKey string) string {
	return fmt.Sprintf("%s:dashboard:%s:%s", keyPrefix, orgID.String(), rangeKey)
}

type redisCacheService struct {
	client *redis.Client
	logger *applog.Logger
}

func NewRedisCacheService(addr, password string, db int, logger *applog.Logger) CacheService {
	// accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	logger = logger.WithComponent(applog.ComponentCache)
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn("redis ping failed on initialization", "addr", parsedAddr, applog.FieldError, pingErr)
	} else {
		logger.Debug("redis connection established", "addr", parsedAddr)
	}

	return &redisCacheService{client: client, logger: logger}
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetGstDraft(ctx context.Context, orgID uuid.UUID, period string) (*models.GstDraft, error) {
	var draft models.GstDraft
	found, err := r.getJSON(ctx, GstDraftKey(orgID, period), &draft)
	if err != nil || !found {
		return nil, err
	}
	return &draft, nil
}

func (r *redisCacheService) SetGstDraft(ctx context.Context, orgID uuid.UUID, draft *models.GstDraft, ttl time.Duration) error {
	return r.setJSON(ctx, GstDraftKey(orgID, draft.Period), draft, ttl)
}

func (r *redisCacheService) GetDashboard(ctx context.Context, orgID uuid.UUID, rangeKey string) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	found, err := r.getJSON(ctx, DashboardKey(orgID, rangeKey), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, orgID uuid.UUID, rangeKey string, summary *models.DashboardSummary, ttl time.Duration) error {
	return r.setJSON(ctx, DashboardKey(orgID, rangeKey), summary, ttl)
}

// InvalidateOrganizationCache drops every cached entry of the organization.
func (r *redisCacheService) InvalidateOrganizationCache(ctx context.Context, orgID uuid.UUID) error {
	pattern := fmt.Sprintf("%s:*:%s:*", keyPrefix, orgID.String())
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopCacheService struct{}

// NewNoopCacheService is used when redis is not configured: every read is a
// miss and writes are dropped.
func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetGstDraft(context.Context, uuid.UUID, string) (*models.GstDraft, error) {
	return nil, nil
}

func (noopCacheService) SetGstDraft(context.Context, uuid.UUID, *models.GstDraft, time.Duration) error {
	return nil
}

func (noopCacheService) GetDashboard(context.Context, uuid.UUID, string) (*models.DashboardSummary, error) {
	return nil, nil
}

func (noopCacheService) SetDashboard(context.Context, uuid.UUID, string, *models.DashboardSummary, time.Duration) error {
	return nil
}

func (noopCacheService) InvalidateOrganizationCache(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) Ping(context.Context) error { return nil }
