package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoplens/backend-go/internal/config"
	"github.com/shoplens/backend-go/internal/domain"
)

const (
	reorderReportKeyPrefix = "report:reorder"
	dashboardKeyPrefix     = "report:dashboard"
	scanBatchSize          = 100
)

// ReportCache caches the two expensive read-shapes. Misses are (nil, false,
// nil); the subset endpoints are cheap enough to rebuild from the snapshot
// every time and are not cached.
type ReportCache interface {
	GetReorderReport(ctx context.Context, companyID int64) (*domain.ReorderReport, bool, error)
	SetReorderReport(ctx context.Context, companyID int64, report *domain.ReorderReport) error
	GetDashboard(ctx context.Context, companyID int64, month string) (*domain.DashboardOverview, bool, error)
	SetDashboard(ctx context.Context, companyID int64, month string, overview *domain.DashboardOverview) error
	InvalidateCompany(ctx context.Context, companyID int64) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func reorderKey(companyID int64) string {
	return fmt.Sprintf("%s:%d", reorderReportKeyPrefix, companyID)
}

func dashboardKey(companyID int64, month string) string {
	return fmt.Sprintf("%s:%d:%s", dashboardKeyPrefix, companyID, month)
}

func (c *redisReportCache) GetReorderReport(ctx context.Context, companyID int64) (*domain.ReorderReport, bool, error) {
	payload, err := c.client.Get(ctx, reorderKey(companyID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.ReorderReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode reorder report cache: %w", err)
	}
	return &report, true, nil
}

func (c *redisReportCache) SetReorderReport(ctx context.Context, companyID int64, report *domain.ReorderReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode reorder report cache: %w", err)
	}

	if err := c.client.Set(ctx, reorderKey(companyID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) GetDashboard(ctx context.Context, companyID int64, month string) (*domain.DashboardOverview, bool, error) {
	payload, err := c.client.Get(ctx, dashboardKey(companyID, month)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var overview domain.DashboardOverview
	if err := json.Unmarshal(payload, &overview); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return &overview, true, nil
}

func (c *redisReportCache) SetDashboard(ctx context.Context, companyID int64, month string, overview *domain.DashboardOverview) error {
	payload, err := json.Marshal(overview)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardKey(companyID, month), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateCompany(ctx context.Context, companyID int64) error {
	if err := deleteKeysWithPrefix(ctx, c.client, reorderKey(companyID), scanBatchSize); err != nil {
		return err
	}
	return deleteKeysWithPrefix(ctx, c.client, fmt.Sprintf("%s:%d", dashboardKeyPrefix, companyID), scanBatchSize)
}

func (n *noopReportCache) GetReorderReport(ctx context.Context, companyID int64) (*domain.ReorderReport, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetReorderReport(ctx context.Context, companyID int64, report *domain.ReorderReport) error {
	return nil
}

func (n *noopReportCache) GetDashboard(ctx context.Context, companyID int64, month string) (*domain.DashboardOverview, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetDashboard(ctx context.Context, companyID int64, month string, overview *domain.DashboardOverview) error {
	return nil
}

func (n *noopReportCache) InvalidateCompany(ctx context.Context, companyID int64) error {
	return nil
}
