package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
)

const (
	dashboardSegment  = "dashboard:"
	generationSegment = "dashboard-generation"
)

// PortfolioCache caches portfolio statistics per reporting period as JSON.
//
// Entries are keyed by a generation counter. InvalidateAll advances the
// generation, so a snapshot computed before an invalidation and written
// after it lands under a key nobody reads anymore.
type PortfolioCache struct {
	store         Store
	prefix        string
	generationKey string
	ttl           time.Duration
}

// NewPortfolioCache creates a cache writing keys under prefix with the given TTL
func NewPortfolioCache(store Store, prefix string, ttl time.Duration) *PortfolioCache {
	return &PortfolioCache{
		store:         store,
		prefix:        prefix + dashboardSegment,
		generationKey: prefix + generationSegment,
		ttl:           ttl,
	}
}

func (c *PortfolioCache) key(generation int64, period finance.ReportingPeriod) string {
	return c.prefix + "g" + strconv.FormatInt(generation, 10) + ":" + period.Key()
}

// Generation returns the current generation; zero before the first invalidation
func (c *PortfolioCache) Generation(ctx context.Context) (int64, error) {
	data, ok, err := c.store.Get(ctx, c.generationKey)
	if err != nil || !ok {
		return 0, err
	}
	gen, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to decode statistics generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached statistics of period within generation, if present
func (c *PortfolioCache) Get(ctx context.Context, generation int64, period finance.ReportingPeriod) (*finance.PortfolioStats, bool, error) {
	data, ok, err := c.store.Get(ctx, c.key(generation, period))
	if err != nil || !ok {
		return nil, false, err
	}

	stats := finance.NewPortfolioStats()
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached statistics: %w", err)
	}
	return &stats, true, nil
}

// Put stores the statistics of period under generation
func (c *PortfolioCache) Put(ctx context.Context, generation int64, period finance.ReportingPeriod, stats *finance.PortfolioStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	return c.store.Set(ctx, c.key(generation, period), data, c.ttl)
}

// InvalidateAll advances the generation and drops every cached period
func (c *PortfolioCache) InvalidateAll(ctx context.Context) error {
	if _, err := c.store.Incr(ctx, c.generationKey); err != nil {
		return err
	}
	return c.store.DeletePrefix(ctx, c.prefix)
}
