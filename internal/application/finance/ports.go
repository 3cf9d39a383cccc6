package finance

import (
	"context"

	"github.com/cecagem/backoffice/internal/domain/finance"
)

// StatisticsCache stores computed portfolio statistics per reporting period.
// Implemented by the cache package.
//
// Readers take the generation before loading contracts and write under it;
// InvalidateAll advances the generation so late writes are never served.
type StatisticsCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, period finance.ReportingPeriod) (*finance.PortfolioStats, bool, error)
	Put(ctx context.Context, generation int64, period finance.ReportingPeriod, stats *finance.PortfolioStats) error
	InvalidateAll(ctx context.Context) error
}

type noopStatisticsCache struct{}

func (noopStatisticsCache) Generation(context.Context) (int64, error) { return 0, nil }

func (noopStatisticsCache) Get(context.Context, int64, finance.ReportingPeriod) (*finance.PortfolioStats, bool, error) {
	return nil, false, nil
}

func (noopStatisticsCache) Put(context.Context, int64, finance.ReportingPeriod, *finance.PortfolioStats) error {
	return nil
}

func (noopStatisticsCache) InvalidateAll(context.Context) error { return nil }

// NoopStatisticsCache never stores anything.
var NoopStatisticsCache StatisticsCache = noopStatisticsCache{}
