package finance

import (
	"context"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/partner"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconciliationQueryService serves the read side: contract listings and
// summaries, the portfolio dashboard and company revenue.
type ReconciliationQueryService struct {
	contracts finance.ContractRepository
	companies partner.CompanyRepository
	engine    *finance.ReconciliationEngine
	cache     StatisticsCache
	logger    *zap.Logger
}

// NewReconciliationQueryService creates a new ReconciliationQueryService.
// A nil cache disables dashboard caching.
func NewReconciliationQueryService(
	contracts finance.ContractRepository,
	companies partner.CompanyRepository,
	engine *finance.ReconciliationEngine,
	cache StatisticsCache,
	logger *zap.Logger,
) *ReconciliationQueryService {
	if cache == nil {
		cache = NoopStatisticsCache
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationQueryService{
		contracts: contracts,
		companies: companies,
		engine:    engine,
		cache:     cache,
		logger:    logger,
	}
}

// ListContracts returns one page of contracts, each with its installments
// resolved and its financial summary.
func (s *ReconciliationQueryService) ListContracts(ctx context.Context, filter finance.ContractFilter) (shared.Paginated[ContractResponse], error) {
	contracts, total, err := s.contracts.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ContractResponse]{}, err
	}

	asOf := s.engine.Today()
	items := make([]ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		items = append(items, ToContractResponse(c, asOf))
	}
	return shared.NewPaginated(items, total, filter.Pagination), nil
}

// GetContract returns one contract with installment statuses
func (s *ReconciliationQueryService) GetContract(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContractResponse(c, s.engine.Today())
	return &resp, nil
}

// GetContractSummary returns the financial summary of one contract
func (s *ReconciliationQueryService) GetContractSummary(ctx context.Context, id uuid.UUID) (*ContractSummaryResponse, error) {
	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContractSummaryResponse(s.engine.ContractSummary(c))
	return &resp, nil
}

// GetPortfolioStatistics returns dashboard statistics for contracts starting
// in period. Results are cached per period; cache failures degrade to a
// fresh computation.
func (s *ReconciliationQueryService) GetPortfolioStatistics(ctx context.Context, period finance.ReportingPeriod) (*PortfolioResponse, error) {
	// The generation is read before loading so an invalidation racing with
	// this computation makes the write below unreachable.
	generation, err := s.cache.Generation(ctx)
	useCache := err == nil
	if err != nil {
		s.logger.Warn("statistics cache generation read failed", zap.String("period", period.Key()), zap.Error(err))
	}

	if useCache {
		cached, ok, err := s.cache.Get(ctx, generation, period)
		if err != nil {
			s.logger.Warn("statistics cache read failed", zap.String("period", period.Key()), zap.Error(err))
		}
		if ok {
			return &PortfolioResponse{Period: period, Statistics: *cached, Cached: true}, nil
		}
	}

	contracts, err := s.contracts.FindByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	stats := s.engine.Portfolio(contracts)

	if useCache {
		if err := s.cache.Put(ctx, generation, period, &stats); err != nil {
			s.logger.Warn("statistics cache write failed", zap.String("period", period.Key()), zap.Error(err))
		}
	}
	return &PortfolioResponse{Period: period, Statistics: stats}, nil
}

// GetCompany returns a company with its relations and expenses
func (s *ReconciliationQueryService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// GetCompanyRevenue returns the per-currency revenue summary of a company
func (s *ReconciliationQueryService) GetCompanyRevenue(ctx context.Context, id uuid.UUID) (*CompanyRevenueResponse, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyRevenueResponse(s.engine.CompanyRevenue(c))
	return &resp, nil
}
