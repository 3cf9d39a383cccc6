package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContractRepository implements finance.ContractRepository using GORM
type GormContractRepository struct {
	db  *gorm.DB
	loc *time.Location
}

// NewGormContractRepository creates a new GormContractRepository. Reporting
// periods are resolved in loc (UTC when nil).
func NewGormContractRepository(db *gorm.DB, loc *time.Location) *GormContractRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &GormContractRepository{db: db, loc: loc}
}

// withChildren preloads clients, installments in number order and their
// payments in submission order.
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Clients").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		Preload("Installments.Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Contract, error) {
	var model models.ContractModel
	if err := withChildren(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundError("contract", id)
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of contracts matching filter and the total match count
func (r *GormContractRepository) FindAll(ctx context.Context, filter finance.ContractFilter) ([]*finance.Contract, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	page := filter.Pagination.Normalize()
	sortField := ValidateSortField(filter.OrderBy, ContractSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var rows []models.ContractModel
	query := r.applyFilter(withChildren(r.db.WithContext(ctx)), filter).
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", err)
	}

	return toContracts(rows), total, nil
}

// FindByPeriod returns every contract whose start date falls in period
func (r *GormContractRepository) FindByPeriod(ctx context.Context, period finance.ReportingPeriod) ([]*finance.Contract, error) {
	query := withChildren(r.db.WithContext(ctx))
	if !period.IsAllTime() {
		from, to := period.Bounds(r.loc)
		query = query.Where("start_date >= ? AND start_date < ?", from.UTC(), to.UTC())
	}

	var rows []models.ContractModel
	if err := query.Order("start_date ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load contracts for period %s: %w", period.Key(), err)
	}
	return toContracts(rows), nil
}

// Save creates or updates a contract, replaces its client links and upserts
// its installments. Payments not yet stored are appended; stored payments
// are never rewritten here, transitions go through PaymentRepository.
// This is the write port for contracts arriving from the system of record.
func (r *GormContractRepository) Save(ctx context.Context, contract *finance.Contract) error {
	model := models.ContractModelFromDomain(contract)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return fmt.Errorf("failed to save contract: %w", err)
		}

		if err := tx.Where("contract_id = ?", contract.ID).
			Delete(&models.ContractClientModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear contract clients: %w", err)
		}
		if len(model.Clients) > 0 {
			if err := tx.Create(&model.Clients).Error; err != nil {
				return fmt.Errorf("failed to save contract clients: %w", err)
			}
		}

		for i := range contract.Installments {
			inst := &contract.Installments[i]
			inst.ContractID = contract.ID
			if err := tx.Omit(clause.Associations).Save(models.InstallmentModelFromDomain(inst)).Error; err != nil {
				return fmt.Errorf("failed to save installment %d: %w", inst.Number, err)
			}
			for j := range inst.Payments {
				pm := models.PaymentModelFromDomain(&inst.Payments[j])
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(pm).Error; err != nil {
					return fmt.Errorf("failed to append payment: %w", err)
				}
			}
		}
		return nil
	})
}

func (r *GormContractRepository) applyFilter(query *gorm.DB, filter finance.ContractFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentType != "" {
		query = query.Where("payment_type = ?", filter.PaymentType)
	}
	if filter.CollaboratorID != nil {
		query = query.Where("collaborator_id = ?", *filter.CollaboratorID)
	}
	if filter.ClientID != nil {
		clients := r.db.Model(&models.ContractClientModel{}).
			Select("contract_id").
			Where("client_id = ?", *filter.ClientID)
		query = query.Where("id IN (?)", clients)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLikePattern(strings.ToLower(search)) + "%"
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", filter.StartFrom.UTC())
	}
	if filter.StartTo != nil {
		query = query.Where("start_date <= ?", filter.StartTo.UTC())
	}
	return query
}

// escapeLikePattern makes %, _ and the escape character match literally.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func toContracts(rows []models.ContractModel) []*finance.Contract {
	contracts := make([]*finance.Contract, len(rows))
	for i := range rows {
		contracts[i] = rows[i].ToDomain()
	}
	return contracts
}

// GormInstallmentRepository implements finance.InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment with its payments
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Installment, error) {
	var model models.InstallmentModel
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundError("installment", id)
		}
		return nil, fmt.Errorf("failed to load installment: %w", err)
	}
	return model.ToDomain(), nil
}

var (
	_ finance.ContractRepository    = (*GormContractRepository)(nil)
	_ finance.InstallmentRepository = (*GormInstallmentRepository)(nil)
)
