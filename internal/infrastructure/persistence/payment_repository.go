package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPaymentAlreadyProcessed is returned when a transition loses the race
// against another administrator.
var ErrPaymentAlreadyProcessed = shared.InvalidStateError("payment was already processed by another administrator")

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundError("payment", id)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of payments matching filter and the total match count
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) ([]finance.Payment, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PaymentModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	page := filter.Pagination.Normalize()
	sortField := ValidateSortField(filter.OrderBy, PaymentSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var rows []models.PaymentModel
	if err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]finance.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, total, nil
}

// Create inserts a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	if err := r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// SaveTransition writes a decided payment with a compare-and-swap on the
// stored status and version. Exactly one of several concurrent deciders
// succeeds; the rest get ErrPaymentAlreadyProcessed.
func (r *GormPaymentRepository) SaveTransition(ctx context.Context, payment *finance.Payment) error {
	if !payment.Status.IsTerminal() {
		return shared.InvalidStateError(fmt.Sprintf("payment in %s status has no transition to save", payment.Status))
	}

	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ? AND version = ?", payment.ID, finance.PaymentStatusPending, payment.ExpectedVersion()).
		Updates(map[string]any{
			"status":       payment.Status,
			"validated_by": payment.ValidatedBy,
			"validated_at": payment.ValidatedAt,
			"observations": payment.Observations,
			"version":      payment.Version,
			"updated_at":   payment.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save payment transition: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ?", payment.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check payment: %w", err)
	}
	if count == 0 {
		return shared.NotFoundError("payment", payment.ID)
	}
	return ErrPaymentAlreadyProcessed
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter finance.PaymentFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.InstallmentID != nil {
		query = query.Where("installment_id = ?", *filter.InstallmentID)
	}
	if filter.ContractID != nil {
		installments := r.db.Model(&models.InstallmentModel{}).
			Select("id").
			Where("contract_id = ?", *filter.ContractID)
		query = query.Where("installment_id IN (?)", installments)
	}
	return query
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
