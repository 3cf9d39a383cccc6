package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/cecagem/backoffice/internal/domain/partner"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanyRepository implements partner.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company with its user relations and transactions
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	var model models.CompanyModel
	err := r.db.WithContext(ctx).
		Preload("Relations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundError("company", id)
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a company and upserts its relations and
// transactions. It is the write port for companies arriving from the
// system of record.
func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	model := models.CompanyModelFromDomain(company)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return fmt.Errorf("failed to save company: %w", err)
		}
		for i := range model.Relations {
			if err := tx.Save(&model.Relations[i]).Error; err != nil {
				return fmt.Errorf("failed to save user relation: %w", err)
			}
		}
		for i := range model.Transactions {
			if err := tx.Save(&model.Transactions[i]).Error; err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}
		}
		return nil
	})
}

var _ partner.CompanyRepository = (*GormCompanyRepository)(nil)
