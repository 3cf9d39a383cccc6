package models

import (
	"time"

	"github.com/cecagem/backoffice/internal/domain/partner"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company aggregate root.
type CompanyModel struct {
	AggregateModel
	BusinessName string                    `gorm:"type:varchar(200);not null"`
	RUC          string                    `gorm:"column:ruc;type:varchar(11);not null;uniqueIndex"`
	Relations    []UserRelationModel       `gorm:"foreignKey:CompanyID"`
	Transactions []CompanyTransactionModel `gorm:"foreignKey:CompanyID"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *partner.Company {
	c := &partner.Company{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BusinessName:      m.BusinessName,
		RUC:               m.RUC,
		Relations:         make([]partner.UserRelation, 0, len(m.Relations)),
		Transactions:      make([]partner.CompanyTransaction, 0, len(m.Transactions)),
	}
	for _, r := range m.Relations {
		c.Relations = append(c.Relations, partner.UserRelation{
			BaseEntity:     r.BaseModel.ToDomain(),
			CompanyID:      r.CompanyID,
			UserID:         r.UserID,
			MonthlyPayment: toMoney(r.MonthlyPayment, r.Currency),
			IsActive:       r.IsActive,
		})
	}
	for _, t := range m.Transactions {
		c.Transactions = append(c.Transactions, partner.CompanyTransaction{
			BaseEntity:  t.BaseModel.ToDomain(),
			CompanyID:   t.CompanyID,
			Type:        t.Type,
			Amount:      toMoney(t.Amount, t.Currency),
			Date:        t.Date,
			Description: t.Description,
		})
	}
	return c
}

// CompanyModelFromDomain maps a company and its children.
func CompanyModelFromDomain(c *partner.Company) *CompanyModel {
	m := &CompanyModel{
		BusinessName: c.BusinessName,
		RUC:          c.RUC,
		Relations:    make([]UserRelationModel, 0, len(c.Relations)),
		Transactions: make([]CompanyTransactionModel, 0, len(c.Transactions)),
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	for _, r := range c.Relations {
		rm := UserRelationModel{
			CompanyID:      c.ID,
			UserID:         r.UserID,
			MonthlyPayment: r.MonthlyPayment.Amount(),
			Currency:       r.MonthlyPayment.Currency(),
			IsActive:       r.IsActive,
		}
		rm.FromDomainBaseEntity(r.BaseEntity)
		m.Relations = append(m.Relations, rm)
	}
	for _, t := range c.Transactions {
		tm := CompanyTransactionModel{
			CompanyID:   c.ID,
			Type:        t.Type,
			Amount:      t.Amount.Amount(),
			Currency:    t.Amount.Currency(),
			Date:        t.Date,
			Description: t.Description,
		}
		tm.FromDomainBaseEntity(t.BaseEntity)
		m.Transactions = append(m.Transactions, tm)
	}
	return m
}

// UserRelationModel links a user to a company with a monthly fee.
type UserRelationModel struct {
	BaseModel
	CompanyID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	MonthlyPayment decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	IsActive       bool                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRelationModel) TableName() string {
	return "company_user_relations"
}

// CompanyTransactionModel is a recorded company expense.
type CompanyTransactionModel struct {
	BaseModel
	CompanyID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	Type        partner.TransactionType `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Currency    valueobject.Currency    `gorm:"type:varchar(3);not null"`
	Date        time.Time               `gorm:"not null"`
	Description string                  `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CompanyTransactionModel) TableName() string {
	return "company_transactions"
}
