package models

import (
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractModel is the persistence model for the Contract aggregate root.
type ContractModel struct {
	AggregateModel
	Title          string                 `gorm:"type:varchar(200);not null"`
	PaymentType    finance.PaymentType    `gorm:"type:varchar(20);not null;index"`
	TotalAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Currency       valueobject.Currency   `gorm:"type:varchar(3);not null;index"`
	CollaboratorID uuid.UUID              `gorm:"type:uuid;not null;index"`
	StartDate      time.Time              `gorm:"not null;index"`
	EndDate        time.Time              `gorm:"not null"`
	Status         finance.ContractStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Clients        []ContractClientModel  `gorm:"foreignKey:ContractID"`
	Installments   []InstallmentModel     `gorm:"foreignKey:ContractID"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ContractClientModel links a contract to one of its clients.
type ContractClientModel struct {
	ContractID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ContractClientModel) TableName() string {
	return "contract_clients"
}

// ToDomain converts the persistence model to a domain Contract.
// Installments and clients are included when they were preloaded.
func (m *ContractModel) ToDomain() *finance.Contract {
	c := &finance.Contract{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		PaymentType:       m.PaymentType,
		TotalAmount:       toMoney(m.TotalAmount, m.Currency),
		CollaboratorID:    m.CollaboratorID,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Status:            m.Status,
		ClientIDs:         make([]uuid.UUID, 0, len(m.Clients)),
		Installments:      make([]finance.Installment, 0, len(m.Installments)),
	}
	for _, cl := range m.Clients {
		c.ClientIDs = append(c.ClientIDs, cl.ClientID)
	}
	for i := range m.Installments {
		c.Installments = append(c.Installments, *m.Installments[i].ToDomain())
	}
	return c
}

// FromDomain populates the model's own columns and client links.
// Installments are mapped separately by the repository.
func (m *ContractModel) FromDomain(c *finance.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Title = c.Title
	m.PaymentType = c.PaymentType
	m.TotalAmount = c.TotalAmount.Amount()
	m.Currency = c.TotalAmount.Currency()
	m.CollaboratorID = c.CollaboratorID
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
	m.Status = c.Status
	m.Clients = make([]ContractClientModel, 0, len(c.ClientIDs))
	for _, id := range c.ClientIDs {
		m.Clients = append(m.Clients, ContractClientModel{ContractID: c.ID, ClientID: id})
	}
}

// ContractModelFromDomain creates a new persistence model from a domain Contract.
func ContractModelFromDomain(c *finance.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}

// InstallmentModel is the persistence model for an Installment.
type InstallmentModel struct {
	BaseModel
	ContractID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_installment_contract_number,priority:1"`
	Number     int                  `gorm:"not null;uniqueIndex:idx_installment_contract_number,priority:2"`
	Amount     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency   valueobject.Currency `gorm:"type:varchar(3);not null"`
	DueDate    time.Time            `gorm:"not null;index"`
	Payments   []PaymentModel       `gorm:"foreignKey:InstallmentID"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment.
func (m *InstallmentModel) ToDomain() *finance.Installment {
	inst := &finance.Installment{
		BaseEntity: m.BaseModel.ToDomain(),
		ContractID: m.ContractID,
		Number:     m.Number,
		Amount:     toMoney(m.Amount, m.Currency),
		DueDate:    m.DueDate,
		Payments:   make([]finance.Payment, 0, len(m.Payments)),
	}
	for i := range m.Payments {
		inst.Payments = append(inst.Payments, *m.Payments[i].ToDomain())
	}
	return inst
}

// InstallmentModelFromDomain maps an installment without its payments.
func InstallmentModelFromDomain(inst *finance.Installment) *InstallmentModel {
	m := &InstallmentModel{
		ContractID: inst.ContractID,
		Number:     inst.Number,
		Amount:     inst.Amount.Amount(),
		Currency:   inst.Amount.Currency(),
		DueDate:    inst.DueDate,
	}
	m.FromDomainBaseEntity(inst.BaseEntity)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	InstallmentID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Currency      valueobject.Currency  `gorm:"type:varchar(3);not null"`
	Method        finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status        finance.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Reference     string                `gorm:"type:varchar(100)"`
	ValidatedBy   *uuid.UUID            `gorm:"type:uuid"`
	ValidatedAt   *time.Time
	Observations  string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		InstallmentID: m.InstallmentID,
		Amount:        toMoney(m.Amount, m.Currency),
		Method:        m.Method,
		Status:        m.Status,
		Reference:     m.Reference,
		ValidatedBy:   m.ValidatedBy,
		ValidatedAt:   m.ValidatedAt,
		Observations:  m.Observations,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
		InstallmentID: p.InstallmentID,
		Amount:        p.Amount.Amount(),
		Currency:      p.Amount.Currency(),
		Method:        p.Method,
		Status:        p.Status,
		Reference:     p.Reference,
		ValidatedBy:   p.ValidatedBy,
		ValidatedAt:   p.ValidatedAt,
		Observations:  p.Observations,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
