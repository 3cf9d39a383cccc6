package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentType represents how a contract is billed
type PaymentType string

const (
	PaymentTypeLumpSum      PaymentType = "LUMP_SUM"
	PaymentTypeInstallments PaymentType = "INSTALLMENTS"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeLumpSum || t == PaymentTypeInstallments
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// PaymentTypes lists every payment type.
func PaymentTypes() []PaymentType {
	return []PaymentType{PaymentTypeLumpSum, PaymentTypeInstallments}
}

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusPending    ContractStatus = "PENDING"
	ContractStatusInProgress ContractStatus = "IN_PROGRESS"
	ContractStatusCompleted  ContractStatus = "COMPLETED"
	ContractStatusCancelled  ContractStatus = "CANCELLED"
	ContractStatusPaid       ContractStatus = "PAID"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusPending, ContractStatusInProgress, ContractStatusCompleted,
		ContractStatusCancelled, ContractStatusPaid:
		return true
	}
	return false
}

// ContractStatuses lists every contract status.
func ContractStatuses() []ContractStatus {
	return []ContractStatus{
		ContractStatusPending, ContractStatusInProgress, ContractStatusCompleted,
		ContractStatusCancelled, ContractStatusPaid,
	}
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// Contract is an engagement between collaborators and clients, billed
// either as a lump sum or in installments.
type Contract struct {
	shared.BaseAggregateRoot
	Title          string
	PaymentType    PaymentType
	TotalAmount    valueobject.Money
	Installments   []Installment // empty for LUMP_SUM
	CollaboratorID uuid.UUID
	ClientIDs      []uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	Status         ContractStatus
}

// NewContract creates a PENDING contract.
func NewContract(
	title string,
	paymentType PaymentType,
	totalAmount valueobject.Money,
	collaboratorID uuid.UUID,
	clientIDs []uuid.UUID,
	startDate, endDate time.Time,
) (*Contract, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidInputError("contract title cannot be empty")
	}
	if !paymentType.IsValid() {
		return nil, shared.InvalidInputError(fmt.Sprintf("unknown payment type %q", paymentType))
	}
	if !totalAmount.IsPositive() {
		return nil, shared.InvalidInputError("contract amount must be positive")
	}
	if endDate.Before(startDate) {
		return nil, shared.InvalidInputError("contract end date cannot precede start date")
	}

	return &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(time.Time{}),
		Title:             title,
		PaymentType:       paymentType,
		TotalAmount:       totalAmount,
		Installments:      []Installment{},
		CollaboratorID:    collaboratorID,
		ClientIDs:         clientIDs,
		StartDate:         startDate,
		EndDate:           endDate,
		Status:            ContractStatusPending,
	}, nil
}

// Currency returns the contract currency
func (c *Contract) Currency() valueobject.Currency {
	return c.TotalAmount.Currency()
}

// AddInstallment appends the next installment to an INSTALLMENTS contract.
// Installment plans are drawn up in the system of record; this builds the
// aggregate when importing or seeding one.
func (c *Contract) AddInstallment(amount valueobject.Money, dueDate time.Time) (*Installment, error) {
	if c.PaymentType != PaymentTypeInstallments {
		return nil, shared.InvalidStateError("lump-sum contracts have no installments")
	}
	if amount.Currency() != c.Currency() {
		return nil, shared.CurrencyMismatchError(c.Currency().String(), amount.Currency().String())
	}
	inst, err := NewInstallment(c.ID, len(c.Installments)+1, amount, dueDate)
	if err != nil {
		return nil, err
	}
	c.Installments = append(c.Installments, *inst)
	return &c.Installments[len(c.Installments)-1], nil
}

// FindInstallment returns the installment with the given ID, if any
func (c *Contract) FindInstallment(id uuid.UUID) *Installment {
	for idx := range c.Installments {
		if c.Installments[idx].ID == id {
			return &c.Installments[idx]
		}
	}
	return nil
}

// HasClient reports whether clientID is party to the contract
func (c *Contract) HasClient(clientID uuid.UUID) bool {
	for _, id := range c.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// EffectiveInstallments returns the installments reconciliation works on.
// A LUMP_SUM contract yields one synthetic installment for the whole amount,
// due at the end date, carrying a single completed payment when the
// contract is PAID.
func (c *Contract) EffectiveInstallments() []Installment {
	if c.PaymentType == PaymentTypeInstallments {
		return c.Installments
	}

	synthetic := Installment{
		BaseEntity: shared.BaseEntity{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
		ContractID: c.ID,
		Number:     1,
		Amount:     c.TotalAmount,
		DueDate:    c.EndDate,
		Payments:   []Payment{},
	}
	if c.Status == ContractStatusPaid {
		synthetic.Payments = append(synthetic.Payments, Payment{
			BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: synthetic.BaseEntity},
			InstallmentID:     c.ID,
			Amount:            c.TotalAmount,
			Status:            PaymentStatusCompleted,
		})
	}
	return []Installment{synthetic}
}
