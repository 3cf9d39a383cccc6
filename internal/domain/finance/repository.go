package finance

import (
	"context"
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ContractFilter lists the recognized contract query fields. Zero values
// mean "no constraint".
type ContractFilter struct {
	Status         ContractStatus
	PaymentType    PaymentType
	CollaboratorID *uuid.UUID
	ClientID       *uuid.UUID
	Search         string
	StartFrom      *time.Time
	StartTo        *time.Time
	OrderBy        string
	OrderDir       string
	Pagination     shared.Page
}

// PaymentFilter lists the recognized payment query fields.
type PaymentFilter struct {
	Status        PaymentStatus
	Method        PaymentMethod
	InstallmentID *uuid.UUID
	ContractID    *uuid.UUID
	OrderBy       string
	OrderDir      string
	Pagination    shared.Page
}

// ContractRepository defines the interface for contract persistence.
// Loaded contracts always carry their installments and payments.
type ContractRepository interface {
	// FindByID finds a contract by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)

	// FindAll returns one page of contracts matching the filter and the total count
	FindAll(ctx context.Context, filter ContractFilter) ([]*Contract, int64, error)

	// FindByPeriod returns every contract starting within the period
	FindByPeriod(ctx context.Context, period ReportingPeriod) ([]*Contract, error)

	// Save creates or updates a contract and its installments. Contracts are
	// authored by the system of record; this write port serves its import
	// path and fixtures, no HTTP route exposes it.
	Save(ctx context.Context, contract *Contract) error
}

// InstallmentRepository defines the interface for installment lookups
type InstallmentRepository interface {
	// FindByID finds an installment by ID, with its payments
	FindByID(ctx context.Context, id uuid.UUID) (*Installment, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindAll returns one page of payments matching the filter and the total count
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, int64, error)

	// Create inserts a new PENDING payment
	Create(ctx context.Context, payment *Payment) error

	// SaveTransition persists a PENDING -> COMPLETED|FAILED transition.
	// The write only applies if the stored row is still PENDING at the
	// previous version; otherwise it returns an INVALID_STATE error.
	SaveTransition(ctx context.Context, payment *Payment) error
}
