package partner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// rucPattern matches an 11-digit Peruvian taxpayer number (RUC)
var rucPattern = regexp.MustCompile(`^(10|15|17|20)\d{9}$`)

// Company is an accounting client of the firm. Users (accountants) are
// attached through relations that each carry a monthly fee.
type Company struct {
	shared.BaseAggregateRoot
	BusinessName string
	RUC          string
	Relations    []UserRelation
	Transactions []CompanyTransaction
}

// UserRelation links a user to a company with a monthly fee.
type UserRelation struct {
	shared.BaseEntity
	CompanyID      uuid.UUID
	UserID         uuid.UUID
	MonthlyPayment valueobject.Money
	IsActive       bool
}

// TransactionType classifies a company ledger entry
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is known
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense
}

// CompanyTransaction is a manually recorded expense against a company.
type CompanyTransaction struct {
	shared.BaseEntity
	CompanyID   uuid.UUID
	Type        TransactionType
	Amount      valueobject.Money
	Date        time.Time
	Description string
}

// NewCompany creates a company with no relations.
func NewCompany(businessName, ruc string) (*Company, error) {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, shared.InvalidInputError("business name cannot be empty")
	}
	if len(businessName) > 200 {
		return nil, shared.InvalidInputError("business name cannot exceed 200 characters")
	}
	ruc = strings.TrimSpace(ruc)
	if !rucPattern.MatchString(ruc) {
		return nil, shared.InvalidInputError(fmt.Sprintf("invalid RUC %q", ruc))
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(time.Time{}),
		BusinessName:      businessName,
		RUC:               ruc,
		Relations:         []UserRelation{},
		Transactions:      []CompanyTransaction{},
	}, nil
}

// AttachUser adds an active relation for userID. A user may only hold one
// active relation per company. Relations are managed in the system of
// record; this builds them when a company is imported or seeded.
func (c *Company) AttachUser(userID uuid.UUID, monthlyPayment valueobject.Money) (*UserRelation, error) {
	if userID == uuid.Nil {
		return nil, shared.InvalidInputError("user ID cannot be empty")
	}
	if monthlyPayment.IsNegative() {
		return nil, shared.InvalidInputError("monthly payment cannot be negative")
	}
	if c.ActiveRelationFor(userID) != nil {
		return nil, shared.InvalidStateError("user already has an active relation with this company")
	}

	rel := UserRelation{
		BaseEntity:     shared.NewBaseEntity(time.Time{}),
		CompanyID:      c.ID,
		UserID:         userID,
		MonthlyPayment: monthlyPayment,
		IsActive:       true,
	}
	c.Relations = append(c.Relations, rel)
	c.IncrementVersion()
	return &c.Relations[len(c.Relations)-1], nil
}

// DetachUser deactivates the active relation of userID, mirroring a
// deactivation made in the system of record.
func (c *Company) DetachUser(userID uuid.UUID, at time.Time) error {
	rel := c.ActiveRelationFor(userID)
	if rel == nil {
		return shared.NotFoundError("active relation for user", userID)
	}
	rel.IsActive = false
	rel.Touch(at)
	c.Touch(at)
	c.IncrementVersion()
	return nil
}

// ActiveRelationFor returns the active relation of userID, if any
func (c *Company) ActiveRelationFor(userID uuid.UUID) *UserRelation {
	for i := range c.Relations {
		if c.Relations[i].UserID == userID && c.Relations[i].IsActive {
			return &c.Relations[i]
		}
	}
	return nil
}

// ActiveRelations returns only the active relations
func (c *Company) ActiveRelations() []UserRelation {
	out := make([]UserRelation, 0, len(c.Relations))
	for _, r := range c.Relations {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

// RecordExpense appends an expense entry imported from the system of record.
func (c *Company) RecordExpense(amount valueobject.Money, date time.Time, description string) (*CompanyTransaction, error) {
	if !amount.IsPositive() {
		return nil, shared.InvalidInputError("expense amount must be positive")
	}
	if date.IsZero() {
		return nil, shared.InvalidInputError("expense date is required")
	}

	tx := CompanyTransaction{
		BaseEntity:  shared.NewBaseEntity(time.Time{}),
		CompanyID:   c.ID,
		Type:        TransactionTypeExpense,
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(description),
	}
	c.Transactions = append(c.Transactions, tx)
	c.IncrementVersion()
	return &c.Transactions[len(c.Transactions)-1], nil
}
