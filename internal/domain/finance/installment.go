package finance

import (
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InstallmentStatus is the derived state of an installment
type InstallmentStatus string

const (
	InstallmentStatusPending            InstallmentStatus = "PENDING"
	InstallmentStatusOverdue            InstallmentStatus = "OVERDUE"
	InstallmentStatusAwaitingValidation InstallmentStatus = "AWAITING_VALIDATION"
	InstallmentStatusPaid               InstallmentStatus = "PAID"
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusOverdue,
		InstallmentStatusAwaitingValidation, InstallmentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// Installment is one scheduled portion of a contract's total amount.
type Installment struct {
	shared.BaseEntity
	ContractID uuid.UUID
	Number     int
	Amount     valueobject.Money
	DueDate    time.Time
	Payments   []Payment
}

// NewInstallment creates an installment with no payments.
func NewInstallment(contractID uuid.UUID, number int, amount valueobject.Money, dueDate time.Time) (*Installment, error) {
	if number < 1 {
		return nil, shared.InvalidInputError("installment number must start at 1")
	}
	if !amount.IsPositive() {
		return nil, shared.InvalidInputError("installment amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.InvalidInputError("installment due date is required")
	}
	return &Installment{
		BaseEntity: shared.NewBaseEntity(time.Time{}),
		ContractID: contractID,
		Number:     number,
		Amount:     amount,
		DueDate:    dueDate,
		Payments:   []Payment{},
	}, nil
}

// Currency returns the currency payments must be made in
func (i *Installment) Currency() valueobject.Currency {
	return i.Amount.Currency()
}

// PaidAmount sums COMPLETED payments in the installment's currency.
// Payments in another currency are ignored; see CurrencyMismatchCount.
func (i *Installment) PaidAmount() valueobject.Money {
	paid := valueobject.Zero(i.Currency())
	for _, p := range i.Payments {
		if !p.IsCompleted() || p.Amount.Currency() != i.Currency() {
			continue
		}
		paid, _ = paid.Add(p.Amount)
	}
	return paid
}

// Outstanding returns amount minus paid, floored at zero.
func (i *Installment) Outstanding() valueobject.Money {
	diff, _ := i.Amount.Subtract(i.PaidAmount())
	return diff.ClampZero()
}

// IsFullyPaid reports paidAmount >= amount
func (i *Installment) IsFullyPaid() bool {
	ok, _ := i.PaidAmount().GreaterThanOrEqual(i.Amount)
	return ok
}

// IsOverpaid reports paidAmount > amount. Over-payment is kept as-is and
// only surfaced.
func (i *Installment) IsOverpaid() bool {
	c, _ := i.PaidAmount().Compare(i.Amount)
	return c > 0
}

// HasPendingPayment reports whether any payment awaits review
func (i *Installment) HasPendingPayment() bool {
	for _, p := range i.Payments {
		if p.IsPending() {
			return true
		}
	}
	return false
}

// IsPastDue reports whether the due date falls on a calendar day before asOf.
func (i *Installment) IsPastDue(asOf time.Time) bool {
	return calendarDay(i.DueDate, asOf.Location()).Before(calendarDay(asOf, asOf.Location()))
}

// CurrencyMismatchCount counts payments whose currency differs from the
// installment's.
func (i *Installment) CurrencyMismatchCount() int {
	n := 0
	for _, p := range i.Payments {
		if p.Amount.Currency() != i.Currency() {
			n++
		}
	}
	return n
}

// FindPayment returns the payment with the given ID, if any
func (i *Installment) FindPayment(id uuid.UUID) *Payment {
	for idx := range i.Payments {
		if i.Payments[idx].ID == id {
			return &i.Payments[idx]
		}
	}
	return nil
}

// Status resolves the installment status as of the given date.
func (i *Installment) Status(asOf time.Time) InstallmentStatus {
	return ResolveInstallmentStatus(i, asOf)
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
