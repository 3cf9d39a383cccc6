package finance

import (
	"testing"
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	testToday = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	testAdmin = Actor{ID: uuid.MustParse("7b0c2f1e-4a6d-4e55-9a41-2d8e5c0f9b10"), Name: "Admin"}
)

func pen(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.PEN)
}

func usd(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.USD)
}

func days(n int) time.Time {
	return testToday.AddDate(0, 0, n)
}

func newTestInstallment(t *testing.T, amount valueobject.Money, due time.Time) *Installment {
	t.Helper()
	inst, err := NewInstallment(uuid.New(), 1, amount, due)
	require.NoError(t, err)
	return inst
}

// addPayment appends a payment in the given status to inst.
func addPayment(t *testing.T, inst *Installment, amount valueobject.Money, status PaymentStatus) *Payment {
	t.Helper()
	p, err := NewPayment(inst.ID, amount, PaymentMethodYape, "op-123", testToday)
	require.NoError(t, err)
	switch status {
	case PaymentStatusCompleted:
		require.NoError(t, p.Validate(testAdmin, "", testToday))
	case PaymentStatusFailed:
		require.NoError(t, p.Reject(testAdmin, "voucher unreadable", testToday))
	}
	inst.Payments = append(inst.Payments, *p)
	return &inst.Payments[len(inst.Payments)-1]
}

func newInstallmentsContract(t *testing.T, total valueobject.Money) *Contract {
	t.Helper()
	c, err := NewContract("Tesis de maestría", PaymentTypeInstallments, total, uuid.New(),
		[]uuid.UUID{uuid.New()}, days(-60), days(120))
	require.NoError(t, err)
	return c
}
