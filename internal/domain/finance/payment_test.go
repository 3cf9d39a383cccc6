package finance

import (
	"testing"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// PaymentStatus / PaymentMethod
// ============================================

func TestPaymentStatus(t *testing.T) {
	tests := []struct {
		status   PaymentStatus
		valid    bool
		terminal bool
	}{
		{PaymentStatusPending, true, false},
		{PaymentStatusCompleted, true, true},
		{PaymentStatusFailed, true, true},
		{PaymentStatus("REFUNDED"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCard, PaymentMethodCash, PaymentMethodYape, PaymentMethodBankTransfer} {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, PaymentMethod("PLIN").IsValid())
}

// ============================================
// NewPayment
// ============================================

func TestNewPayment(t *testing.T) {
	installmentID := uuid.New()

	t.Run("creates pending payment and raises submitted event", func(t *testing.T) {
		p, err := NewPayment(installmentID, pen("1000"), PaymentMethodBankTransfer, " OP-991 ", testToday)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPending, p.Status)
		assert.Equal(t, "OP-991", p.Reference)
		assert.Equal(t, 1, p.GetVersion())
		assert.Equal(t, testToday, p.CreatedAt)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePaymentSubmitted, events[0].EventType())
	})

	t.Run("fails with zero amount", func(t *testing.T) {
		_, err := NewPayment(installmentID, pen("0"), PaymentMethodCash, "", testToday)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})

	t.Run("fails with unknown method", func(t *testing.T) {
		_, err := NewPayment(installmentID, pen("10"), PaymentMethod("CHEQUE"), "", testToday)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})

	t.Run("fails without installment", func(t *testing.T) {
		_, err := NewPayment(uuid.Nil, pen("10"), PaymentMethodCash, "", testToday)
		assert.Error(t, err)
	})
}

// ============================================
// Validate / Reject
// ============================================

func newPendingPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewPayment(uuid.New(), pen("1000"), PaymentMethodYape, "", testToday)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestPayment_Validate(t *testing.T) {
	t.Run("completes a pending payment", func(t *testing.T) {
		p := newPendingPayment(t)
		at := days(1)

		require.NoError(t, p.Validate(testAdmin, "checked against bank statement", at))

		assert.Equal(t, PaymentStatusCompleted, p.Status)
		require.NotNil(t, p.ValidatedBy)
		assert.Equal(t, testAdmin.ID, *p.ValidatedBy)
		assert.Equal(t, at, *p.ValidatedAt)
		assert.Equal(t, "checked against bank statement", p.Observations)
		assert.Equal(t, 2, p.GetVersion())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		validated, ok := events[0].(*PaymentValidatedEvent)
		require.True(t, ok)
		assert.Equal(t, p.InstallmentID, validated.InstallmentID)
		assert.Equal(t, testAdmin.ID, validated.ActorID)
	})

	t.Run("observations are optional", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.Validate(testAdmin, "", testToday))
		assert.Empty(t, p.Observations)
	})

	t.Run("second validate fails with invalid state", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.Validate(testAdmin, "", testToday))

		err := p.Validate(testAdmin, "", testToday)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, 2, p.GetVersion())
	})

	t.Run("cannot validate a failed payment", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.Reject(testAdmin, "duplicate voucher", testToday))

		err := p.Validate(testAdmin, "", testToday)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
		assert.Equal(t, PaymentStatusFailed, p.Status)
	})

	t.Run("requires an actor", func(t *testing.T) {
		p := newPendingPayment(t)
		err := p.Validate(Actor{}, "", testToday)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
		assert.True(t, p.IsPending())
	})
}

func TestPayment_Reject(t *testing.T) {
	t.Run("fails a pending payment with a reason", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.Reject(testAdmin, "  amount does not match voucher ", testToday))

		assert.True(t, p.IsFailed())
		assert.Equal(t, "amount does not match voucher", p.Observations)
		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePaymentRejected, events[0].EventType())
	})

	t.Run("empty reason is invalid state and leaves payment pending", func(t *testing.T) {
		for _, reason := range []string{"", "   "} {
			p := newPendingPayment(t)
			err := p.Reject(testAdmin, reason, testToday)
			require.Error(t, err)
			assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
			assert.Equal(t, PaymentStatusPending, p.Status)
			assert.Nil(t, p.ValidatedBy)
			assert.Equal(t, 1, p.GetVersion())
			assert.Empty(t, p.GetDomainEvents())
		}
	})

	t.Run("cannot reject a completed payment", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.Validate(testAdmin, "", testToday))
		err := p.Reject(testAdmin, "late", testToday)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
		assert.True(t, p.IsCompleted())
	})
}

func TestDecidedInstallmentID(t *testing.T) {
	p := newPendingPayment(t)
	require.NoError(t, p.Validate(testAdmin, "", testToday))

	id, ok := DecidedInstallmentID(p.GetDomainEvents()[0])
	assert.True(t, ok)
	assert.Equal(t, p.InstallmentID, id)

	submitted := NewPaymentSubmittedEvent(p)
	_, ok = DecidedInstallmentID(submitted)
	assert.False(t, ok)
}
