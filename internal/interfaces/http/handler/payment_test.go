package handler

import (
	"net/http"
	"testing"

	financeapp "github.com/cecagem/backoffice/internal/application/finance"
	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitPath(installmentID uuid.UUID) string {
	return "/api/v1/installments/" + installmentID.String() + "/payments"
}

func TestPaymentHandler_SubmitAndValidate(t *testing.T) {
	s := newTestServer(t)
	c := s.seedContract(t, "Contabilidad Minimarket Rosa")
	target := c.Installments[2]

	w := s.do(t, http.MethodPost, submitPath(target.ID), collaboratorToken(t), map[string]any{
		"amount":    "1000",
		"currency":  "PEN",
		"method":    "BANK_TRANSFER",
		"reference": "BCP-000123",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var submitted financeapp.PaymentDecisionResult
	decode(t, w, &submitted)
	assert.Equal(t, finance.PaymentStatusPending, submitted.Payment.Status)
	assert.Equal(t, target.ID, submitted.Payment.InstallmentID)
	assert.Equal(t, "BCP-000123", submitted.Payment.Reference)
	assert.Equal(t, finance.InstallmentStatusAwaitingValidation, submitted.InstallmentStatus)

	w = s.do(t, http.MethodPatch, "/api/v1/payments/"+submitted.Payment.ID.String(), adminToken(t), map[string]any{
		"status":       "COMPLETED",
		"observations": "abono confirmado en estado de cuenta",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var decided financeapp.PaymentDecisionResult
	decode(t, w, &decided)
	assert.Equal(t, finance.PaymentStatusCompleted, decided.Payment.Status)
	require.NotNil(t, decided.Payment.ValidatedBy)
	assert.Equal(t, testAdmin.ID, *decided.Payment.ValidatedBy)
	assert.Equal(t, finance.InstallmentStatusPaid, decided.InstallmentStatus)

	published, failed := s.bus.Stats()
	assert.Equal(t, int64(2), published)
	assert.Zero(t, failed)

	t.Run("a decided payment cannot be decided again", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/payments/"+submitted.Payment.ID.String(), adminToken(t), map[string]any{
			"status":       "FAILED",
			"observations": "duplicado",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)
	})
}

func TestPaymentHandler_Reject(t *testing.T) {
	s := newTestServer(t)
	c := s.seedContract(t, "Declaraciones Librería Central")
	p := s.seedPayment(t, c.Installments[1].ID, "1000")
	path := "/api/v1/payments/" + p.ID.String()

	w := s.do(t, http.MethodPatch, path, adminToken(t), map[string]any{"status": "FAILED", "observations": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)

	w = s.do(t, http.MethodPatch, path, adminToken(t), map[string]any{"status": "FAILED", "observations": "monto no coincide"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var decided financeapp.PaymentDecisionResult
	decode(t, w, &decided)
	assert.Equal(t, finance.PaymentStatusFailed, decided.Payment.Status)
	assert.Equal(t, "monto no coincide", decided.Payment.Observations)
	assert.Equal(t, finance.InstallmentStatusOverdue, decided.InstallmentStatus)
}

func TestPaymentHandler_DecideAuthorization(t *testing.T) {
	s := newTestServer(t)
	c := s.seedContract(t, "Nómina Clínica San Borja")
	p := s.seedPayment(t, c.Installments[2].ID, "1000")
	path := "/api/v1/payments/" + p.ID.String()
	body := map[string]any{"status": "COMPLETED"}

	w := s.do(t, http.MethodPatch, path, "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPatch, path, collaboratorToken(t), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decode(t, w, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeForbidden, env.Error.Code)

	stored, err := s.payments.FindByID(t.Context(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentStatusPending, stored.Status)
}

func TestPaymentHandler_DecideRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "status outside the decision set",
			path:   "/api/v1/payments/" + uuid.NewString(),
			body:   map[string]any{"status": "PENDING"},
			status: http.StatusBadRequest,
			code:   dto.ErrCodeInvalidInput,
		},
		{
			name:   "missing status",
			path:   "/api/v1/payments/" + uuid.NewString(),
			body:   map[string]any{"observations": "ok"},
			status: http.StatusBadRequest,
			code:   dto.ErrCodeInvalidInput,
		},
		{
			name:   "unknown payment",
			path:   "/api/v1/payments/" + uuid.NewString(),
			body:   map[string]any{"status": "COMPLETED"},
			status: http.StatusNotFound,
			code:   dto.ErrCodeNotFound,
		},
		{
			name:   "malformed id",
			path:   "/api/v1/payments/abc",
			body:   map[string]any{"status": "COMPLETED"},
			status: http.StatusBadRequest,
			code:   dto.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPatch, tt.path, adminToken(t), tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode(t, w, nil)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestPaymentHandler_SubmitRejections(t *testing.T) {
	s := newTestServer(t)
	c := s.seedContract(t, "Asesoría Grifo Los Andes")
	pending := c.Installments[2].ID

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "currency differs from the installment",
			path:   submitPath(pending),
			body:   map[string]any{"amount": "250", "currency": "USD", "method": "CARD"},
			status: http.StatusUnprocessableEntity,
			code:   dto.ErrCodeCurrencyMismatch,
		},
		{
			name:   "unknown installment",
			path:   submitPath(uuid.New()),
			body:   map[string]any{"amount": "250", "currency": "PEN", "method": "CASH"},
			status: http.StatusNotFound,
			code:   dto.ErrCodeNotFound,
		},
		{
			name:   "unsupported method",
			path:   submitPath(pending),
			body:   map[string]any{"amount": "250", "currency": "PEN", "method": "BITCOIN"},
			status: http.StatusBadRequest,
			code:   dto.ErrCodeInvalidInput,
		},
		{
			name:   "unsupported currency",
			path:   submitPath(pending),
			body:   map[string]any{"amount": "250", "currency": "EUR", "method": "YAPE"},
			status: http.StatusBadRequest,
			code:   dto.ErrCodeInvalidInput,
		},
		{
			name:   "malformed body",
			path:   submitPath(pending),
			body:   []int{1, 2},
			status: http.StatusBadRequest,
			code:   dto.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, tt.path, collaboratorToken(t), tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode(t, w, nil)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}

	page, total, err := s.payments.FindAll(t.Context(), finance.PaymentFilter{InstallmentID: &pending})
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Zero(t, total)
}

func TestPaymentHandler_List(t *testing.T) {
	s := newTestServer(t)
	c := s.seedContract(t, "Contabilidad Estudio Vargas")
	s.seedPayment(t, c.Installments[2].ID, "500")

	w := s.do(t, http.MethodGet, "/api/v1/payments?status=PENDING", adminToken(t), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []financeapp.PaymentResponse
	env := decode(t, w, &items)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equals(pen("500")))

	w = s.do(t, http.MethodGet, "/api/v1/payments?contract_id="+c.ID.String(), adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decode(t, w, &items)
	assert.Equal(t, int64(3), env.Meta.Total)

	w = s.do(t, http.MethodGet, "/api/v1/payments?status=REFUNDED", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
