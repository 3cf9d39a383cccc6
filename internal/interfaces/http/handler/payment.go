package handler

import (
	financeapp "github.com/cecagem/backoffice/internal/application/finance"
	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/infrastructure/auth"
	"github.com/cecagem/backoffice/internal/interfaces/http/middleware"
	"github.com/cecagem/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the payment ledger: submissions by collaborators
// and clients, and validate/reject decisions by administrators.
type PaymentHandler struct {
	BaseHandler
	payments *financeapp.PaymentValidationService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *financeapp.PaymentValidationService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// PaymentRoutes creates the route groups for /payments and
// /installments/:id/payments. Decisions are restricted to administrators.
func PaymentRoutes(h *PaymentHandler, log *zap.Logger) []router.RouteRegistrar {
	payments := router.NewDomainGroup("payments", "/payments")
	payments.GET("", h.List)
	payments.PATCH("/:id", middleware.RequireRole(log, auth.RoleAdmin), h.Decide)

	installments := router.NewDomainGroup("installments", "/installments")
	installments.POST("/:id/payments", h.Submit)

	return []router.RouteRegistrar{payments, installments}
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	filter, err := financeapp.ParsePaymentFilter(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.payments.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// Submit handles POST /installments/:id/payments
func (h *PaymentHandler) Submit(c *gin.Context) {
	installmentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req financeapp.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.InstallmentID = installmentID

	result, err := h.payments.SubmitPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Decide handles PATCH /payments/:id with body
// {"status": "COMPLETED"|"FAILED", "observations": "..."}.
func (h *PaymentHandler) Decide(c *gin.Context) {
	paymentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req financeapp.DecidePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.payments.Decide(c.Request.Context(), financeapp.DecidePaymentCommand{
		PaymentID:    paymentID,
		Status:       finance.PaymentStatus(req.Status),
		Observations: req.Observations,
		Actor:        actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
