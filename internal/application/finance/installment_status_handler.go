package finance

import (
	"context"
	"fmt"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// InstallmentStatusHandler keeps derived installment state in step with the
// payment ledger. After every submission or decision it resolves the owning
// installment's status, logs it and drops cached dashboard statistics.
type InstallmentStatusHandler struct {
	installments finance.InstallmentRepository
	engine       *finance.ReconciliationEngine
	cache        StatisticsCache
	logger       *zap.Logger
}

// NewInstallmentStatusHandler creates a new InstallmentStatusHandler
func NewInstallmentStatusHandler(
	installments finance.InstallmentRepository,
	engine *finance.ReconciliationEngine,
	cache StatisticsCache,
	logger *zap.Logger,
) *InstallmentStatusHandler {
	if cache == nil {
		cache = NoopStatisticsCache
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstallmentStatusHandler{
		installments: installments,
		engine:       engine,
		cache:        cache,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InstallmentStatusHandler) EventTypes() []string {
	return []string{
		finance.EventTypePaymentSubmitted,
		finance.EventTypePaymentValidated,
		finance.EventTypePaymentRejected,
	}
}

// Handle resolves the installment touched by event.
func (h *InstallmentStatusHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	installmentID, ok := finance.DecidedInstallmentID(event)
	if !ok {
		submitted, isSubmitted := event.(*finance.PaymentSubmittedEvent)
		if !isSubmitted {
			return fmt.Errorf("unexpected event type %s", event.EventType())
		}
		installmentID = submitted.InstallmentID
	}

	inst, err := h.installments.FindByID(ctx, installmentID)
	if err != nil {
		return fmt.Errorf("failed to load installment %s: %w", installmentID, err)
	}
	status := h.engine.InstallmentStatus(inst)

	h.logger.Info("installment status resolved",
		zap.String("event_type", event.EventType()),
		zap.String("payment_id", event.AggregateID().String()),
		zap.String("installment_id", installmentID.String()),
		zap.Int("installment_number", inst.Number),
		zap.String("status", status.String()),
		zap.String("paid", inst.PaidAmount().String()),
	)

	if err := h.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("failed to invalidate dashboard statistics: %w", err)
	}
	return nil
}

var _ shared.EventHandler = (*InstallmentStatusHandler)(nil)
