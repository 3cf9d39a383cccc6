package finance

import (
	"context"
	"fmt"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/cecagem/backoffice/internal/infrastructure/logger"
	"github.com/cecagem/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentValidationService records submitted payments and applies
// administrator decisions to them.
type PaymentValidationService struct {
	payments     finance.PaymentRepository
	installments finance.InstallmentRepository
	publisher    shared.EventPublisher
	engine       *finance.ReconciliationEngine
	logger       *zap.Logger
}

// NewPaymentValidationService creates a new PaymentValidationService
func NewPaymentValidationService(
	payments finance.PaymentRepository,
	installments finance.InstallmentRepository,
	publisher shared.EventPublisher,
	engine *finance.ReconciliationEngine,
	logger *zap.Logger,
) *PaymentValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentValidationService{
		payments:     payments,
		installments: installments,
		publisher:    publisher,
		engine:       engine,
		logger:       logger,
	}
}

// SubmitPayment records a PENDING payment against an installment. The
// payment must be positive and in the installment's currency.
func (s *PaymentValidationService) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*PaymentDecisionResult, error) {
	inst, err := s.installments.FindByID(ctx, req.InstallmentID)
	if err != nil {
		return nil, err
	}

	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}
	if amount.Currency() != inst.Currency() {
		return nil, shared.CurrencyMismatchError(inst.Currency().String(), amount.Currency().String())
	}

	payment, err := finance.NewPayment(inst.ID, amount, finance.PaymentMethod(req.Method), req.Reference, s.engine.Today())
	if err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	s.publish(ctx, payment)

	inst.Payments = append(inst.Payments, *payment)
	return &PaymentDecisionResult{
		Payment:           ToPaymentResponse(payment),
		InstallmentStatus: s.engine.InstallmentStatus(inst),
	}, nil
}

// Validate marks a PENDING payment COMPLETED.
func (s *PaymentValidationService) Validate(ctx context.Context, paymentID uuid.UUID, actor finance.Actor, observations string) (*PaymentDecisionResult, error) {
	return s.Decide(ctx, DecidePaymentCommand{
		PaymentID:    paymentID,
		Status:       finance.PaymentStatusCompleted,
		Observations: observations,
		Actor:        actor,
	})
}

// Reject marks a PENDING payment FAILED. A reason is required.
func (s *PaymentValidationService) Reject(ctx context.Context, paymentID uuid.UUID, actor finance.Actor, reason string) (*PaymentDecisionResult, error) {
	return s.Decide(ctx, DecidePaymentCommand{
		PaymentID:    paymentID,
		Status:       finance.PaymentStatusFailed,
		Observations: reason,
		Actor:        actor,
	})
}

// Decide applies cmd to the payment and persists it with a compare-and-swap
// on the stored status and version. When two administrators race on the same
// payment exactly one wins; the other gets INVALID_STATE.
func (s *PaymentValidationService) Decide(ctx context.Context, cmd DecidePaymentCommand) (result *PaymentDecisionResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "decide",
		attribute.String(telemetry.AttrPaymentID, cmd.PaymentID.String()),
		attribute.String(telemetry.AttrPaymentStatus, string(cmd.Status)),
		attribute.String(telemetry.AttrActorID, cmd.Actor.ID.String()),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if !cmd.Status.IsTerminal() {
		return nil, shared.InvalidInputError(fmt.Sprintf("status must be COMPLETED or FAILED, got %q", cmd.Status))
	}

	payment, err := s.payments.FindByID(ctx, cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrInstallmentID, payment.InstallmentID.String()))
	log := logger.WithLogger(ctx, s.logger)

	at := s.engine.Today()
	switch cmd.Status {
	case finance.PaymentStatusCompleted:
		err = payment.Validate(cmd.Actor, cmd.Observations, at)
	default:
		err = payment.Reject(cmd.Actor, cmd.Observations, at)
	}
	if err != nil {
		return nil, err
	}

	if err := s.payments.SaveTransition(ctx, payment); err != nil {
		if shared.IsCode(err, shared.CodeInvalidState) {
			log.Info("payment decision lost to a concurrent update",
				zap.String("payment_id", payment.ID.String()),
				zap.String("actor_id", cmd.Actor.ID.String()),
			)
		}
		return nil, err
	}

	log.Info("payment decided",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", payment.Status.String()),
		zap.String("actor_id", cmd.Actor.ID.String()),
	)
	s.publish(ctx, payment)

	inst, err := s.installments.FindByID(ctx, payment.InstallmentID)
	if err != nil {
		return nil, fmt.Errorf("payment %s saved but installment reload failed: %w", payment.ID, err)
	}
	return &PaymentDecisionResult{
		Payment:           ToPaymentResponse(payment),
		InstallmentStatus: s.engine.InstallmentStatus(inst),
	}, nil
}

// ListPayments returns one page of the payment ledger.
func (s *PaymentValidationService) ListPayments(ctx context.Context, filter finance.PaymentFilter) (shared.Paginated[PaymentResponse], error) {
	payments, total, err := s.payments.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[PaymentResponse]{}, err
	}
	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, ToPaymentResponse(&payments[i]))
	}
	return shared.NewPaginated(items, total, filter.Pagination), nil
}

// publish hands the payment's pending events to the bus. The transition is
// already committed, so a publish failure is logged and not returned.
func (s *PaymentValidationService) publish(ctx context.Context, payment *finance.Payment) {
	events := payment.TakeDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish payment events",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}
