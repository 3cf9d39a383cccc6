package finance

import (
	"context"
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/partner"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) ([]finance.Payment, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) SaveTransition(ctx context.Context, payment *finance.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Installment), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter finance.ContractFilter) ([]*finance.Contract, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*finance.Contract), args.Get(1).(int64), args.Error(2)
}

func (m *MockContractRepository) FindByPeriod(ctx context.Context, period finance.ReportingPeriod) ([]*finance.Contract, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]*finance.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *finance.Contract) error {
	return m.Called(ctx, contract).Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return m.Called(ctx, company).Error(0)
}

// =============================================================================
// Mock Collaborators
// =============================================================================

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockStatisticsCache struct {
	mock.Mock
}

func (m *MockStatisticsCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatisticsCache) Get(ctx context.Context, generation int64, period finance.ReportingPeriod) (*finance.PortfolioStats, bool, error) {
	args := m.Called(ctx, generation, period)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*finance.PortfolioStats), args.Bool(1), args.Error(2)
}

func (m *MockStatisticsCache) Put(ctx context.Context, generation int64, period finance.ReportingPeriod, stats *finance.PortfolioStats) error {
	return m.Called(ctx, generation, period, stats).Error(0)
}

func (m *MockStatisticsCache) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

var (
	testNow   = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	testAdmin = finance.Actor{ID: uuid.MustParse("6f1c1d2e-2b1a-4c4e-9d7e-0a1b2c3d4e5f"), Name: "Ana Torres"}
)

func newTestEngine() *finance.ReconciliationEngine {
	return finance.NewReconciliationEngine(finance.WithClock(func() time.Time { return testNow }))
}

func pen(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.PEN)
}

func newInstallment(amount string, dueInDays int) *finance.Installment {
	inst, err := finance.NewInstallment(uuid.New(), 1, pen(amount), testNow.AddDate(0, 0, dueInDays))
	if err != nil {
		panic(err)
	}
	return inst
}

func newPendingPayment(inst *finance.Installment, amount string) *finance.Payment {
	p, err := finance.NewPayment(inst.ID, pen(amount), finance.PaymentMethodYape, "OP-1", testNow.Add(-time.Hour))
	if err != nil {
		panic(err)
	}
	p.ClearDomainEvents()
	return p
}

// newInstallmentsContract builds 3 x 1000 PEN installments: one paid, one
// past due with a failed payment, one due in the future.
func newInstallmentsContract() *finance.Contract {
	c, err := finance.NewContract("Auditoría 2026", finance.PaymentTypeInstallments, pen("3000"),
		uuid.New(), []uuid.UUID{uuid.New()}, testNow.AddDate(0, -2, 0), testNow.AddDate(0, 4, 0))
	if err != nil {
		panic(err)
	}
	c.Status = finance.ContractStatusInProgress

	paid, _ := c.AddInstallment(pen("1000"), testNow.AddDate(0, 0, -30))
	completed := newPendingPayment(paid, "1000")
	_ = completed.Validate(testAdmin, "", testNow.AddDate(0, 0, -29))
	paid.Payments = append(paid.Payments, *completed)

	late, _ := c.AddInstallment(pen("1000"), testNow.AddDate(0, 0, -5))
	failed := newPendingPayment(late, "1000")
	_ = failed.Reject(testAdmin, "voucher ilegible", testNow.AddDate(0, 0, -4))
	late.Payments = append(late.Payments, *failed)

	_, _ = c.AddInstallment(pen("1000"), testNow.AddDate(0, 0, 30))
	return c
}
