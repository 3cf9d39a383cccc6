package finance

import (
	"time"

	"github.com/cecagem/backoffice/internal/domain/partner"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolveInstallmentStatus derives the status of an installment. This is the
// only place the status is computed. Precedence, highest first:
//
//	PAID                 paidAmount >= amount
//	AWAITING_VALIDATION  at least one PENDING payment
//	OVERDUE              due date before asOf's calendar day
//	PENDING              otherwise
//
// FAILED payments never contribute.
func ResolveInstallmentStatus(i *Installment, asOf time.Time) InstallmentStatus {
	switch {
	case i.IsFullyPaid():
		return InstallmentStatusPaid
	case i.HasPendingPayment():
		return InstallmentStatusAwaitingValidation
	case i.IsPastDue(asOf):
		return InstallmentStatusOverdue
	default:
		return InstallmentStatusPending
	}
}

// ContractSummary is the financial position of one contract.
type ContractSummary struct {
	ContractID              uuid.UUID         `json:"contract_id"`
	PaymentType             PaymentType       `json:"payment_type"`
	TotalAmount             valueobject.Money `json:"total_amount"`
	TotalPaid               valueobject.Money `json:"total_paid"`
	TotalPending            valueobject.Money `json:"total_pending"`
	InstallmentCount        int               `json:"installment_count"`
	PaidCount               int               `json:"paid_count"`
	AwaitingValidationCount int               `json:"awaiting_validation_count"`
	OverdueCount            int               `json:"overdue_count"`
	PendingCount            int               `json:"pending_count"`
	CurrencyMismatchCount   int               `json:"currency_mismatch_count"`
	Overpaid                bool              `json:"overpaid"`
}

// PaidPercentage returns totalPaid as a share of totalAmount.
func (s ContractSummary) PaidPercentage() decimal.Decimal {
	p, _ := valueobject.Percentage(s.TotalPaid, s.TotalAmount)
	return p
}

// ContractFinancialSummary reduces a contract's installments into totals.
// totalPending is floored at zero so over-payment never yields a negative
// balance; Overpaid flags it instead.
func ContractFinancialSummary(c *Contract, asOf time.Time) ContractSummary {
	currency := c.Currency()
	paid := valueobject.Zero(currency)
	s := ContractSummary{
		ContractID:  c.ID,
		PaymentType: c.PaymentType,
		TotalAmount: c.TotalAmount,
	}

	for _, inst := range c.EffectiveInstallments() {
		s.InstallmentCount++
		s.CurrencyMismatchCount += inst.CurrencyMismatchCount()
		if inst.IsOverpaid() {
			s.Overpaid = true
		}
		if inst.Currency() == currency {
			paid, _ = paid.Add(inst.PaidAmount())
		} else {
			s.CurrencyMismatchCount++
		}

		switch ResolveInstallmentStatus(&inst, asOf) {
		case InstallmentStatusPaid:
			s.PaidCount++
		case InstallmentStatusAwaitingValidation:
			s.AwaitingValidationCount++
		case InstallmentStatusOverdue:
			s.OverdueCount++
		default:
			s.PendingCount++
		}
	}

	pending, _ := c.TotalAmount.Subtract(paid)
	if pending.IsNegative() {
		s.Overpaid = true
	}
	s.TotalPaid = paid
	s.TotalPending = pending.ClampZero()
	return s
}

// PortfolioStats aggregates many contracts. Money totals are bucketed per
// currency.
type PortfolioStats struct {
	TotalContracts                 int                      `json:"total_contracts"`
	CountByPaymentType             map[PaymentType]int      `json:"count_by_payment_type"`
	CountByStatus                  map[ContractStatus]int   `json:"count_by_status"`
	TotalAmount                    valueobject.MoneyBuckets `json:"total_amount"`
	TotalPaid                      valueobject.MoneyBuckets `json:"total_paid"`
	TotalPending                   valueobject.MoneyBuckets `json:"total_pending"`
	InstallmentCount               int                      `json:"installment_count"`
	PaidInstallments               int                      `json:"paid_installments"`
	OverdueInstallments            int                      `json:"overdue_installments"`
	AwaitingValidationInstallments int                      `json:"awaiting_validation_installments"`
	CurrencyMismatchCount          int                      `json:"currency_mismatch_count"`
}

// NewPortfolioStats returns empty statistics with every payment type,
// contract status and supported currency present at zero.
func NewPortfolioStats() PortfolioStats {
	s := PortfolioStats{
		CountByPaymentType: make(map[PaymentType]int),
		CountByStatus:      make(map[ContractStatus]int),
		TotalAmount:        valueobject.NewMoneyBuckets(),
		TotalPaid:          valueobject.NewMoneyBuckets(),
		TotalPending:       valueobject.NewMoneyBuckets(),
	}
	for _, t := range PaymentTypes() {
		s.CountByPaymentType[t] = 0
	}
	for _, st := range ContractStatuses() {
		s.CountByStatus[st] = 0
	}
	for _, c := range valueobject.Currencies() {
		s.TotalAmount.Touch(c)
		s.TotalPaid.Touch(c)
		s.TotalPending.Touch(c)
	}
	return s
}

// Accumulate folds one contract summary into the statistics. Every field is
// a sum, so the result does not depend on the order contracts arrive in.
func (s *PortfolioStats) Accumulate(c *Contract, summary ContractSummary) {
	s.TotalContracts++
	s.CountByPaymentType[c.PaymentType]++
	s.CountByStatus[c.Status]++
	s.TotalAmount.Add(summary.TotalAmount)
	s.TotalPaid.Add(summary.TotalPaid)
	s.TotalPending.Add(summary.TotalPending)
	s.InstallmentCount += summary.InstallmentCount
	s.PaidInstallments += summary.PaidCount
	s.OverdueInstallments += summary.OverdueCount
	s.AwaitingValidationInstallments += summary.AwaitingValidationCount
	s.CurrencyMismatchCount += summary.CurrencyMismatchCount
}

// PortfolioStatistics reduces a set of contracts into portfolio-wide
// statistics.
func PortfolioStatistics(contracts []*Contract, asOf time.Time) PortfolioStats {
	stats := NewPortfolioStats()
	for _, c := range contracts {
		stats.Accumulate(c, ContractFinancialSummary(c, asOf))
	}
	return stats
}

// CurrencyRevenue is one currency's slice of a company's revenue.
type CurrencyRevenue struct {
	Currency         valueobject.Currency `json:"currency"`
	TotalIncome      valueobject.Money    `json:"total_income"`
	TotalExpenses    valueobject.Money    `json:"total_expenses"`
	TotalBalance     valueobject.Money    `json:"total_balance"`
	TransactionCount int                  `json:"transaction_count"`
}

// ExpenseShare returns expenses as a percentage of income, 0 when there is
// no income.
func (r CurrencyRevenue) ExpenseShare() decimal.Decimal {
	p, _ := valueobject.Percentage(r.TotalExpenses, r.TotalIncome)
	return p
}

// CompanyRevenue holds per-currency revenue of one company.
type CompanyRevenue struct {
	CompanyID  uuid.UUID                                `json:"company_id"`
	ByCurrency map[valueobject.Currency]CurrencyRevenue `json:"by_currency"`
}

// For returns the revenue of currency c, zero-valued when nothing was
// recorded in it.
func (r CompanyRevenue) For(c valueobject.Currency) CurrencyRevenue {
	if rev, ok := r.ByCurrency[c]; ok {
		return rev
	}
	return zeroRevenue(c)
}

func zeroRevenue(c valueobject.Currency) CurrencyRevenue {
	return CurrencyRevenue{
		Currency:      c,
		TotalIncome:   valueobject.Zero(c),
		TotalExpenses: valueobject.Zero(c),
		TotalBalance:  valueobject.Zero(c),
	}
}

// CompanyRevenueSummary computes a company's income (active relations'
// monthly payments), expenses and balance per currency. Inactive relations
// are ignored. Supported currencies are always present, at zero if unused.
func CompanyRevenueSummary(company *partner.Company) CompanyRevenue {
	byCurrency := make(map[valueobject.Currency]CurrencyRevenue)
	for _, c := range valueobject.Currencies() {
		byCurrency[c] = zeroRevenue(c)
	}
	get := func(c valueobject.Currency) CurrencyRevenue {
		if rev, ok := byCurrency[c]; ok {
			return rev
		}
		return zeroRevenue(c)
	}

	for _, rel := range company.ActiveRelations() {
		rev := get(rel.MonthlyPayment.Currency())
		rev.TotalIncome, _ = rev.TotalIncome.Add(rel.MonthlyPayment)
		rev.TransactionCount++
		byCurrency[rev.Currency] = rev
	}
	for _, tx := range company.Transactions {
		if tx.Type != partner.TransactionTypeExpense {
			continue
		}
		rev := get(tx.Amount.Currency())
		rev.TotalExpenses, _ = rev.TotalExpenses.Add(tx.Amount)
		rev.TransactionCount++
		byCurrency[rev.Currency] = rev
	}
	for c, rev := range byCurrency {
		rev.TotalBalance, _ = rev.TotalIncome.Subtract(rev.TotalExpenses)
		byCurrency[c] = rev
	}

	return CompanyRevenue{CompanyID: company.ID, ByCurrency: byCurrency}
}

// EngineOption configures a ReconciliationEngine
type EngineOption func(*ReconciliationEngine)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) EngineOption {
	return func(e *ReconciliationEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the business time zone calendar days are computed in.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *ReconciliationEngine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// ReconciliationEngine binds the pure reconciliation functions to a clock
// and business time zone.
type ReconciliationEngine struct {
	now func() time.Time
	loc *time.Location
}

// NewReconciliationEngine creates an engine using the wall clock in UTC.
func NewReconciliationEngine(opts ...EngineOption) *ReconciliationEngine {
	e := &ReconciliationEngine{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current instant in the business time zone.
func (e *ReconciliationEngine) Today() time.Time {
	return e.now().In(e.loc)
}

// InstallmentStatus resolves i as of today.
func (e *ReconciliationEngine) InstallmentStatus(i *Installment) InstallmentStatus {
	return ResolveInstallmentStatus(i, e.Today())
}

// ContractSummary summarizes c as of today.
func (e *ReconciliationEngine) ContractSummary(c *Contract) ContractSummary {
	return ContractFinancialSummary(c, e.Today())
}

// Portfolio computes portfolio statistics as of today.
func (e *ReconciliationEngine) Portfolio(contracts []*Contract) PortfolioStats {
	return PortfolioStatistics(contracts, e.Today())
}

// CompanyRevenue computes the revenue summary of a company.
func (e *ReconciliationEngine) CompanyRevenue(company *partner.Company) CompanyRevenue {
	return CompanyRevenueSummary(company)
}
