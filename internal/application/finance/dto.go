package finance

import (
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/partner"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Requests
// =============================================================================

// SubmitPaymentRequest records evidence of a payment against an installment.
type SubmitPaymentRequest struct {
	InstallmentID uuid.UUID       `json:"-"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency" binding:"required,oneof=PEN USD"`
	Method        string          `json:"method" binding:"required,oneof=CARD CASH YAPE BANK_TRANSFER"`
	Reference     string          `json:"reference" binding:"max=100"`
}

// DecidePaymentRequest is the body of PATCH /payments/:id.
type DecidePaymentRequest struct {
	Status       string `json:"status" binding:"required,oneof=COMPLETED FAILED"`
	Observations string `json:"observations" binding:"max=1000"`
}

// DecidePaymentCommand validates or rejects a payment on behalf of Actor.
type DecidePaymentCommand struct {
	PaymentID    uuid.UUID
	Status       finance.PaymentStatus
	Observations string
	Actor        finance.Actor
}

// =============================================================================
// Responses
// =============================================================================

// PaymentResponse is one ledger entry.
type PaymentResponse struct {
	ID            uuid.UUID             `json:"id"`
	InstallmentID uuid.UUID             `json:"installment_id"`
	Amount        valueobject.Money     `json:"amount"`
	Method        finance.PaymentMethod `json:"method"`
	Status        finance.PaymentStatus `json:"status"`
	Reference     string                `json:"reference,omitempty"`
	ValidatedBy   *uuid.UUID            `json:"validated_by,omitempty"`
	ValidatedAt   *time.Time            `json:"validated_at,omitempty"`
	Observations  string                `json:"observations,omitempty"`
	Version       int                   `json:"version"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToPaymentResponse maps a domain payment
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		InstallmentID: p.InstallmentID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		Reference:     p.Reference,
		ValidatedBy:   p.ValidatedBy,
		ValidatedAt:   p.ValidatedAt,
		Observations:  p.Observations,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentDecisionResult is returned by validate/reject, together with the
// owning installment's status recomputed after the transition.
type PaymentDecisionResult struct {
	Payment           PaymentResponse           `json:"payment"`
	InstallmentStatus finance.InstallmentStatus `json:"installment_status"`
}

// InstallmentResponse is an installment with its resolved status.
type InstallmentResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Number      int                       `json:"number"`
	Amount      valueobject.Money         `json:"amount"`
	PaidAmount  valueobject.Money         `json:"paid_amount"`
	Outstanding valueobject.Money         `json:"outstanding"`
	DueDate     time.Time                 `json:"due_date"`
	Status      finance.InstallmentStatus `json:"status"`
	Overpaid    bool                      `json:"overpaid,omitempty"`
	Synthetic   bool                      `json:"synthetic,omitempty"`
	Payments    []PaymentResponse         `json:"payments"`
}

func toInstallmentResponse(inst *finance.Installment, status finance.InstallmentStatus, synthetic bool) InstallmentResponse {
	r := InstallmentResponse{
		ID:          inst.ID,
		Number:      inst.Number,
		Amount:      inst.Amount,
		PaidAmount:  inst.PaidAmount(),
		Outstanding: inst.Outstanding(),
		DueDate:     inst.DueDate,
		Status:      status,
		Overpaid:    inst.IsOverpaid(),
		Synthetic:   synthetic,
		Payments:    make([]PaymentResponse, 0, len(inst.Payments)),
	}
	if !synthetic {
		for i := range inst.Payments {
			r.Payments = append(r.Payments, ToPaymentResponse(&inst.Payments[i]))
		}
	}
	return r
}

// ContractSummaryResponse is a contract's financial summary plus display
// fields.
type ContractSummaryResponse struct {
	finance.ContractSummary
	PaidPercentage decimal.Decimal `json:"paid_percentage"`
	PaidDisplay    string          `json:"paid_display"`
	PendingDisplay string          `json:"pending_display"`
}

// ToContractSummaryResponse maps a summary
func ToContractSummaryResponse(s finance.ContractSummary) ContractSummaryResponse {
	return ContractSummaryResponse{
		ContractSummary: s,
		PaidPercentage:  s.PaidPercentage(),
		PaidDisplay:     s.TotalPaid.Display(valueobject.DisplayLocale),
		PendingDisplay:  s.TotalPending.Display(valueobject.DisplayLocale),
	}
}

// ContractResponse is a contract with nested installments and its summary.
type ContractResponse struct {
	ID             uuid.UUID               `json:"id"`
	Title          string                  `json:"title"`
	PaymentType    finance.PaymentType     `json:"payment_type"`
	Status         finance.ContractStatus  `json:"status"`
	TotalAmount    valueobject.Money       `json:"total_amount"`
	CollaboratorID uuid.UUID               `json:"collaborator_id"`
	ClientIDs      []uuid.UUID             `json:"client_ids"`
	StartDate      time.Time               `json:"start_date"`
	EndDate        time.Time               `json:"end_date"`
	Installments   []InstallmentResponse   `json:"installments"`
	Summary        ContractSummaryResponse `json:"summary"`
}

// ToContractResponse maps a contract, resolving every installment as of asOf.
func ToContractResponse(c *finance.Contract, asOf time.Time) ContractResponse {
	synthetic := c.PaymentType == finance.PaymentTypeLumpSum
	effective := c.EffectiveInstallments()

	r := ContractResponse{
		ID:             c.ID,
		Title:          c.Title,
		PaymentType:    c.PaymentType,
		Status:         c.Status,
		TotalAmount:    c.TotalAmount,
		CollaboratorID: c.CollaboratorID,
		ClientIDs:      c.ClientIDs,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Installments:   make([]InstallmentResponse, 0, len(effective)),
		Summary:        ToContractSummaryResponse(finance.ContractFinancialSummary(c, asOf)),
	}
	if r.ClientIDs == nil {
		r.ClientIDs = []uuid.UUID{}
	}
	for i := range effective {
		inst := &effective[i]
		r.Installments = append(r.Installments,
			toInstallmentResponse(inst, finance.ResolveInstallmentStatus(inst, asOf), synthetic))
	}
	return r
}

// PortfolioResponse wraps dashboard statistics with the period they cover.
type PortfolioResponse struct {
	Period     finance.ReportingPeriod `json:"period"`
	Statistics finance.PortfolioStats  `json:"statistics"`
	Cached     bool                    `json:"cached"`
}

// UserRelationResponse is one user attached to a company.
type UserRelationResponse struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	MonthlyPayment valueobject.Money `json:"monthly_payment"`
	IsActive       bool              `json:"is_active"`
}

// CompanyTransactionResponse is one expense entry.
type CompanyTransactionResponse struct {
	ID          uuid.UUID               `json:"id"`
	Type        partner.TransactionType `json:"type"`
	Amount      valueobject.Money       `json:"amount"`
	Date        time.Time               `json:"date"`
	Description string                  `json:"description,omitempty"`
}

// CompanyResponse is a company with its relations and expenses.
type CompanyResponse struct {
	ID           uuid.UUID                    `json:"id"`
	BusinessName string                       `json:"business_name"`
	RUC          string                       `json:"ruc"`
	Relations    []UserRelationResponse       `json:"relations"`
	Transactions []CompanyTransactionResponse `json:"transactions"`
}

// ToCompanyResponse maps a company
func ToCompanyResponse(c *partner.Company) CompanyResponse {
	r := CompanyResponse{
		ID:           c.ID,
		BusinessName: c.BusinessName,
		RUC:          c.RUC,
		Relations:    make([]UserRelationResponse, 0, len(c.Relations)),
		Transactions: make([]CompanyTransactionResponse, 0, len(c.Transactions)),
	}
	for _, rel := range c.Relations {
		r.Relations = append(r.Relations, UserRelationResponse{
			ID:             rel.ID,
			UserID:         rel.UserID,
			MonthlyPayment: rel.MonthlyPayment,
			IsActive:       rel.IsActive,
		})
	}
	for _, tx := range c.Transactions {
		r.Transactions = append(r.Transactions, CompanyTransactionResponse{
			ID:          tx.ID,
			Type:        tx.Type,
			Amount:      tx.Amount,
			Date:        tx.Date,
			Description: tx.Description,
		})
	}
	return r
}

// CurrencyRevenueResponse is one currency's revenue with display helpers.
type CurrencyRevenueResponse struct {
	finance.CurrencyRevenue
	ExpenseShare   decimal.Decimal `json:"expense_share"`
	BalanceDisplay string          `json:"balance_display"`
}

// CompanyRevenueResponse lists revenue per supported currency, in display order.
type CompanyRevenueResponse struct {
	CompanyID  uuid.UUID                 `json:"company_id"`
	ByCurrency []CurrencyRevenueResponse `json:"by_currency"`
}

// ToCompanyRevenueResponse maps a revenue summary
func ToCompanyRevenueResponse(rev finance.CompanyRevenue) CompanyRevenueResponse {
	r := CompanyRevenueResponse{CompanyID: rev.CompanyID}
	for _, c := range valueobject.Currencies() {
		cr := rev.For(c)
		r.ByCurrency = append(r.ByCurrency, CurrencyRevenueResponse{
			CurrencyRevenue: cr,
			ExpenseShare:    cr.ExpenseShare(),
			BalanceDisplay:  cr.TotalBalance.Display(valueobject.DisplayLocale),
		})
	}
	return r
}
