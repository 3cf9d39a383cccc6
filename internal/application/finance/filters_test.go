package finance

import (
	"net/url"
	"testing"
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContractFilter(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	collaborator := uuid.New()

	values := url.Values{
		"status":          {"IN_PROGRESS"},
		"payment_type":    {"INSTALLMENTS"},
		"collaborator_id": {collaborator.String()},
		"search":          {" auditoría "},
		"start_from":      {"2026-01-01"},
		"start_to":        {"2026-03-31"},
		"page":            {"2"},
		"page_size":       {"500"},
	}

	f, err := ParseContractFilter(values, lima)
	require.NoError(t, err)

	assert.Equal(t, finance.ContractStatusInProgress, f.Status)
	assert.Equal(t, finance.PaymentTypeInstallments, f.PaymentType)
	assert.Equal(t, &collaborator, f.CollaboratorID)
	assert.Nil(t, f.ClientID)
	assert.Equal(t, "auditoría", f.Search)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, lima), *f.StartFrom)
	assert.True(t, f.StartTo.Before(time.Date(2026, 4, 1, 0, 0, 0, 0, lima)))
	assert.True(t, f.StartTo.After(time.Date(2026, 3, 31, 23, 59, 0, 0, lima)))
	assert.Equal(t, shared.Page{Page: 2, PageSize: shared.MaxPageSize}, f.Pagination)
}

func TestParseContractFilter_Defaults(t *testing.T) {
	f, err := ParseContractFilter(url.Values{}, nil)
	require.NoError(t, err)
	assert.Equal(t, shared.Page{Page: 1, PageSize: shared.DefaultPageSize}, f.Pagination)
	assert.Nil(t, f.StartFrom)
}

func TestParseContractFilter_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		message string
	}{
		{"unknown keys are listed", url.Values{"foo": {"1"}, "bar": {"2"}, "status": {"PAID"}}, "unknown query parameters: bar, foo"},
		{"bad enum", url.Values{"status": {"ARCHIVED"}}, "status must be one of"},
		{"bad uuid", url.Values{"client_id": {"abc"}}, "client_id is invalid"},
		{"bad date", url.Values{"start_from": {"01/02/2026"}}, "start_from must be a date"},
		{"bad page", url.Values{"page": {"two"}}, "page is invalid"},
		{"repeated key", url.Values{"status": {"PAID", "PENDING"}}, "more than once"},
		{"inverted range", url.Values{"start_from": {"2026-03-01"}, "start_to": {"2026-02-01"}}, "cannot precede"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContractFilter(tt.values, time.UTC)
			require.Error(t, err)
			assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParsePaymentFilter(t *testing.T) {
	contract := uuid.New()
	f, err := ParsePaymentFilter(url.Values{
		"status":      {"PENDING"},
		"method":      {"YAPE"},
		"contract_id": {contract.String()},
		"order_by":    {"amount"},
		"order_dir":   {"asc"},
	})
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentStatusPending, f.Status)
	assert.Equal(t, finance.PaymentMethodYape, f.Method)
	assert.Equal(t, &contract, f.ContractID)
	assert.Equal(t, "amount", f.OrderBy)

	_, err = ParsePaymentFilter(url.Values{"amount_gt": {"100"}})
	assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))

	_, err = ParsePaymentFilter(url.Values{"method": {"BITCOIN"}})
	assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
}

func TestParseReportingPeriod(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		want    finance.ReportingPeriod
		wantErr bool
	}{
		{"all time", url.Values{}, finance.ReportingPeriod{}, false},
		{"year", url.Values{"year": {"2026"}}, finance.ReportingPeriod{Year: 2026}, false},
		{"month", url.Values{"year": {"2026"}, "month": {"3"}}, finance.ReportingPeriod{Year: 2026, Month: 3}, false},
		{"month without year", url.Values{"month": {"3"}}, finance.ReportingPeriod{}, true},
		{"month out of range", url.Values{"year": {"2026"}, "month": {"13"}}, finance.ReportingPeriod{}, true},
		{"year out of range", url.Values{"year": {"1999"}}, finance.ReportingPeriod{}, true},
		{"not a number", url.Values{"year": {"next"}}, finance.ReportingPeriod{}, true},
		{"unknown key", url.Values{"quarter": {"1"}}, finance.ReportingPeriod{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReportingPeriod(tt.values)
			if tt.wantErr {
				assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
