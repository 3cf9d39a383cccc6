package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE payments;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "start_date"},
		{"whitelisted field", "total_amount", "total_amount"},
		{"unknown field returns default", "collaborator_id", "start_date"},
		{"injection attempt returns default", "title; DROP TABLE contracts;--", "start_date"},
		{"case sensitive", "TITLE", "start_date"},
		{"trims whitespace", "  end_date ", "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ContractSortFields, "start_date"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"ContractSortFields": ContractSortFields,
		"PaymentSortFields":  PaymentSortFields,
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, fields["created_at"])
			assert.True(t, fields["status"])
			assert.False(t, fields["id; --"])
		})
	}
}
