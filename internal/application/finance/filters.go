package finance

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const queryDateLayout = "2006-01-02"

// contractQuery lists every query parameter GET /contracts recognizes.
type contractQuery struct {
	Status         string `query:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED PAID"`
	PaymentType    string `query:"payment_type" validate:"omitempty,oneof=LUMP_SUM INSTALLMENTS"`
	CollaboratorID string `query:"collaborator_id" validate:"omitempty,uuid"`
	ClientID       string `query:"client_id" validate:"omitempty,uuid"`
	Search         string `query:"search" validate:"max=200"`
	StartFrom      string `query:"start_from" validate:"omitempty,datetime=2006-01-02"`
	StartTo        string `query:"start_to" validate:"omitempty,datetime=2006-01-02"`
	OrderBy        string `query:"order_by" validate:"omitempty,oneof=created_at start_date end_date title total_amount status"`
	OrderDir       string `query:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
	Page           string `query:"page" validate:"omitempty,number"`
	PageSize       string `query:"page_size" validate:"omitempty,number"`
}

// paymentQuery lists every query parameter GET /payments recognizes.
type paymentQuery struct {
	Status        string `query:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED"`
	Method        string `query:"method" validate:"omitempty,oneof=CARD CASH YAPE BANK_TRANSFER"`
	InstallmentID string `query:"installment_id" validate:"omitempty,uuid"`
	ContractID    string `query:"contract_id" validate:"omitempty,uuid"`
	OrderBy       string `query:"order_by" validate:"omitempty,oneof=created_at validated_at amount status"`
	OrderDir      string `query:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
	Page          string `query:"page" validate:"omitempty,number"`
	PageSize      string `query:"page_size" validate:"omitempty,number"`
}

// periodQuery lists the query parameters GET /dashboard recognizes.
type periodQuery struct {
	Year  string `query:"year" validate:"omitempty,number"`
	Month string `query:"month" validate:"omitempty,number"`
}

var queryValidator = newQueryValidator()

func newQueryValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("query")
	})
	return v
}

// bindQuery copies values into the string fields of dst (a pointer to a
// query struct), rejecting keys dst does not declare and repeated keys.
func bindQuery(values url.Values, dst any) error {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()

	fields := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		fields[rt.Field(i).Tag.Get("query")] = i
	}

	var unknown []string
	for key, vals := range values {
		idx, ok := fields[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if len(vals) > 1 {
			return shared.InvalidInputError(fmt.Sprintf("query parameter %s given more than once", key))
		}
		rv.Field(idx).SetString(strings.TrimSpace(vals[0]))
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return shared.InvalidInputError("unknown query parameters: " + strings.Join(unknown, ", "))
	}

	if err := queryValidator.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.InvalidInputError(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return shared.InvalidInputError(strings.Join(msgs, "; "))
}

func parsePage(page, pageSize string) shared.Page {
	p, _ := strconv.Atoi(page)
	ps, _ := strconv.Atoi(pageSize)
	return shared.Page{Page: p, PageSize: ps}.Normalize()
}

func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id := uuid.MustParse(s)
	return &id
}

func parseOptionalDate(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	t, _ := time.ParseInLocation(queryDateLayout, s, loc)
	return &t
}

// ParseContractFilter turns GET /contracts query parameters into a filter.
// Dates are calendar days in loc; start_to is inclusive.
func ParseContractFilter(values url.Values, loc *time.Location) (finance.ContractFilter, error) {
	if loc == nil {
		loc = time.UTC
	}
	var q contractQuery
	if err := bindQuery(values, &q); err != nil {
		return finance.ContractFilter{}, err
	}

	f := finance.ContractFilter{
		Status:         finance.ContractStatus(q.Status),
		PaymentType:    finance.PaymentType(q.PaymentType),
		CollaboratorID: parseOptionalUUID(q.CollaboratorID),
		ClientID:       parseOptionalUUID(q.ClientID),
		Search:         q.Search,
		StartFrom:      parseOptionalDate(q.StartFrom, loc),
		OrderBy:        q.OrderBy,
		OrderDir:       q.OrderDir,
		Pagination:     parsePage(q.Page, q.PageSize),
	}
	if to := parseOptionalDate(q.StartTo, loc); to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.StartTo = &end
	}
	if f.StartFrom != nil && f.StartTo != nil && f.StartTo.Before(*f.StartFrom) {
		return finance.ContractFilter{}, shared.InvalidInputError("start_to cannot precede start_from")
	}
	return f, nil
}

// ParsePaymentFilter turns GET /payments query parameters into a filter.
func ParsePaymentFilter(values url.Values) (finance.PaymentFilter, error) {
	var q paymentQuery
	if err := bindQuery(values, &q); err != nil {
		return finance.PaymentFilter{}, err
	}
	return finance.PaymentFilter{
		Status:        finance.PaymentStatus(q.Status),
		Method:        finance.PaymentMethod(q.Method),
		InstallmentID: parseOptionalUUID(q.InstallmentID),
		ContractID:    parseOptionalUUID(q.ContractID),
		OrderBy:       q.OrderBy,
		OrderDir:      q.OrderDir,
		Pagination:    parsePage(q.Page, q.PageSize),
	}, nil
}

// ParseReportingPeriod turns GET /dashboard query parameters into a period.
// No parameters means all time.
func ParseReportingPeriod(values url.Values) (finance.ReportingPeriod, error) {
	var q periodQuery
	if err := bindQuery(values, &q); err != nil {
		return finance.ReportingPeriod{}, err
	}
	year, _ := strconv.Atoi(q.Year)
	month, _ := strconv.Atoi(q.Month)
	return finance.NewReportingPeriod(year, month)
}
