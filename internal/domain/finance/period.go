package finance

import (
	"fmt"
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared"
)

// ReportingPeriod selects contracts by start date. Year 0 means all time;
// Month 0 means the whole year.
type ReportingPeriod struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// NewReportingPeriod validates year and month.
func NewReportingPeriod(year, month int) (ReportingPeriod, error) {
	if year == 0 && month != 0 {
		return ReportingPeriod{}, shared.InvalidInputError("month requires a year")
	}
	if year != 0 && (year < 2000 || year > 2100) {
		return ReportingPeriod{}, shared.InvalidInputError(fmt.Sprintf("year %d out of range", year))
	}
	if month < 0 || month > 12 {
		return ReportingPeriod{}, shared.InvalidInputError(fmt.Sprintf("month %d out of range", month))
	}
	return ReportingPeriod{Year: year, Month: month}, nil
}

// IsAllTime reports whether the period is unbounded
func (p ReportingPeriod) IsAllTime() bool {
	return p.Year == 0
}

// Bounds returns the half-open interval [from, to) in loc.
func (p ReportingPeriod) Bounds(loc *time.Location) (from, to time.Time) {
	if p.Month == 0 {
		from = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0)
	}
	from = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// Key renders a stable identifier, e.g. "all", "2026" or "2026-03".
func (p ReportingPeriod) Key() string {
	switch {
	case p.IsAllTime():
		return "all"
	case p.Month == 0:
		return fmt.Sprintf("%04d", p.Year)
	default:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	}
}
