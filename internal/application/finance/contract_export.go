package finance

import (
	"context"
	"fmt"
	"io"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// ExportSheetName is the only sheet of a contract export
	ExportSheetName = "Contracts"
	// MaxExportRows bounds a single spreadsheet export
	MaxExportRows = 5000
)

var contractSheetHeader = []any{
	"Contract ID", "Title", "Payment type", "Status", "Currency",
	"Total amount", "Total paid", "Total pending", "Paid %",
	"Installments", "Paid", "Awaiting validation", "Overdue", "Start date", "End date",
}

// ExportContracts writes every contract matching filter as an XLSX workbook
// to w and returns the number of rows written. Pagination in filter is
// ignored; the export walks all pages up to MaxExportRows.
func (s *ReconciliationQueryService) ExportContracts(ctx context.Context, filter finance.ContractFilter, w io.Writer) (int, error) {
	var rows []ContractResponse
	filter.Pagination = shared.Page{Page: 1, PageSize: shared.MaxPageSize}
	for {
		page, err := s.ListContracts(ctx, filter)
		if err != nil {
			return 0, err
		}
		rows = append(rows, page.Items...)
		if len(rows) > MaxExportRows {
			return 0, shared.InvalidInputError(
				fmt.Sprintf("export matches more than %d contracts, narrow the filter", MaxExportRows))
		}
		if filter.Pagination.Page >= page.TotalPages {
			break
		}
		filter.Pagination.Page++
	}

	if err := WriteContractSheet(w, rows); err != nil {
		return 0, err
	}
	s.logger.Info("contracts exported", zap.Int("rows", len(rows)))
	return len(rows), nil
}

// WriteContractSheet renders contracts as a single-sheet workbook.
func WriteContractSheet(w io.Writer, contracts []ContractResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &contractSheetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(contractSheetHeader), 1)
	if err := f.SetCellStyle(ExportSheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range contracts {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		s := c.Summary
		row := []any{
			c.ID.String(),
			c.Title,
			string(c.PaymentType),
			string(c.Status),
			c.TotalAmount.Currency().String(),
			c.TotalAmount.Amount().InexactFloat64(),
			s.TotalPaid.Amount().InexactFloat64(),
			s.TotalPending.Amount().InexactFloat64(),
			s.PaidPercentage.InexactFloat64(),
			s.InstallmentCount,
			s.PaidCount,
			s.AwaitingValidationCount,
			s.OverdueCount,
			c.StartDate.Format("2006-01-02"),
			c.EndDate.Format("2006-01-02"),
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ExportSheetName, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(ExportSheetName, "B", "B", 32); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
