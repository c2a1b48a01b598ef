// Package export produces XLSX workbooks from the invoice store.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/billscan/billscan/internal/repository"
)

// Service is a tiny façade over the invoice repository that renders search
// results as an XLSX workbook.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) for the invoices
// matching the filters. An empty filter set exports everything.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, filters repository.InvoiceFilters) ([]byte, error) {
	start := time.Now()

	rows, err := s.invoices.Search(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Invoice Number",
		"Date",
		"Due Date",
		"Bill To",
		"Total",
		"Subtotal",
		"Tax",
		"Discount",
		"Status",
		"GSTIN",
		"Bank Name",
		"Branch Name",
		"Account Number",
		"SWIFT Code",
		"Items",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for _, inv := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, inv.InvoiceNumber)
		write(2, inv.Date)
		write(3, inv.DueDate)
		write(4, inv.BillTo)
		write(5, inv.Total)
		write(6, inv.Subtotal)
		write(7, inv.Tax)
		write(8, inv.Discount)
		write(9, inv.Status)
		write(10, orEmpty(inv.GSTIN))
		write(11, orEmpty(inv.BankName))
		write(12, orEmpty(inv.BranchName))
		write(13, orEmpty(inv.BankAccountNumber))
		write(14, orEmpty(inv.BankSwiftCode))
		write(15, truncate(inv.Items, 140))

		rowIdx++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // invoice number
	_ = f.SetColWidth(sheet, "B", "C", 14) // dates
	_ = f.SetColWidth(sheet, "D", "D", 28) // bill to
	_ = f.SetColWidth(sheet, "E", "H", 12) // amounts
	_ = f.SetColWidth(sheet, "J", "N", 20) // tax and bank details
	_ = f.SetColWidth(sheet, "O", "O", 48) // items

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
