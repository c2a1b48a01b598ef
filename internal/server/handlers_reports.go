package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/billscan/billscan/internal/entity"
	"github.com/billscan/billscan/internal/export"
	"github.com/billscan/billscan/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler serves the financial summary and the XLSX export.
type ReportsHandler struct {
	invoices repository.InvoiceRepository
	exporter *export.Service
	logger   *slog.Logger
}

func NewReportsHandler(invoices repository.InvoiceRepository, exporter *export.Service, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{invoices: invoices, exporter: exporter, logger: logger}
}

type periodInfo struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type summaryResponse struct {
	Period  periodInfo            `json:"period"`
	Summary *entity.ReportSummary `json:"summary"`
}

// HandleSummary aggregates both invoice stores over an optional date window.
func (h *ReportsHandler) HandleSummary(c echo.Context) error {
	filters := repository.InvoiceFilters{
		DateFrom: strings.TrimSpace(c.QueryParam("date_from")),
		DateTo:   strings.TrimSpace(c.QueryParam("date_to")),
	}

	sum, err := h.invoices.Summary(c.Request().Context(), filters)
	if err != nil {
		h.logger.Error("summary generation failed", "error", err)
		return NewInternalError("failed to generate summary", err)
	}

	return c.JSON(http.StatusOK, summaryResponse{
		Period:  periodInfo{From: filters.DateFrom, To: filters.DateTo},
		Summary: sum,
	})
}

// HandleExport streams the filtered invoices as an XLSX workbook. It accepts
// the same query parameters as the search endpoint.
func (h *ReportsHandler) HandleExport(c echo.Context) error {
	filters, apiErr := searchFiltersFromQuery(c)
	if apiErr != nil {
		return apiErr
	}

	b, err := h.exporter.ExportInvoicesXLSX(c.Request().Context(), *filters)
	if err != nil {
		h.logger.Error("invoice export failed", "error", err)
		return NewInternalError("failed to export invoices", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="invoices.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, b)
}
