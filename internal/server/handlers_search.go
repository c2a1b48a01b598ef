package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/billscan/billscan/internal/common"
	"github.com/billscan/billscan/internal/entity"
	"github.com/billscan/billscan/internal/repository"
)

// SearchHandler serves filtered invoice listings.
type SearchHandler struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewSearchHandler(invoices repository.InvoiceRepository, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{invoices: invoices, logger: logger}
}

// invoiceView is the API shape of a stored invoice: identical to the row
// except items decode back into structured line entries.
type invoiceView struct {
	entity.Invoice
	Items []entity.LineItem `json:"items"`
}

func toInvoiceView(inv entity.Invoice) invoiceView {
	items := []entity.LineItem{}
	if inv.Items != "" {
		if err := json.Unmarshal([]byte(inv.Items), &items); err != nil {
			items = []entity.LineItem{}
		}
	}
	return invoiceView{Invoice: inv, Items: items}
}

type searchResponse struct {
	Invoices []invoiceView `json:"invoices"`
	Count    int           `json:"count"`
}

// HandleSearch filters the valid invoice store by invoice_number, date
// window, amount window, and status.
func (h *SearchHandler) HandleSearch(c echo.Context) error {
	filters, apiErr := searchFiltersFromQuery(c)
	if apiErr != nil {
		return apiErr
	}

	rows, err := h.invoices.Search(c.Request().Context(), *filters)
	if err != nil {
		h.logger.Error("invoice search failed", "error", err)
		return NewInternalError("failed to search invoices", err)
	}

	out := make([]invoiceView, 0, len(rows))
	for _, inv := range rows {
		out = append(out, toInvoiceView(inv))
	}
	return c.JSON(http.StatusOK, searchResponse{Invoices: out, Count: len(out)})
}

// searchFiltersFromQuery parses the shared filter query parameters used by
// the search and export endpoints.
func searchFiltersFromQuery(c echo.Context) (*repository.InvoiceFilters, *APIError) {
	filters := repository.InvoiceFilters{
		InvoiceNumber: strings.TrimSpace(c.QueryParam("invoice_number")),
		DateFrom:      strings.TrimSpace(c.QueryParam("date_from")),
		DateTo:        strings.TrimSpace(c.QueryParam("date_to")),
		Status:        strings.TrimSpace(c.QueryParam("status")),
	}

	if raw := strings.TrimSpace(c.QueryParam("min_amount")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, NewValidationError("min_amount")
		}
		filters.MinAmount = v
	}
	if raw := strings.TrimSpace(c.QueryParam("max_amount")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, NewValidationError("max_amount")
		}
		filters.MaxAmount = v
	}

	v := common.NewValidator()
	v.Field("min_amount", filters.MinAmount, common.NonNegative)
	v.Field("max_amount", filters.MaxAmount, common.NonNegative)
	if v.HasErrors() {
		return nil, NewBadRequestError(v.ErrorMessage(), nil)
	}
	return &filters, nil
}
