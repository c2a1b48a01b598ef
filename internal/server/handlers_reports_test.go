package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/entity"
)

func seedInvalidInvoice(t *testing.T, env *testEnv, date, errMsg string) {
	t.Helper()
	row := entity.InvalidInvoice{
		Date:         &date,
		Status:       string(constants.InvoiceStatusInvalid),
		Items:        "[]",
		ErrorMessage: errMsg,
	}
	require.NoError(t, env.db.Gorm.Create(&row).Error)
}

func TestHandleSummary(t *testing.T) {
	env := newTestEnv(t)
	seedInvoice(t, env, entity.Invoice{ID: "a", InvoiceNumber: "INV-1", Date: "2024-01-10", Total: 100, Subtotal: 90, Tax: 10})
	seedInvoice(t, env, entity.Invoice{ID: "b", InvoiceNumber: "INV-2", Date: "2024-03-05", Total: 50, Status: string(constants.InvoiceStatusPaid)})
	seedInvalidInvoice(t, env, "2024-01-15", "Missing required field: total")

	c, rec := newJSONContext(env, http.MethodGet, "/api/v1/reports/summary")
	require.NoError(t, env.handlers.Reports.HandleSummary(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Summary)
	assert.Empty(t, resp.Period.From)
	assert.Empty(t, resp.Period.To)

	sum := resp.Summary
	assert.Equal(t, int64(2), sum.TotalInvoices)
	assert.Equal(t, int64(1), sum.PendingInvoices)
	assert.Equal(t, int64(1), sum.PaidInvoices)
	assert.Equal(t, 150.0, sum.TotalAmount)
	assert.Equal(t, 90.0, sum.TotalSubtotal)
	assert.Equal(t, 10.0, sum.TotalTax)
	assert.Equal(t, 50.0, sum.MinAmount)
	assert.Equal(t, 100.0, sum.MaxAmount)
	assert.Equal(t, 75.0, sum.AvgAmount)
	assert.Equal(t, int64(1), sum.InvalidCount)
	assert.Equal(t, int64(1), sum.UniqueErrors)
	require.Len(t, sum.CommonErrors, 1)
	assert.Equal(t, "Missing required field: total", sum.CommonErrors[0].ErrorMessage)
	assert.Equal(t, int64(1), sum.CommonErrors[0].Count)
}

func TestHandleSummaryDateWindow(t *testing.T) {
	env := newTestEnv(t)
	seedInvoice(t, env, entity.Invoice{ID: "a", InvoiceNumber: "INV-1", Date: "2024-01-10", Total: 100})
	seedInvoice(t, env, entity.Invoice{ID: "b", InvoiceNumber: "INV-2", Date: "2024-03-05", Total: 50})
	seedInvalidInvoice(t, env, "2024-06-01", "Missing required field: total")

	c, rec := newJSONContext(env, http.MethodGet, "/api/v1/reports/summary?date_from=2024-01-01&date_to=2024-02-01")
	require.NoError(t, env.handlers.Reports.HandleSummary(c))

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-01", resp.Period.From)
	assert.Equal(t, "2024-02-01", resp.Period.To)
	assert.Equal(t, int64(1), resp.Summary.TotalInvoices)
	assert.Equal(t, 100.0, resp.Summary.TotalAmount)
	assert.Equal(t, int64(0), resp.Summary.InvalidCount)
}

func TestHandleExport(t *testing.T) {
	env := newTestEnv(t)
	seedInvoice(t, env, entity.Invoice{ID: "a", InvoiceNumber: "INV-1", Date: "2024-01-10", BillTo: "Acme GmbH", Total: 100.5})

	c, rec := newJSONContext(env, http.MethodGet, "/api/v1/reports/export")
	require.NoError(t, env.handlers.Reports.HandleExport(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoices.xlsx"`, rec.Header().Get("Content-Disposition"))

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV-1", rows[1][0])
}

func TestHandleExportRejectsMalformedAmount(t *testing.T) {
	env := newTestEnv(t)

	c, _ := newJSONContext(env, http.MethodGet, "/api/v1/reports/export?max_amount=xyz")
	err := env.handlers.Reports.HandleExport(c)
	requireAPIError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
}
