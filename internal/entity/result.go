package entity

// ProcessResult is the per-file outcome contract reported by the batch
// coordinator. Status "success" carries data; "error" carries a message, and
// documents that reached the router before failing carry both.
type ProcessResult struct {
	Status   string            `json:"status"`
	Filename string            `json:"filename"`
	Data     *ExtractedInvoice `json:"data,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// ErrorCount is one row of the most-common-errors breakdown.
type ErrorCount struct {
	ErrorMessage string `json:"error_message"`
	Count        int64  `json:"count"`
}

// ReportSummary aggregates both invoice stores for the financial summary
// endpoint. Amounts are rounded to cents; aggregates over an empty result
// set come back as 0, not null.
type ReportSummary struct {
	TotalInvoices   int64        `json:"total_invoices"`
	PendingInvoices int64        `json:"pending_invoices"`
	PaidInvoices    int64        `json:"paid_invoices"`
	TotalAmount     float64      `json:"total_amount"`
	TotalSubtotal   float64      `json:"total_subtotal"`
	TotalTax        float64      `json:"total_tax"`
	TotalDiscount   float64      `json:"total_discount"`
	MinAmount       float64      `json:"min_amount"`
	MaxAmount       float64      `json:"max_amount"`
	AvgAmount       float64      `json:"avg_amount"`
	InvalidCount    int64        `json:"total_invalid"`
	UniqueErrors    int64        `json:"unique_errors"`
	CommonErrors    []ErrorCount `json:"common_errors"`
}
