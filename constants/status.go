package constants

// InvoiceStatus is the canonical status for rows in the invoices table.
type InvoiceStatus string

// Stable values (store these exact strings in DB).
const (
	InvoiceStatusPending InvoiceStatus = "pending" // parsed, awaiting payment
	InvoiceStatusPaid    InvoiceStatus = "paid"    // settled
	InvoiceStatusInvalid InvoiceStatus = "invalid" // routed to the invalid store
)

// ClientStatusActive is the default status for newly created clients.
const ClientStatusActive = "active"

// Per-file processing outcome statuses reported by the batch coordinator.
const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
)
