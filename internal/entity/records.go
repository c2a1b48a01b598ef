package entity

import "time"

// Client is a deduplicated billed-party identity (clients table). The unique
// index on email backs the resolver's one-row-per-email guarantee.
type Client struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone     *string   `gorm:"index" json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Status    string    `gorm:"default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invoice is a successfully parsed document (the valid store). ID is derived
// from the invoice number or the document content, so re-processing upserts
// the same row.
type Invoice struct {
	ID                string    `gorm:"primaryKey" json:"id"`
	ClientID          string    `gorm:"index" json:"client_id"`
	InvoiceNumber     string    `gorm:"index" json:"invoice_number"`
	Date              string    `json:"date"`
	DueDate           string    `json:"due_date"`
	BillTo            string    `json:"bill_to"`
	Total             float64   `json:"total"`
	Subtotal          float64   `json:"subtotal"`
	Tax               float64   `json:"tax"`
	GSTIN             *string   `json:"gstin,omitempty"`
	Discount          float64   `json:"discount"`
	BankName          *string   `json:"bank_name,omitempty"`
	BranchName        *string   `json:"branch_name,omitempty"`
	BankAccountNumber *string   `json:"bank_account_number,omitempty"`
	BankSwiftCode     *string   `json:"bank_swift_code,omitempty"`
	Status            string    `json:"status"`
	Items             string    `json:"items"` // JSON-encoded []LineItem
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// InvalidInvoice is a document that failed the acceptance gate or whose
// valid-store write failed (the invalid store). Same business fields as
// Invoice with everything nullable, plus the routing error.
type InvalidInvoice struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber     *string   `json:"invoice_number,omitempty"`
	Date              *string   `json:"date,omitempty"`
	DueDate           *string   `json:"due_date,omitempty"`
	BillTo            *string   `json:"bill_to,omitempty"`
	Total             *float64  `json:"total,omitempty"`
	Subtotal          *float64  `json:"subtotal,omitempty"`
	Tax               *float64  `json:"tax,omitempty"`
	GSTIN             *string   `json:"gstin,omitempty"`
	Discount          *float64  `json:"discount,omitempty"`
	BankName          *string   `json:"bank_name,omitempty"`
	BranchName        *string   `json:"branch_name,omitempty"`
	BankAccountNumber *string   `json:"bank_account_number,omitempty"`
	BankSwiftCode     *string   `json:"bank_swift_code,omitempty"`
	Status            string    `json:"status"`
	Items             string    `json:"items"`
	ErrorMessage      string    `json:"error_message"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
