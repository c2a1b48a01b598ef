package entity

// LineItem is one parsed invoice line: a name line followed by a quantity
// line and a price line in the recognized text.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// ClientContact is the candidate billed-party block extracted alongside the
// invoice fields.
type ClientContact struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ExtractedInvoice is the canonical structured record produced by the field
// extraction engine. Built once per document and not mutated afterwards;
// the router works on its own copy when applying defaults. Date fields are
// raw textual tokens as matched, not calendar-validated.
type ExtractedInvoice struct {
	InvoiceNumber      *string       `json:"invoice_number"`
	Date               *string       `json:"date"`
	DueDate            *string       `json:"due_date"`
	BillTo             *string       `json:"bill_to"`
	Total              *float64      `json:"total"`
	Subtotal           *float64      `json:"subtotal"`
	Tax                *float64      `json:"tax"`
	TaxPercentage      *float64      `json:"tax_percentage"`
	Discount           *float64      `json:"discount"`
	DiscountPercentage *float64      `json:"discount_percentage"`
	Currency           string        `json:"currency"`
	GSTIN              *string       `json:"gstin"`
	BankName           *string       `json:"bank_name"`
	BranchName         *string       `json:"branch_name"`
	AccountNumber      *string       `json:"account_number"`
	BankSwiftCode      *string       `json:"bank_swift_code"`
	Items              []LineItem    `json:"items"`
	Client             ClientContact `json:"client"`
}
