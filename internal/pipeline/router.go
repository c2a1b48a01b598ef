// Package pipeline coordinates document processing end to end: spooling an
// upload to disk, recognizing its text, extracting structured fields, and
// routing the record into the valid or invalid invoice store.
package pipeline

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/common"
	"github.com/billscan/billscan/internal/entity"
	"github.com/billscan/billscan/internal/extraction"
	"github.com/billscan/billscan/internal/repository"
)

// Routing error messages surfaced in per-file results and stored alongside
// invalid rows. These strings are part of the API contract.
const (
	msgMissingTotal = "Missing required field: total"
	msgSaveFailed   = "Failed to save invoice"
)

// ClientResolver yields the persistent client identity for a contact block.
type ClientResolver interface {
	Resolve(ctx context.Context, contact entity.ClientContact) (*entity.Client, error)
}

// Router decides, per extracted document, which invoice store receives it.
// Every document lands in exactly one store: the valid store on success,
// the invalid store on a failed gate, schema check, or write.
type Router struct {
	resolver ClientResolver
	invoices repository.InvoiceRepository
	invalid  repository.InvalidInvoiceRepository
	schema   *jsonschema.Schema
	logger   *slog.Logger
	now      func() time.Time
}

func NewRouter(res ClientResolver, invoices repository.InvoiceRepository, invalid repository.InvalidInvoiceRepository, logger *slog.Logger) (*Router, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileInvoiceSchema()
	if err != nil {
		return nil, err
	}
	return &Router{
		resolver: res,
		invoices: invoices,
		invalid:  invalid,
		schema:   schema,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Route resolves the billed client, gates on the extracted total, and writes
// the document to one of the two stores. text is the recognized document
// text; it seeds the fallback id for documents without an invoice number.
func (r *Router) Route(ctx context.Context, inv *entity.ExtractedInvoice, text string) entity.ProcessResult {
	client, err := r.resolver.Resolve(ctx, inv.Client)
	if err != nil {
		r.logger.Error("client resolution failed", "code", common.CodePersistence, "error", err)
		r.storeInvalid(ctx, nil, err.Error())
		return entity.ProcessResult{Status: constants.ResultStatusError, Error: err.Error()}
	}

	// A document without a recognizable total has nothing to bill; park it
	// with its raw fields so it can be reviewed.
	if inv.Total == nil {
		r.logger.Warn("invoice rejected", "code", common.CodeValidation, "reason", msgMissingTotal)
		r.storeInvalid(ctx, inv, msgMissingTotal)
		return entity.ProcessResult{Status: constants.ResultStatusError, Error: msgMissingTotal, Data: inv}
	}

	id := documentID(inv.InvoiceNumber, text)

	// Defaults are applied on a copy; the caller's record keeps the raw
	// extracted values.
	rec := *inv
	if rec.Date == nil || *rec.Date == "" {
		today := r.now().Format("2006-01-02")
		rec.Date = &today
	}
	if rec.DueDate == nil || *rec.DueDate == "" {
		rec.DueDate = rec.Date
	}
	if rec.BillTo == nil || *rec.BillTo == "" {
		notFound := "Not found"
		rec.BillTo = &notFound
	}
	if rec.InvoiceNumber == nil || *rec.InvoiceNumber == "" {
		generated := "INV-" + id[:8]
		rec.InvoiceNumber = &generated
	}

	row := &entity.Invoice{
		ID:                id,
		ClientID:          client.ID,
		InvoiceNumber:     *rec.InvoiceNumber,
		Date:              *rec.Date,
		DueDate:           *rec.DueDate,
		BillTo:            *rec.BillTo,
		Total:             *rec.Total,
		Subtotal:          valueOr(rec.Subtotal, *rec.Total),
		Tax:               valueOr(rec.Tax, 0),
		GSTIN:             rec.GSTIN,
		Discount:          valueOr(rec.Discount, 0),
		BankName:          rec.BankName,
		BranchName:        rec.BranchName,
		BankAccountNumber: rec.AccountNumber,
		BankSwiftCode:     rec.BankSwiftCode,
		Status:            string(constants.InvoiceStatusPending),
		Items:             marshalItems(rec.Items),
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return r.downgrade(ctx, &rec, id, common.CodeValidation, err)
	}
	if err := validateAgainstSchema(r.schema, payload); err != nil {
		return r.downgrade(ctx, &rec, id, common.CodeValidation, err)
	}
	if err := r.invoices.Upsert(ctx, row); err != nil {
		return r.downgrade(ctx, &rec, id, common.CodePersistence, err)
	}

	r.logger.Info("invoice.routed",
		"invoice_id", id,
		"invoice_number", row.InvoiceNumber,
		"client_id", client.ID,
		"total", row.Total,
	)
	return entity.ProcessResult{Status: constants.ResultStatusSuccess, Data: &rec}
}

// downgrade re-routes a record whose valid-store write (or pre-write check)
// failed. The invalid store is the catch-all; no document is silently lost.
func (r *Router) downgrade(ctx context.Context, rec *entity.ExtractedInvoice, id, code string, cause error) entity.ProcessResult {
	r.logger.Error("saving valid invoice failed", "code", code, "invoice_id", id, "error", cause)
	r.storeInvalid(ctx, rec, fmt.Sprintf("%s: %v", msgSaveFailed, cause))
	return entity.ProcessResult{Status: constants.ResultStatusError, Error: msgSaveFailed, Data: rec}
}

// storeInvalid writes the document's fields plus the routing error to the
// invalid store. Its own failures are logged and swallowed so a broken
// invalid store cannot take down batch processing.
func (r *Router) storeInvalid(ctx context.Context, data *entity.ExtractedInvoice, errMsg string) {
	row := &entity.InvalidInvoice{
		Status:       string(constants.InvoiceStatusInvalid),
		Items:        "[]",
		ErrorMessage: errMsg,
	}
	if data != nil {
		row.InvoiceNumber = data.InvoiceNumber
		row.Date = data.Date
		row.DueDate = data.DueDate
		row.BillTo = data.BillTo
		row.Total = data.Total
		row.Subtotal = data.Subtotal
		row.Tax = data.Tax
		row.GSTIN = data.GSTIN
		row.Discount = data.Discount
		row.BankName = data.BankName
		row.BranchName = data.BranchName
		row.BankAccountNumber = data.AccountNumber
		row.BankSwiftCode = data.BankSwiftCode
		row.Items = marshalItems(data.Items)
	}
	if err := r.invalid.Create(ctx, row); err != nil {
		r.logger.Error("saving invalid invoice failed", "error", err)
	}
}

// documentID derives the stable row id: the md5 of the invoice number when
// one was extracted, otherwise the md5 of the normalized document text.
// Reprocessing the same document always lands on the same row.
func documentID(invoiceNumber *string, text string) string {
	src := extraction.Flatten(text)
	if invoiceNumber != nil && *invoiceNumber != "" {
		src = *invoiceNumber
	}
	sum := md5.Sum([]byte(src))
	return hex.EncodeToString(sum[:])
}

// marshalItems encodes line items as a JSON array; an empty or nil slice
// encodes as [] so the column always holds valid JSON.
func marshalItems(items []entity.LineItem) string {
	if len(items) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func valueOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
