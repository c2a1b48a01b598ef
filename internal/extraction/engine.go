// Package extraction turns recognized invoice text into structured fields
// using ordered regex cascades. Extraction is best-effort: a field with no
// matching pattern stays nil and validation decides what that means later.
package extraction

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/billscan/billscan/internal/entity"
)

type Config struct {
	// DefaultCurrency is assumed when nothing in the text indicates USD.
	DefaultCurrency string
}

type Engine struct {
	defaultCurrency string
	logger          *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	currency := cfg.DefaultCurrency
	if currency == "" {
		currency = "EUR"
	}
	return &Engine{defaultCurrency: currency, logger: logger}
}

// Extract runs every field cascade over the recognized text.
func (e *Engine) Extract(text string) *entity.ExtractedInvoice {
	flat := Flatten(text)
	lines := lineView(text)

	inv := &entity.ExtractedInvoice{Currency: e.defaultCurrency}
	if currencyProbe.MatchString(flat) {
		inv.Currency = "USD"
	}

	inv.InvoiceNumber = matchFirst(invoiceNumberPatterns, flat)
	inv.Date = matchFirst(datePatterns, flat)
	inv.DueDate = matchFirst(dueDatePatterns, flat)
	inv.BillTo = matchFirst(billToPatterns, flat)

	inv.Total = matchAmount(totalPatterns, flat)
	inv.Subtotal = matchAmount(subtotalPatterns, flat)
	inv.TaxPercentage, inv.Tax = matchRated(taxPatterns, flat)
	inv.DiscountPercentage, inv.Discount = matchRated(discountPatterns, flat)

	if m := gstinPattern.FindStringSubmatch(flat); m != nil {
		inv.GSTIN = &m[1]
	}
	if m := bankNamePattern.FindString(flat); m != "" {
		inv.BankName = &m
	}
	if m := branchNamePattern.FindStringSubmatch(flat); m != nil {
		branch := strings.TrimSpace(m[1])
		inv.BranchName = &branch
	}
	if m := accountNumberPattern.FindStringSubmatch(flat); m != nil {
		inv.AccountNumber = &m[1]
	}
	if m := swiftCodePattern.FindStringSubmatch(flat); m != nil {
		inv.BankSwiftCode = &m[1]
	}

	inv.Items = extractItems(lines)

	inv.Client = entity.ClientContact{Name: inv.BillTo}
	if m := emailPattern.FindStringSubmatch(flat); m != nil {
		email := strings.TrimSpace(m[1])
		inv.Client.Email = &email
	}
	if m := phonePattern.FindStringSubmatch(flat); m != nil {
		phone := strings.TrimSpace(m[1])
		inv.Client.Phone = &phone
	}
	if m := addressPattern.FindStringSubmatch(lines); m != nil {
		address := strings.TrimSpace(m[1])
		inv.Client.Address = &address
	}

	e.logger.Debug("extraction.done",
		"invoice_number", strOrEmpty(inv.InvoiceNumber),
		"has_total", inv.Total != nil,
		"currency", inv.Currency,
		"items", len(inv.Items),
	)
	return inv
}

// matchFirst walks a cascade and returns the first pattern's first capture,
// whitespace-trimmed.
func matchFirst(patterns []*regexp.Regexp, text string) *string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			return &v
		}
	}
	return nil
}

// matchAmount walks a cascade of single-group amount patterns. A match whose
// capture fails numeric normalization falls through to the next pattern.
func matchAmount(patterns []*regexp.Regexp, text string) *float64 {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := ParseAmount(m[1])
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// matchRated handles the tax and discount cascades, whose members carry
// either (percentage, amount) or just (amount). Parse failures fall through
// like matchAmount.
func matchRated(patterns []*regexp.Regexp, text string) (percentage, amount *float64) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if p.NumSubexp() > 1 {
			pct, err := ParseAmount(m[1])
			if err != nil {
				continue
			}
			amt, err := ParseAmount(m[2])
			if err != nil {
				continue
			}
			return &pct, &amt
		}
		amt, err := ParseAmount(m[1])
		if err != nil {
			continue
		}
		return nil, &amt
	}
	return nil, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
