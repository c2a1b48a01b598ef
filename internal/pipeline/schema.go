package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildInvoiceJSONSchema returns the JSON-Schema (draft 2020-12 subset) that
// every record must satisfy before it is written to the valid store. Kept as
// a generic map so the schema reads like the document it constrains.
func buildInvoiceJSONSchema() map[string]any {
	props := map[string]any{
		"id":                  map[string]any{"type": "string", "minLength": 1},
		"client_id":           map[string]any{"type": "string"},
		"invoice_number":      map[string]any{"type": "string", "minLength": 1},
		"date":                map[string]any{"type": "string", "minLength": 1},
		"due_date":            map[string]any{"type": "string", "minLength": 1},
		"bill_to":             map[string]any{"type": "string", "minLength": 1},
		"total":               map[string]any{"type": "number"},
		"subtotal":            map[string]any{"type": "number"},
		"tax":                 map[string]any{"type": "number"},
		"discount":            map[string]any{"type": "number"},
		"gstin":               map[string]any{"type": "string"},
		"bank_name":           map[string]any{"type": "string"},
		"branch_name":         map[string]any{"type": "string"},
		"bank_account_number": map[string]any{"type": "string"},
		"bank_swift_code":     map[string]any{"type": "string"},
		"status":              map[string]any{"type": "string", "minLength": 1},
		"items":               map[string]any{"type": "string"},
		"created_at":          map[string]any{"type": "string"},
		"updated_at":          map[string]any{"type": "string"},
	}
	required := []string{"id", "invoice_number", "date", "due_date", "bill_to", "total", "status"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

// compileInvoiceSchema compiles the record schema once; the router reuses the
// compiled form for every document.
func compileInvoiceSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(buildInvoiceJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("invoice.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("invoice.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateAgainstSchema checks the JSON encoding of a record against the
// compiled schema.
func validateAgainstSchema(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
