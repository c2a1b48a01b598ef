package extraction

import "regexp"

// Every field is matched by an ordered cascade: patterns are tried in order
// and the first match wins. The order decides how ambiguous documents
// resolve, so it is part of the extraction contract and must not be
// reshuffled casually.
//
// Matching is case-insensitive with captures left in their original case;
// the GSTIN pattern and the currency probe are the deliberate exceptions.

var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)PO Number[:\s]*([^\s]+)`),
	regexp.MustCompile(`(?i)PO\s*Number\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)INVOICE\s*(?:ID|#)\s*(?:INV/)?([0-9/-]+)`),
	regexp.MustCompile(`(?i)invoice\s*number\s*([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)INVOICE\s*#\s*(\d+(?:-\d+)?)`),
	regexp.MustCompile(`(?i)Invoice\s*number\s*:\s*([A-Z0-9-]+)`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Invoice\s+)?Date\s*:?\s*(\d{1,2}[-/.][A-Za-z]{3}[-/.]\d{4})`),
	regexp.MustCompile(`(?i)Date\s*:?\s*(\d{1,2}[-/.][A-Za-z]{3}[-/.]\d{4})`),
	regexp.MustCompile(`(?i)Date\s*:?\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{4})`),
	regexp.MustCompile(`(?i)Date\s*:?\s*(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`),
	regexp.MustCompile(`(?i)Invoice\s+Date\s*:?\s*(\d{1,2}[-/.][A-Za-z]{3}[-/.]\d{4})`),
	regexp.MustCompile(`(?i)Date[:\s]*([0-9]{1,2}-[A-Za-z]{3}-[0-9]{4})`),
	regexp.MustCompile(`(?i)(?:Invoice\s+)?Date\s*:?\s*(\d{2}-[A-Za-z]{3}-\d{4})`),
}

var dueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Due\s+Date\s*:?\s*(\d{2}-[A-Za-z]{3}-\d{4})`),
	regexp.MustCompile(`(?i)Due\s+Date\s*:?\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Due\s+Date\s*:?\s*(\d{2}\.\d{2}\.\d{4})`),
	regexp.MustCompile(`(?i)Due Date[:\s]*([0-9]{1,2}-[A-Za-z]{3}-[0-9]{4})`),
	regexp.MustCompile(`(?i)Due\s+Date\s*:?\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{4})`),
	regexp.MustCompile(`(?i)Due\s+Date\s*:?\s*(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`),
}

var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TOTAL\s*:?\s*(\d+\.?\d*)\s*(?:EUR|USD|\$)`),
	regexp.MustCompile(`(?i)TOTAL\s*:?\s*(\d+,\d{2})\s*(?:EUR|USD|\$)`),
	regexp.MustCompile(`(?i)TOTAL\s*:?\s*(?:EUR|USD|\$)\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TOTAL\s*:?\s*(?:EUR|USD|\$)\s*(\d+,\d{2})`),
	regexp.MustCompile(`(?i)TOTAL\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TOTAL\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)Total\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)Total\s*:?\s*(\d+\.?\d*)\s*(?:EUR|USD|\$)`),
	regexp.MustCompile(`(?i)TOTAL\s*:\s*(\d+\.?\d*)\s*\$`),
	regexp.MustCompile(`(?i)Total\s+in\s+words[^:]*?:\s*[^:]*?:\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TOTAL\s*:\s*(?:EUR|USD|\$)?\s*(\d+[.,]\d{2})`),
	regexp.MustCompile(`(?i)Total\s*Amount\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)Amount\s+Due\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TOTAL[:\s]*\$?([0-9,]+\.[0-9]{2})`),
}

var subtotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)SUB[_\s]?TOTAL\s*:\s*(\d+\.?\d*)\s*(?:EUR|USD|\$)`),
	regexp.MustCompile(`(?i)SUB[_\s]?TOTAL\s*:\s*(\d+,\d{2})\s*(?:EUR|USD|\$)`),
	regexp.MustCompile(`(?i)SUB[_\s]?TOTAL\s*:\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)SUB[_\s]?TOTAL\s*:?\s*(?:EUR|USD|\$)?\s*(\d+[.,]\d{2})`),
	regexp.MustCompile(`(?i)Net\s+Amount\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)Sub\s*Total\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)Subtotal\s*Amount\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)SUB_TOTAL[:\s]*\$?([0-9,]+\.[0-9]{2})`),
}

// Tax and discount patterns carry either one capture group (amount) or two
// (percentage, amount); the matcher dispatches on the group count.
var taxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TAX:?\s*VAT\s*\((\d+\.?\d*)%\)\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TAX:?\s*VAT\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)GST\(%\)\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TAX:?\s*\((\d+\.?\d*)%\)\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)VAT\s*\((\d+\.?\d*)%\)\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)Tax\s*Amount\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)GST\s*\((\d+)%\)\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TAX:?\s*VAT\s*:?\s*(\d+\.?\d*)\s*(?:EUR|USD|\$)`),
	regexp.MustCompile(`(?i)TAX[:\s]*[^\d]*\$?([0-9,]+\.[0-9]{2})`),
}

var discountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)DISCOUNT\s*\((\d+\.?\d*)%\)\s*:?\s*\(?\s*(\d+\.?\d*)\s*(?:EUR|USD|\$)?\)?`),
	regexp.MustCompile(`(?i)DISCOUNT\s*\((\d+\.?\d*)%\)\s*:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)DISCOUNT[:\s]*[^\d]*\$?([0-9,]+\.[0-9]{2})`),
}

var billToPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Bill\s+to\s*:?\s*([^:\n]+?)(?:\s+\d{5}|\s+Email|Tel|GSTIN|$)`),
	regexp.MustCompile(`(?i)Buyer\s*:?\s*([^:\n]+?)(?:\s+\d{5}|\s+Email|Tel|GSTIN|$)`),
	regexp.MustCompile(`(?i)Bill\s+to\s*:?\s*([^:\n]+?)(?:\s+(?:\d{1,5}|Email|Tel|GSTIN|$))`),
	regexp.MustCompile(`(?i)Bill\s+to\s*:?\s*([^\n]+?)\s+Tel:`),
	regexp.MustCompile(`(?i)Bill\s+to\s*:?\s*([^\n]+?)\s+Email:`),
	regexp.MustCompile(`(?i)Bill\s+to\s*:?\s*([^\n]+?)\s+Site:`),
	regexp.MustCompile(`(?i)Bill to[:\s]*([^0-9]+)`),
}

var (
	bankNamePattern      = regexp.MustCompile(`(?i)(?:State|Central)\s+Bank\s+of\s+[A-Za-z]+`)
	branchNamePattern    = regexp.MustCompile(`(?i)Branch\s+Name\s+([^(]+?)(?:\s+(?:Bank|Account|Swift|\(|$))`)
	accountNumberPattern = regexp.MustCompile(`(?i)Bank\s+Account\s+Number\s+(\d+)`)
	swiftCodePattern     = regexp.MustCompile(`(?i)Bank\s+Swift\s+Code\s+([A-Z0-9]+)`)
)

// gstinPattern stays case-sensitive so only real uppercase registration
// strings match.
var gstinPattern = regexp.MustCompile(`GSTIN\s*:?\s*([0-9A-Z@]+)`)

var (
	emailPattern = regexp.MustCompile(`(?i)Email[:\s]*([\w.-]+@[\w.-]+\.\w+)`)
	phonePattern = regexp.MustCompile(`(?i)(?:Tel|Phone)[:\s]*([+\d\s-]{8,})`)
	// address needs the newline before the terminating label, so it runs on
	// the line view
	addressPattern = regexp.MustCompile(`(?is)Address[:\s]*(.*?)\n\s*(?:GSTIN|Phone|Email)`)
)

// currencyProbe is case-sensitive: "usd" in prose should not flip the
// currency.
var currencyProbe = regexp.MustCompile(`\$|USD`)

var itemPattern = regexp.MustCompile(`(?P<name>[\w\s]+)\n(?P<quantity>[0-9.]+)\n(?P<price>[$€]?[0-9,.]+)`)
