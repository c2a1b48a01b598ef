package extraction

import (
	"regexp"
	"strings"
)

// OCR output arrives with typographic glyphs that the field patterns do not
// expect; fold them to their ASCII forms before matching.
var glyphReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

var (
	wsRun  = regexp.MustCompile(`\s+`)
	hwsRun = regexp.MustCompile(`[ \t]+`)
)

// Flatten collapses the text into the single-line view used by every
// single-value cascade. The router also hashes this view to derive stable
// document ids, so its behavior is part of the persistence contract.
func Flatten(text string) string {
	t := glyphReplacer.Replace(text)
	return strings.TrimSpace(wsRun.ReplaceAllString(t, " "))
}

// lineView keeps newline boundaries for the matchers that need them (line
// items, buyer address). Horizontal whitespace inside each line is collapsed
// and blank lines are dropped.
func lineView(text string) string {
	t := glyphReplacer.Replace(text)
	t = strings.ReplaceAll(t, "\r\n", "\n")

	lines := strings.Split(t, "\n")
	kept := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(hwsRun.ReplaceAllString(ln, " "))
		if ln == "" {
			continue
		}
		kept = append(kept, ln)
	}
	return strings.Join(kept, "\n")
}
