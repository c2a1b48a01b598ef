// Package textextract runs OCR over the conditioned pages of a document and
// assembles the raw text that field extraction consumes.
package textextract

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/billscan/billscan/internal/common"
)

// PageSource yields the page images of a document.
type PageSource interface {
	Pages(ctx context.Context, path string) ([]image.Image, error)
}

// Conditioner prepares a page image for recognition.
type Conditioner interface {
	Condition(page image.Image) image.Image
}

// Extractor is the OCR stage: load pages, condition each one, recognize,
// and join the per-page text with newlines.
type Extractor struct {
	source      PageSource
	conditioner Conditioner
	recognizer  Recognizer
	logger      *slog.Logger
}

func New(source PageSource, conditioner Conditioner, recognizer Recognizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{source: source, conditioner: conditioner, recognizer: recognizer, logger: logger}
}

// ExtractText OCRs every page of the document at path. A failure on any
// page aborts the whole document; partial text is never returned.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	start := time.Now()

	pages, err := e.source.Pages(ctx, path)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(pages))
	for i, page := range pages {
		conditioned := e.conditioner.Condition(page)
		text, err := e.recognizer.Recognize(ctx, conditioned)
		if err != nil {
			return "", common.NewAppError(common.CodeOCRExtraction,
				fmt.Sprintf("ocr failed on page %d of %d", i+1, len(pages)), err)
		}
		texts = append(texts, text)
	}

	joined := strings.Join(texts, "\n")
	e.logger.Info("textextract.ok",
		"path", path,
		"pages", len(pages),
		"chars", len(joined),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return joined, nil
}
