// Package pagesource turns an uploaded document into the page images the
// OCR stage consumes. Plain images contribute a single page; PDFs are
// rasterized into one image per page.
package pagesource

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/common"
)

// Rasterizer renders every page of a PDF file at the given DPI.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string, dpi int) ([]image.Image, error)
}

type Source struct {
	rasterizer Rasterizer
	dpi        int
	logger     *slog.Logger
}

func New(rasterizer Rasterizer, dpi int, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &Source{rasterizer: rasterizer, dpi: dpi, logger: logger}
}

// Pages loads path and returns its pages in document order. Unsupported
// extensions are rejected before any decoding work happens.
func (s *Source) Pages(ctx context.Context, path string) ([]image.Image, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))

	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		pages, err := s.rasterizer.Rasterize(ctx, path, s.dpi)
		if err != nil {
			return nil, common.NewAppError(common.CodeOCRExtraction, "failed to rasterize pdf", err)
		}
		if len(pages) == 0 {
			return nil, common.NewAppError(common.CodeOCRExtraction, "pdf produced no pages", nil)
		}
		s.logger.Debug("pagesource.pdf.ok", "path", path, "pages", len(pages), "dpi", s.dpi)
		return pages, nil
	case constants.IMAGE:
		img, err := imaging.Open(path)
		if err != nil {
			return nil, common.NewAppError(common.CodeOCRExtraction, "failed to decode image", err)
		}
		s.logger.Debug("pagesource.image.ok", "path", path)
		return []image.Image{img}, nil
	default:
		return nil, common.NewAppError(common.CodeUnsupportedFormat,
			fmt.Sprintf("unsupported file format: %q", ext), nil)
	}
}
