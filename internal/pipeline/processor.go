package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/entity"
	"github.com/billscan/billscan/internal/extraction"
)

// Upload is one file handed to the coordinator: the client-declared name,
// used for format detection and reporting, plus its content.
type Upload struct {
	Filename string
	Content  io.Reader
}

// TextExtractor recognizes the full text of a document on disk.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Processor drives the stages across a batch of uploads, one file at a time.
// Failures stay scoped to their file; the batch always runs to the end.
type Processor struct {
	extractor TextExtractor
	engine    *extraction.Engine
	router    *Router
	logger    *slog.Logger
}

func NewProcessor(extractor TextExtractor, engine *extraction.Engine, router *Router, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, engine: engine, router: router, logger: logger}
}

// ProcessFiles handles each upload in order and reports one result per file,
// in input order.
func (p *Processor) ProcessFiles(ctx context.Context, uploads []Upload) []entity.ProcessResult {
	results := make([]entity.ProcessResult, 0, len(uploads))
	for _, u := range uploads {
		p.logger.Info("processing invoice", "filename", u.Filename)
		res := p.processOne(ctx, u)
		res.Filename = u.Filename
		if res.Status == constants.ResultStatusError {
			p.logger.Error("processing failed", "filename", u.Filename, "error", res.Error)
		}
		results = append(results, res)
	}
	return results
}

func (p *Processor) processOne(ctx context.Context, u Upload) entity.ProcessResult {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if !constants.IsAllowedExt(ext) {
		return entity.ProcessResult{
			Status: constants.ResultStatusError,
			Error:  fmt.Sprintf("Unsupported file format: %s", ext),
		}
	}

	path, release, err := p.spool(u, ext)
	if err != nil {
		return entity.ProcessResult{Status: constants.ResultStatusError, Error: err.Error()}
	}
	defer release()

	text, err := p.extractor.ExtractText(ctx, path)
	if err != nil {
		return entity.ProcessResult{Status: constants.ResultStatusError, Error: err.Error()}
	}

	inv := p.engine.Extract(text)
	return p.router.Route(ctx, inv, text)
}

// spool writes the upload to a temp file so the OCR collaborators, which
// work on paths, can open it. The extension suffix is preserved for format
// detection downstream.
func (p *Processor) spool(u Upload, ext string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "billscan-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, u.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	name := tmp.Name()
	release := func() {
		if err := os.Remove(name); err != nil {
			p.logger.Error("deleting temporary file failed", "path", name, "error", err)
		}
	}
	return name, release, nil
}
