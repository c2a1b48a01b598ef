package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/entity"
	"github.com/billscan/billscan/internal/extraction"
	"github.com/billscan/billscan/internal/repository"
	"github.com/billscan/billscan/internal/resolver"
)

// fileReadingExtractor stands in for the OCR stack: it returns the spooled
// file's bytes as the recognized text, which also proves the temp file is
// alive and complete when the extractor runs.
type fileReadingExtractor struct {
	gotPaths []string
	errAt    int // 1-based call number to fail on; 0 never fails
	calls    int
	err      error
}

func (f *fileReadingExtractor) ExtractText(_ context.Context, path string) (string, error) {
	f.calls++
	f.gotPaths = append(f.gotPaths, path)
	if f.errAt > 0 && f.calls == f.errAt {
		return "", f.err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newTestProcessor(t *testing.T) (*Processor, *repository.DB, *fileReadingExtractor) {
	t.Helper()
	logger := discardLogger()
	db, err := repository.Open(context.Background(), repository.Config{Driver: "sqlite", DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })

	res := resolver.New(repository.NewClientRepository(db.Gorm, logger), logger)
	router, err := NewRouter(
		res,
		repository.NewInvoiceRepository(db.Gorm, logger),
		repository.NewInvalidInvoiceRepository(db.Gorm, logger),
		logger,
	)
	require.NoError(t, err)

	ext := &fileReadingExtractor{}
	engine := extraction.NewEngine(extraction.Config{}, logger)
	return NewProcessor(ext, engine, router, logger), db, ext
}

func TestProcessFilesEndToEnd(t *testing.T) {
	p, db, _ := newTestProcessor(t)

	text := "PO Number:12345\nTOTAL: 1234.56 EUR\nBill to: Acme Corp 10115 Email: billing@acme.example"
	results := p.ProcessFiles(context.Background(), []Upload{
		{Filename: "invoice.png", Content: strings.NewReader(text)},
	})

	require.Len(t, results, 1)
	assert.Equal(t, constants.ResultStatusSuccess, results[0].Status)
	assert.Equal(t, "invoice.png", results[0].Filename)
	require.NotNil(t, results[0].Data)
	assert.Equal(t, "EUR", results[0].Data.Currency)

	var row entity.Invoice
	require.NoError(t, db.Gorm.First(&row).Error)
	assert.Equal(t, "12345", row.InvoiceNumber)
	assert.Equal(t, 1234.56, row.Total)
	assert.Contains(t, row.BillTo, "Acme Corp")

	var client entity.Client
	require.NoError(t, db.Gorm.First(&client).Error)
	require.NotNil(t, client.Email)
	assert.Equal(t, "billing@acme.example", *client.Email)
	assert.Equal(t, client.ID, row.ClientID)
}

func TestProcessFilesRejectsUnsupportedExtension(t *testing.T) {
	p, db, ext := newTestProcessor(t)

	results := p.ProcessFiles(context.Background(), []Upload{
		{Filename: "notes.txt", Content: strings.NewReader("irrelevant")},
	})

	require.Len(t, results, 1)
	assert.Equal(t, constants.ResultStatusError, results[0].Status)
	assert.Equal(t, "Unsupported file format: .txt", results[0].Error)
	assert.Equal(t, "notes.txt", results[0].Filename)
	assert.Nil(t, results[0].Data)

	assert.Zero(t, ext.calls)
	assert.EqualValues(t, 0, countRows(t, db, &entity.Invoice{}))
	assert.EqualValues(t, 0, countRows(t, db, &entity.InvalidInvoice{}))
}

func TestProcessFilesContinuesPastFailures(t *testing.T) {
	p, db, _ := newTestProcessor(t)

	results := p.ProcessFiles(context.Background(), []Upload{
		{Filename: "report.txt", Content: strings.NewReader("not an invoice")},
		{Filename: "invoice.png", Content: strings.NewReader("Invoice Number: INV-9\nTOTAL: 42.00")},
	})

	require.Len(t, results, 2)
	assert.Equal(t, constants.ResultStatusError, results[0].Status)
	assert.Equal(t, "report.txt", results[0].Filename)
	assert.Equal(t, constants.ResultStatusSuccess, results[1].Status)
	assert.Equal(t, "invoice.png", results[1].Filename)

	assert.EqualValues(t, 1, countRows(t, db, &entity.Invoice{}))
}

// OCR failures are reported per file and touch neither store.
func TestProcessFilesExtractorFailureIsolated(t *testing.T) {
	p, db, ext := newTestProcessor(t)
	ext.errAt = 1
	ext.err = errors.New("tesseract exploded")

	results := p.ProcessFiles(context.Background(), []Upload{
		{Filename: "broken.png", Content: strings.NewReader("ignored")},
		{Filename: "fine.png", Content: strings.NewReader("TOTAL: 50.00")},
	})

	require.Len(t, results, 2)
	assert.Equal(t, constants.ResultStatusError, results[0].Status)
	assert.Contains(t, results[0].Error, "tesseract exploded")
	assert.Equal(t, constants.ResultStatusSuccess, results[1].Status)

	assert.EqualValues(t, 1, countRows(t, db, &entity.Invoice{}))
	assert.EqualValues(t, 0, countRows(t, db, &entity.InvalidInvoice{}))
}

func TestProcessFilesRoutesGateFailures(t *testing.T) {
	p, db, _ := newTestProcessor(t)

	results := p.ProcessFiles(context.Background(), []Upload{
		{Filename: "scan.jpg", Content: strings.NewReader("handwritten note, no amounts")},
	})

	require.Len(t, results, 1)
	assert.Equal(t, constants.ResultStatusError, results[0].Status)
	assert.Equal(t, "Missing required field: total", results[0].Error)
	require.NotNil(t, results[0].Data)

	assert.EqualValues(t, 1, countRows(t, db, &entity.InvalidInvoice{}))
}

func TestProcessFilesRemovesTempFiles(t *testing.T) {
	p, _, ext := newTestProcessor(t)

	p.ProcessFiles(context.Background(), []Upload{
		{Filename: "a.png", Content: strings.NewReader("TOTAL: 1.00")},
		{Filename: "b.pdf", Content: strings.NewReader("TOTAL: 2.00")},
	})

	require.Len(t, ext.gotPaths, 2)
	assert.True(t, strings.HasSuffix(ext.gotPaths[0], ".png"), ext.gotPaths[0])
	assert.True(t, strings.HasSuffix(ext.gotPaths[1], ".pdf"), ext.gotPaths[1])
	for _, path := range ext.gotPaths {
		assert.True(t, strings.HasPrefix(filepath.Base(path), "billscan-"), path)
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "temp file should be removed: %s", path)
	}
}

func TestProcessFilesEmptyBatch(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	results := p.ProcessFiles(context.Background(), nil)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}
