package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/billscan/billscan/internal/export"
	"github.com/billscan/billscan/internal/extraction"
	"github.com/billscan/billscan/internal/pipeline"
	"github.com/billscan/billscan/internal/repository"
	"github.com/billscan/billscan/internal/resolver"
)

// spoolReadingExtractor stands in for the OCR stack in HTTP tests: the
// spooled upload's bytes come back as the recognized text.
type spoolReadingExtractor struct{}

func (spoolReadingExtractor) ExtractText(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type testEnv struct {
	db       *repository.DB
	invoices repository.InvoiceRepository
	handlers *Handlers
	echo     *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repository.Open(context.Background(), repository.Config{Driver: "sqlite", DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })

	invoices := repository.NewInvoiceRepository(db.Gorm, logger)
	res := resolver.New(repository.NewClientRepository(db.Gorm, logger), logger)
	router, err := pipeline.NewRouter(res, invoices, repository.NewInvalidInvoiceRepository(db.Gorm, logger), logger)
	require.NoError(t, err)

	engine := extraction.NewEngine(extraction.Config{}, logger)
	processor := pipeline.NewProcessor(spoolReadingExtractor{}, engine, router, logger)

	handlers := NewHandlers(&Dependencies{
		Processor: processor,
		Invoices:  invoices,
		Exporter:  export.NewService(invoices, logger),
		DB:        db,
		Logger:    logger,
	})
	return &testEnv{db: db, invoices: invoices, handlers: handlers, echo: NewEcho("")}
}

// multipartBody builds a multipart form with one "files" part per entry.
func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newJSONContext(env *testEnv, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return env.echo.NewContext(req, rec), rec
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.Status)
	require.Equal(t, code, apiErr.Code)
}
