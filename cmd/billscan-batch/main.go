package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/common"
	"github.com/billscan/billscan/internal/conditioner"
	"github.com/billscan/billscan/internal/export"
	"github.com/billscan/billscan/internal/extraction"
	"github.com/billscan/billscan/internal/ingest"
	"github.com/billscan/billscan/internal/pagesource"
	"github.com/billscan/billscan/internal/pipeline"
	"github.com/billscan/billscan/internal/repository"
	"github.com/billscan/billscan/internal/resolver"
	"github.com/billscan/billscan/internal/textextract"
)

func main() {
	var (
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite database")
		dir     = flag.String("dir", "", "directory to process invoices from (required)")
		out     = flag.String("out", "", "output XLSX file path (defaults to the parent directory)")
		fromStr = flag.String("from", "", "from date YYYY-MM-DD")
		toStr   = flag.String("to", "", "to date YYYY-MM-DD")
	)
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: --dir is required")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "invoices.xlsx")
	}
	for _, d := range []string{*fromStr, *toStr} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q, use YYYY-MM-DD\n", d)
			os.Exit(1)
		}
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *inmem {
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = ":memory:"
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     3 * time.Second,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	invoices := repository.NewInvoiceRepository(db.Gorm, logger)
	invalid := repository.NewInvalidInvoiceRepository(db.Gorm, logger)
	clients := repository.NewClientRepository(db.Gorm, logger)

	router, err := pipeline.NewRouter(resolver.New(clients, logger), invoices, invalid, logger)
	if err != nil {
		logger.Error("failed to build pipeline router", "error", err)
		os.Exit(1)
	}

	source := pagesource.New(pagesource.NewFitzRasterizer(), cfg.OCR.DPI, logger)
	recognizer := textextract.NewTesseractRecognizer(textextract.TesseractConfig{
		Binary:   cfg.OCR.Tesseract,
		Language: cfg.OCR.Language,
		PSM:      cfg.OCR.PSM,
		OEM:      cfg.OCR.OEM,
		Timeout:  cfg.OCR.Timeout,
		TempDir:  cfg.Pipeline.TempDir,
	}, logger)
	extractor := textextract.New(source, conditioner.New(logger), recognizer, logger)
	engine := extraction.NewEngine(extraction.Config{DefaultCurrency: cfg.Pipeline.DefaultCurrency}, logger)
	processor := pipeline.NewProcessor(extractor, engine, router, logger)

	logger.Info("scanning directory", "dir", *dir)
	paths, stats, err := ingest.Discover(ctx, *dir)
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"skipped", stats.Skipped)

	uploads := make([]pipeline.Upload, 0, len(paths))
	var toClose []*os.File
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			logger.Error("failed to open file", "path", p, "error", err)
			continue
		}
		toClose = append(toClose, f)
		uploads = append(uploads, pipeline.Upload{Filename: filepath.Base(p), Content: f})
	}

	results := processor.ProcessFiles(ctx, uploads)
	for _, f := range toClose {
		_ = f.Close()
	}

	processed := 0
	failures := 0
	for _, res := range results {
		if res.Status == constants.ResultStatusSuccess {
			processed++
		} else {
			failures++
		}
	}

	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := export.NewService(invoices, logger).
		ExportInvoicesXLSX(ctx, repository.InvoiceFilters{DateFrom: *fromStr, DateTo: *toStr})
	if err != nil {
		logger.Error("failed to export invoices", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files_found", len(paths),
		"files_processed", processed,
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files found: %d\n", len(paths))
	fmt.Printf("- Files processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}
