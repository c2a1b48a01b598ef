package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/billscan/billscan/internal/common"
	"github.com/billscan/billscan/internal/conditioner"
	"github.com/billscan/billscan/internal/export"
	"github.com/billscan/billscan/internal/extraction"
	"github.com/billscan/billscan/internal/pagesource"
	"github.com/billscan/billscan/internal/pipeline"
	"github.com/billscan/billscan/internal/repository"
	"github.com/billscan/billscan/internal/resolver"
	"github.com/billscan/billscan/internal/server"
	"github.com/billscan/billscan/internal/textextract"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
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

	if err := db.HealthCheck(ctx, 5*time.Second); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	invoices := repository.NewInvoiceRepository(db.Gorm, logger)
	invalid := repository.NewInvalidInvoiceRepository(db.Gorm, logger)
	clients := repository.NewClientRepository(db.Gorm, logger)

	router, err := pipeline.NewRouter(resolver.New(clients, logger), invoices, invalid, logger)
	if err != nil {
		logger.Error("failed to build pipeline router", "error", err)
		os.Exit(1)
	}

	engine := extraction.NewEngine(extraction.Config{DefaultCurrency: cfg.Pipeline.DefaultCurrency}, logger)
	processor := pipeline.NewProcessor(newTextExtractor(cfg, logger), engine, router, logger)

	handlers := server.NewHandlers(&server.Dependencies{
		Processor: processor,
		Invoices:  invoices,
		Exporter:  export.NewService(invoices, logger),
		DB:        db,
		Logger:    logger,
	})

	e := server.NewEcho("32M")
	server.RegisterRoutes(e, handlers)

	logger.Info("billscand listening", "addr", cfg.Server.Addr)
	go func() {
		if err := e.Start(cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
			logger.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

// newTextExtractor assembles the OCR chain: PDF/image page loading,
// image conditioning, and tesseract recognition.
func newTextExtractor(cfg *common.Config, logger *slog.Logger) *textextract.Extractor {
	source := pagesource.New(pagesource.NewFitzRasterizer(), cfg.OCR.DPI, logger)
	recognizer := textextract.NewTesseractRecognizer(textextract.TesseractConfig{
		Binary:   cfg.OCR.Tesseract,
		Language: cfg.OCR.Language,
		PSM:      cfg.OCR.PSM,
		OEM:      cfg.OCR.OEM,
		Timeout:  cfg.OCR.Timeout,
		TempDir:  cfg.Pipeline.TempDir,
	}, logger)
	return textextract.New(source, conditioner.New(logger), recognizer, logger)
}
