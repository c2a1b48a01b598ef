// Route registration for the invoice processing API.
package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/billscan/billscan/internal/export"
	"github.com/billscan/billscan/internal/repository"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Processor BatchProcessor
	Invoices  repository.InvoiceRepository
	Exporter  *export.Service
	DB        *repository.DB
	Logger    *slog.Logger
}

// Handlers holds all handler instances.
type Handlers struct {
	Process *ProcessHandler
	Search  *SearchHandler
	Reports *ReportsHandler
	Health  *HealthHandler
}

// NewHandlers creates all handler instances.
func NewHandlers(deps *Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Process: NewProcessHandler(deps.Processor, logger),
		Search:  NewSearchHandler(deps.Invoices, logger),
		Reports: NewReportsHandler(deps.Invoices, deps.Exporter, logger),
		Health:  NewHealthHandler(deps.DB, logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	e.GET("/healthz", h.Health.HandleHealth)

	v1 := e.Group("/api/v1")
	v1.POST("/invoices/process", h.Process.HandleProcess)
	v1.GET("/invoices", h.Search.HandleSearch)
	v1.GET("/reports/summary", h.Reports.HandleSummary)
	v1.GET("/reports/export", h.Reports.HandleExport)
}

// NewEcho builds the echo instance with the service middleware stack and the
// shared error handler.
func NewEcho(bodyLimit string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.Recover())
	if bodyLimit != "" {
		e.Use(middleware.BodyLimit(bodyLimit))
	}
	return e
}
