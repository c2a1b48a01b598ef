package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/billscan/billscan/internal/repository"
)

// HealthHandler answers liveness probes with a database ping.
type HealthHandler struct {
	db     *repository.DB
	logger *slog.Logger
}

func NewHealthHandler(db *repository.DB, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) HandleHealth(c echo.Context) error {
	if err := h.db.HealthCheck(c.Request().Context(), 2*time.Second); err != nil {
		h.logger.Error("health check failed", "error", err)
		return NewServiceUnavailableError("database unreachable")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
