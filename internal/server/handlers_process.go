package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billscan/billscan/internal/entity"
	"github.com/billscan/billscan/internal/pipeline"
)

// BatchProcessor runs the document pipeline over a batch of uploads.
type BatchProcessor interface {
	ProcessFiles(ctx context.Context, uploads []pipeline.Upload) []entity.ProcessResult
}

// ProcessHandler accepts multipart invoice uploads and runs them through the
// processing pipeline.
type ProcessHandler struct {
	processor BatchProcessor
	logger    *slog.Logger
}

func NewProcessHandler(processor BatchProcessor, logger *slog.Logger) *ProcessHandler {
	return &ProcessHandler{processor: processor, logger: logger}
}

type processResponse struct {
	Status    string                 `json:"status"`
	Processed int                    `json:"processed"`
	Results   []entity.ProcessResult `json:"results"`
}

// HandleProcess reads the repeated "files" multipart field and processes
// each file. The batch response always comes back 200; per-file failures are
// reported inside results.
func (h *ProcessHandler) HandleProcess(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("invalid multipart form", err)
	}
	files := form.File["files"]
	if len(files) == 0 {
		return NewValidationError("files")
	}

	uploads := make([]pipeline.Upload, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return NewInternalError("failed to open uploaded file", err)
		}
		defer src.Close()
		uploads = append(uploads, pipeline.Upload{Filename: fh.Filename, Content: src})
	}

	h.logger.Info("process batch received", "files", len(uploads))
	results := h.processor.ProcessFiles(c.Request().Context(), uploads)

	return c.JSON(http.StatusOK, processResponse{
		Status:    "success",
		Processed: len(files),
		Results:   results,
	})
}
