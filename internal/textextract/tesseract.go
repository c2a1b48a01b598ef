package textextract

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// Recognizer turns one page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, page image.Image) (string, error)
}

// TesseractConfig controls the tesseract invocation.
type TesseractConfig struct {
	Binary   string // binary name or absolute path; if empty -> "tesseract"
	Language string // default "eng"
	PSM      int    // page segmentation mode; 0 leaves tesseract's default
	OEM      int    // engine mode; 0 leaves tesseract's default
	Timeout  time.Duration
	TempDir  string
}

// TesseractRecognizer shells out to the tesseract CLI. Each page is written
// to a temporary PNG because tesseract only reads files.
type TesseractRecognizer struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseractRecognizer(cfg TesseractConfig, logger *slog.Logger) *TesseractRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &TesseractRecognizer{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

func (t *TesseractRecognizer) Recognize(ctx context.Context, page image.Image) (string, error) {
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	path, cleanup, err := t.writePage(page)
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := []string{path, "stdout", "-l", t.cfg.Language}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", t.cfg.OEM))
	}
	// Keeps tabular invoice layouts intact instead of collapsing columns.
	args = append(args, "-c", "preserve_interword_spaces=1")

	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (stderr: %s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

func (t *TesseractRecognizer) writePage(page image.Image) (string, func(), error) {
	f, err := os.CreateTemp(t.cfg.TempDir, "ocr-page-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("create temp page: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			t.logger.Warn("textextract.temp.remove_failed", "path", path, "error", err)
		}
	}

	err = imaging.Encode(f, page, imaging.PNG)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("encode temp page %s: %w", filepath.Base(path), err)
	}
	return path, cleanup, nil
}

var _ Recognizer = (*TesseractRecognizer)(nil)
