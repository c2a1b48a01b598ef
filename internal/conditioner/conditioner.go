package conditioner

import (
	"errors"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
)

// Conditioning constants. These values are a versioned contract: changing
// them changes which borderline scans OCR cleanly.
const (
	blurSigma        = 1.1 // 5x5 Gaussian
	thresholdBlock   = 11
	thresholdC       = 2
	denoiseStrength  = 3.0
	denoisePatch     = 7
	denoiseSearch    = 21
	contrastFactor   = 2.0
	cannyLow         = 50
	cannyHigh        = 150
	houghThreshold   = 100
	houghMinLineLen  = 100
	houghMaxLineGap  = 10
	deskewMinDegrees = 0.5
)

var errEmptyImage = errors.New("empty image")

// Conditioner prepares a raster page for recognition: binarize, denoise,
// boost contrast, sharpen, then straighten. Failures never propagate; the
// page is returned as-is when a step cannot run.
type Conditioner struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Conditioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conditioner{logger: logger}
}

// Condition returns a deskewed, enhanced single-channel version of page.
// Best-effort: on any internal failure the input is returned unchanged.
func (c *Conditioner) Condition(page image.Image) image.Image {
	enhanced, err := c.enhance(page)
	if err != nil {
		c.logger.Warn("conditioner.enhance.skipped", "error", err)
		return page
	}
	deskewed, err := c.deskew(enhanced)
	if err != nil {
		c.logger.Warn("conditioner.deskew.skipped", "error", err)
		return enhanced
	}
	return deskewed
}

// toGray converts any image to a single-channel luminance page.
func toGray(img image.Image) (*image.Gray, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errEmptyImage
	}
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g, nil
	}
	flat := imaging.Grayscale(img)
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := flat.Pix[y*flat.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			dst[x] = src[x*4] // grayscale NRGBA has R=G=B=luma
		}
	}
	return gray, nil
}

func cloneGray(g *image.Gray) *image.Gray {
	out := image.NewGray(g.Bounds())
	copy(out.Pix, g.Pix)
	return out
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
