package conditioner

import (
	"image"

	"github.com/disintegration/imaging"
)

// enhance runs the recognizability chain: grayscale, Gaussian blur, adaptive
// threshold, non-local-means denoise, contrast boost, sharpen.
func (c *Conditioner) enhance(page image.Image) (*image.Gray, error) {
	gray, err := toGray(page)
	if err != nil {
		return nil, err
	}

	blurred, err := toGray(imaging.Blur(gray, blurSigma))
	if err != nil {
		return nil, err
	}

	bin := adaptiveThreshold(blurred, thresholdBlock, thresholdC)
	den := denoise(bin, denoiseStrength, denoisePatch, denoiseSearch)
	boosted := contrastBoost(den, contrastFactor)
	return sharpen(boosted), nil
}

// contrastBoost scales pixel deviation from the page mean by factor.
func contrastBoost(g *image.Gray, factor float64) *image.Gray {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	var sum uint64
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for _, p := range row {
			sum += uint64(p)
		}
	}
	mean := float64(sum) / float64(w*h)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := g.Pix[y*g.Stride : y*g.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, p := range src {
			dst[x] = clampU8(mean + factor*(float64(p)-mean))
		}
	}
	return out
}

// sharpenKernel emphasizes glyph edges after binarization softening.
var sharpenKernel = [9]float64{
	-2, -2, -2,
	-2, 32, -2,
	-2, -2, -2,
}

const sharpenScale = 16.0

// sharpen applies the fixed 3x3 sharpening convolution with replicated edges.
func sharpen(g *image.Gray) *image.Gray {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			k := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					acc += sharpenKernel[k] * float64(grayAt(g, x+dx, y+dy))
					k++
				}
			}
			out.Pix[y*out.Stride+x] = clampU8(acc / sharpenScale)
		}
	}
	return out
}

// grayAt samples with edge replication.
func grayAt(g *image.Gray, x, y int) uint8 {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	return g.Pix[y*g.Stride+x]
}
