package conditioner

import (
	"image"
	"math"
)

// adaptiveThreshold binarizes against a Gaussian-weighted local mean: a pixel
// becomes white when it exceeds its block mean minus c. Block-local
// thresholds flatten uneven illumination that a global threshold smears.
func adaptiveThreshold(g *image.Gray, block int, c float64) *image.Gray {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	kernel := gaussianKernel1D(block)
	half := block / 2

	// separable weighted mean, edge-replicated
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i := -half; i <= half; i++ {
				acc += kernel[i+half] * float64(grayAt(g, x+i, y))
			}
			tmp[y*w+x] = acc
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i := -half; i <= half; i++ {
				yy := y + i
				if yy < 0 {
					yy = 0
				} else if yy >= h {
					yy = h - 1
				}
				acc += kernel[i+half] * tmp[yy*w+x]
			}
			if float64(g.Pix[y*g.Stride+x]) > acc-c {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// gaussianKernel1D builds a normalized kernel of the given odd size with the
// classic sigma-from-size rule sigma = 0.3*((size-1)/2 - 1) + 0.8.
func gaussianKernel1D(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
