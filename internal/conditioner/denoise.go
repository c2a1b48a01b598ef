package conditioner

import (
	"image"
	"math"
)

// denoise is non-local means: each output pixel is a similarity-weighted
// average of pixels whose surrounding patches look alike, searched in a
// window around the pixel. Per-offset integral images keep the patch
// comparison O(1), so the whole pass is O(pixels * search^2).
func denoise(g *image.Gray, h float64, patch, search int) *image.Gray {
	w, ht := g.Bounds().Dx(), g.Bounds().Dy()
	pHalf := patch / 2
	sHalf := search / 2
	norm := h * h * float64(patch*patch)

	num := make([]float64, w*ht)
	den := make([]float64, w*ht)
	diff := make([]float64, w*ht)
	integ := make([]float64, (w+1)*(ht+1))

	for dy := -sHalf; dy <= sHalf; dy++ {
		for dx := -sHalf; dx <= sHalf; dx++ {
			for y := 0; y < ht; y++ {
				for x := 0; x < w; x++ {
					d := float64(g.Pix[y*g.Stride+x]) - float64(grayAt(g, x+dx, y+dy))
					diff[y*w+x] = d * d
				}
			}
			for y := 0; y < ht; y++ {
				var rowSum float64
				for x := 0; x < w; x++ {
					rowSum += diff[y*w+x]
					integ[(y+1)*(w+1)+x+1] = integ[y*(w+1)+x+1] + rowSum
				}
			}
			for y := 0; y < ht; y++ {
				y0, y1 := y-pHalf, y+pHalf+1
				if y0 < 0 {
					y0 = 0
				}
				if y1 > ht {
					y1 = ht
				}
				for x := 0; x < w; x++ {
					x0, x1 := x-pHalf, x+pHalf+1
					if x0 < 0 {
						x0 = 0
					}
					if x1 > w {
						x1 = w
					}
					ssd := integ[y1*(w+1)+x1] - integ[y0*(w+1)+x1] -
						integ[y1*(w+1)+x0] + integ[y0*(w+1)+x0]
					wgt := math.Exp(-ssd / norm)
					num[y*w+x] += wgt * float64(grayAt(g, x+dx, y+dy))
					den[y*w+x] += wgt
				}
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, ht))
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = clampU8(num[y*w+x] / den[y*w+x])
		}
	}
	return out
}
