package conditioner

import (
	"image"
	"math"
)

// rotateAbout rotates the page content by angleDeg (positive is
// counter-clockwise on screen) about the page center, keeping dimensions.
// Sampling is bicubic with edge-replicated borders, so rotation never
// introduces black wedges that OCR would read as marks.
func rotateAbout(g *image.Gray, angleDeg float64) *image.Gray {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	rad := angleDeg * math.Pi / 180
	cosA, sinA := math.Cos(rad), math.Sin(rad)
	cx, cy := float64(w-1)/2, float64(h-1)/2

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		yd := float64(y) - cy
		for x := 0; x < w; x++ {
			xd := float64(x) - cx
			xs := cosA*xd - sinA*yd + cx
			ys := sinA*xd + cosA*yd + cy
			out.Pix[y*out.Stride+x] = bicubicSample(g, xs, ys)
		}
	}
	return out
}

// bicubicSample interpolates over the 4x4 neighborhood of (xs, ys).
func bicubicSample(g *image.Gray, xs, ys float64) uint8 {
	x0 := int(math.Floor(xs))
	y0 := int(math.Floor(ys))
	fx := xs - float64(x0)
	fy := ys - float64(y0)

	var acc, wsum float64
	for j := -1; j <= 2; j++ {
		wy := cubicWeight(float64(j) - fy)
		if wy == 0 {
			continue
		}
		for i := -1; i <= 2; i++ {
			wx := cubicWeight(float64(i) - fx)
			if wx == 0 {
				continue
			}
			acc += wx * wy * float64(grayAt(g, x0+i, y0+j))
			wsum += wx * wy
		}
	}
	return clampU8(acc / wsum)
}

// cubicWeight is the Keys kernel with a = -0.75.
func cubicWeight(t float64) float64 {
	const a = -0.75
	t = math.Abs(t)
	switch {
	case t <= 1:
		return (a+2)*t*t*t - (a+3)*t*t + 1
	case t < 2:
		return a*t*t*t - 5*a*t*t + 8*a*t - 4*a
	default:
		return 0
	}
}
