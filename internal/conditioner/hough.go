package conditioner

import (
	"image"
	"math"
	"math/rand"
)

// segment is a detected line segment in pixel coordinates.
type segment struct {
	x1, y1, x2, y2 int
}

// houghLinesP is the progressive probabilistic Hough transform: edge points
// are consumed in random order, each voting across all angle bins (rho
// resolution 1px, theta resolution 1 degree); when a bin crosses threshold,
// the supporting segment is traced pixel-by-pixel with gap tolerance, its
// points are retired from the mask and their votes withdrawn. The RNG is
// fixed-seed so identical pages always yield identical segments.
func houghLinesP(edges *image.Gray, threshold, minLen, maxGap int) []segment {
	w, h := edges.Bounds().Dx(), edges.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil
	}

	const numAngle = 180
	var sinT, cosT [numAngle]float64
	for n := 0; n < numAngle; n++ {
		ang := float64(n) * math.Pi / numAngle
		sinT[n] = math.Sin(ang)
		cosT[n] = math.Cos(ang)
	}
	numRho := 2*(w+h) + 1
	offset := w + h

	accum := make([]int, numAngle*numRho)
	mask := make([]bool, w*h)
	voted := make([]bool, w*h)
	pts := make([][2]int, 0, 1024)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[y*edges.Stride+x] != 0 {
				mask[y*w+x] = true
				pts = append(pts, [2]int{x, y})
			}
		}
	}

	rng := rand.New(rand.NewSource(1))
	var segs []segment

	vote := func(x, y, delta int) (best, bestN int) {
		bestN = -1
		for n := 0; n < numAngle; n++ {
			r := int(math.Round(float64(x)*cosT[n]+float64(y)*sinT[n])) + offset
			accum[n*numRho+r] += delta
			if v := accum[n*numRho+r]; v > best {
				best, bestN = v, n
			}
		}
		return best, bestN
	}

	for len(pts) > 0 {
		i := rng.Intn(len(pts))
		x0, y0 := pts[i][0], pts[i][1]
		pts[i] = pts[len(pts)-1]
		pts = pts[:len(pts)-1]
		if !mask[y0*w+x0] {
			continue
		}

		voted[y0*w+x0] = true
		best, bestN := vote(x0, y0, 1)
		if best < threshold {
			continue
		}

		// unit vector along the candidate line
		dx, dy := -sinT[bestN], cosT[bestN]

		var ends [2][2]int
		for k := 0; k < 2; k++ {
			step := 1.0
			if k == 1 {
				step = -1.0
			}
			fx, fy := float64(x0), float64(y0)
			ex, ey := x0, y0
			gap := 0
			for {
				fx += dx * step
				fy += dy * step
				xi, yi := int(math.Round(fx)), int(math.Round(fy))
				if xi < 0 || xi >= w || yi < 0 || yi >= h {
					break
				}
				if mask[yi*w+xi] {
					gap = 0
					ex, ey = xi, yi
				} else {
					gap++
					if gap > maxGap {
						break
					}
				}
			}
			ends[k] = [2]int{ex, ey}
		}

		lenX := ends[0][0] - ends[1][0]
		if lenX < 0 {
			lenX = -lenX
		}
		lenY := ends[0][1] - ends[1][1]
		if lenY < 0 {
			lenY = -lenY
		}
		if lenX < minLen && lenY < minLen {
			continue
		}

		// retire the segment's pixels and withdraw their votes
		for k := 0; k < 2; k++ {
			step := 1.0
			if k == 1 {
				step = -1.0
			}
			fx, fy := float64(x0), float64(y0)
			for {
				xi, yi := int(math.Round(fx)), int(math.Round(fy))
				if xi < 0 || xi >= w || yi < 0 || yi >= h {
					break
				}
				if mask[yi*w+xi] {
					mask[yi*w+xi] = false
					if voted[yi*w+xi] {
						voted[yi*w+xi] = false
						vote(xi, yi, -1)
					}
				}
				if xi == ends[k][0] && yi == ends[k][1] {
					break
				}
				fx += dx * step
				fy += dy * step
			}
		}

		segs = append(segs, segment{ends[1][0], ends[1][1], ends[0][0], ends[0][1]})
	}
	return segs
}
