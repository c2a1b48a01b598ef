package conditioner

import (
	"image"
	"math"
)

// canny produces a binary edge mask: 3x3 Sobel gradients, non-maximum
// suppression along the quantized gradient direction, then double-threshold
// hysteresis (weak edges survive only when connected to a strong one).
func canny(g *image.Gray, low, high float64) *image.Gray {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w < 3 || h < 3 {
		return out
	}

	mag := make([]float64, w*h)
	dir := make([]uint8, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p := func(dx, dy int) float64 {
				return float64(g.Pix[(y+dy)*g.Stride+(x+dx)])
			}
			gx := -p(-1, -1) - 2*p(-1, 0) - p(-1, 1) + p(1, -1) + 2*p(1, 0) + p(1, 1)
			gy := -p(-1, -1) - 2*p(0, -1) - p(1, -1) + p(-1, 1) + 2*p(0, 1) + p(1, 1)
			mag[y*w+x] = math.Abs(gx) + math.Abs(gy)

			ang := math.Atan2(gy, gx) * 180 / math.Pi
			if ang < 0 {
				ang += 180
			}
			switch {
			case ang < 22.5 || ang >= 157.5:
				dir[y*w+x] = 0 // gradient ~horizontal
			case ang < 67.5:
				dir[y*w+x] = 1
			case ang < 112.5:
				dir[y*w+x] = 2 // gradient ~vertical
			default:
				dir[y*w+x] = 3
			}
		}
	}

	// suppress non-maxima along the gradient
	nms := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m := mag[y*w+x]
			if m == 0 {
				continue
			}
			var a, b float64
			switch dir[y*w+x] {
			case 0:
				a, b = mag[y*w+x-1], mag[y*w+x+1]
			case 1:
				a, b = mag[(y-1)*w+x+1], mag[(y+1)*w+x-1]
			case 2:
				a, b = mag[(y-1)*w+x], mag[(y+1)*w+x]
			default:
				a, b = mag[(y-1)*w+x-1], mag[(y+1)*w+x+1]
			}
			if m >= a && m >= b {
				nms[y*w+x] = m
			}
		}
	}

	// hysteresis from strong seeds through weak neighbors
	stack := make([][2]int, 0, 256)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if nms[y*w+x] >= high && out.Pix[y*out.Stride+x] == 0 {
				out.Pix[y*out.Stride+x] = 255
				stack = append(stack, [2]int{x, y})
				for len(stack) > 0 {
					p := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							nx, ny := p[0]+dx, p[1]+dy
							if nx < 1 || nx >= w-1 || ny < 1 || ny >= h-1 {
								continue
							}
							if nms[ny*w+nx] >= low && out.Pix[ny*out.Stride+nx] == 0 {
								out.Pix[ny*out.Stride+nx] = 255
								stack = append(stack, [2]int{nx, ny})
							}
						}
					}
				}
			}
		}
	}
	return out
}
