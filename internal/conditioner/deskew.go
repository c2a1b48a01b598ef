package conditioner

import (
	"image"
	"math"
	"sort"
)

// estimateSkew measures the dominant text-line angle in degrees. It reports
// ok=false when no usable segments were detected.
func estimateSkew(g *image.Gray) (angle float64, ok bool) {
	edges := canny(g, cannyLow, cannyHigh)
	segs := houghLinesP(edges, houghThreshold, houghMinLineLen, houghMaxLineGap)

	angles := make([]float64, 0, len(segs))
	for _, s := range segs {
		if s.x2 == s.x1 {
			// vertical rules carry no skew signal
			continue
		}
		slope := float64(s.y2-s.y1) / float64(s.x2-s.x1)
		angles = append(angles, math.Atan(slope)*180/math.Pi)
	}
	if len(angles) == 0 {
		return 0, false
	}

	// median: a few long table borders must not drag the estimate
	sort.Float64s(angles)
	mid := len(angles) / 2
	if len(angles)%2 == 0 {
		return (angles[mid-1] + angles[mid]) / 2, true
	}
	return angles[mid], true
}

// deskew straightens the page when the estimated skew magnitude exceeds the
// rotation threshold. Angles at or below it are left alone: tiny rotations
// cost more in resampling blur than they recover in recognition.
func (c *Conditioner) deskew(g *image.Gray) (*image.Gray, error) {
	if g.Bounds().Dx() <= 0 || g.Bounds().Dy() <= 0 {
		return nil, errEmptyImage
	}
	angle, ok := estimateSkew(g)
	if !ok || math.Abs(angle) <= deskewMinDegrees {
		return g, nil
	}
	c.logger.Debug("conditioner.deskew.rotate", "angle_degrees", angle)
	return rotateAbout(g, angle), nil
}
