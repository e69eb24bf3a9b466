package geometry

import "math"

// Dimensions of a cross-section, all in mm.
type Dimensions struct {
	Width         float64
	Thickness     float64
	OuterDiameter float64
	InnerDiameter float64
	HoleDiameter  float64
}

// SecondMomentOfArea returns I in mm⁴ for the shape. Degenerate hollow
// sections and Unknown give 0. A plate hole larger than the plate is not
// clamped and can make the result negative.
func SecondMomentOfArea(shape Shape, d Dimensions) float64 {
	b, t := d.Width, d.Thickness
	do, di := d.OuterDiameter, d.InnerDiameter

	switch shape {
	case Plate, RectangularBar:
		return rectangle(b, t)
	case PlateWithHole:
		return rectangle(b, t) - circle(d.HoleDiameter)
	case Cylinder:
		return circle(do)
	case HollowCylinder:
		if do > di {
			return math.Pi / 64 * (math.Pow(do, 4) - math.Pow(di, 4))
		}
	case HollowRectangularBar:
		if b > 2*t {
			return (math.Pow(b, 4) - math.Pow(b-2*t, 4)) / 12
		}
	}
	return 0
}

func rectangle(b, t float64) float64 {
	return b * math.Pow(t, 3) / 12
}

func circle(d float64) float64 {
	return math.Pi / 64 * math.Pow(d, 4)
}
