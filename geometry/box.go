package geometry

import (
	"image"
	"math"
)

// Box is an axis aligned bounding box in detector-space given by its top left
// (X1, Y1) and bottom right (X2, Y2) corners
type Box struct {
	X1, Y1, X2, Y2 float64
}

// NewBox returns a Box from its corner coordinates
func NewBox(x1, y1, x2, y2 float64) Box {
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the width of the box
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the height of the box
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// Area returns the box area, or zero when the box is inverted
func (b Box) Area() float64 {
	if b.Width() <= 0 || b.Height() <= 0 {
		return 0
	}

	return b.Width() * b.Height()
}

// Finite reports whether every corner coordinate is a finite number
func (b Box) Finite() bool {

	for _, v := range [4]float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Centroid returns the center point of the box.  A zero area, inverted or
// non-finite box has no meaningful center and reports false.
func (b Box) Centroid() (Point, bool) {

	if !b.Finite() || b.Area() == 0 {
		return Point{}, false
	}

	return Point{
		X: (b.X1 + b.X2) / 2,
		Y: (b.Y1 + b.Y2) / 2,
	}, true
}

// Rect returns the box as an integer image rectangle used for drawing
func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
}
