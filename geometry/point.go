package geometry

import "math"

// Point is a position in detector-space pixel coordinates
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Int returns the point truncated to integer pixel coordinates
func (p Point) Int() (int, int) {
	return int(p.X), int(p.Y)
}
