package geometry

import (
	"fmt"
	"image"
	"math"
)

// Scaler maps detector-space coordinates linearly onto a target grid, scaling
// each axis independently by grid size / detector frame size
type Scaler struct {
	srcW, srcH float64
	dstW, dstH int
	sx, sy     float64
}

// NewScaler returns a Scaler from a detector frame of srcW x srcH pixels onto
// a grid of dstW x dstH cells.  Non-positive dimensions are a programming
// error and panic.
func NewScaler(srcW, srcH float64, dstW, dstH int) Scaler {

	if srcW <= 0 || srcH <= 0 {
		panic(fmt.Sprintf("geometry: invalid source size %gx%g", srcW, srcH))
	}

	if dstW <= 0 || dstH <= 0 {
		panic(fmt.Sprintf("geometry: invalid grid size %dx%d", dstW, dstH))
	}

	return Scaler{
		srcW: srcW,
		srcH: srcH,
		dstW: dstW,
		dstH: dstH,
		sx:   float64(dstW) / srcW,
		sy:   float64(dstH) / srcH,
	}
}

// GridSize returns the target grid dimensions
func (s Scaler) GridSize() (int, int) {
	return s.dstW, s.dstH
}

// Map converts a detector-space point into continuous grid coordinates
func (s Scaler) Map(p Point) Point {
	return Point{X: p.X * s.sx, Y: p.Y * s.sy}
}

// Cell returns the grid cell containing point p.  Points mapping outside the
// grid or with a NaN coordinate report false rather than being clamped to the
// border.
func (s Scaler) Cell(p Point) (int, int, bool) {

	m := s.Map(p)

	x := math.Floor(m.X)
	y := math.Floor(m.Y)

	if math.IsNaN(x) || math.IsNaN(y) ||
		x < 0 || y < 0 || x >= float64(s.dstW) || y >= float64(s.dstH) {
		return 0, 0, false
	}

	return int(x), int(y), true
}

// Plane maps detector-space positions onto a drawing canvas inset by a
// fractional margin on every side, as used for the 2D pitch view
type Plane struct {
	srcW, srcH       float64
	width, height    int
	marginX, marginY float64
}

// NewPlane returns a Plane for a canvas of width x height pixels.  Margin is
// the fraction of each canvas dimension left empty on both sides and must be
// within [0, 0.5).
func NewPlane(srcW, srcH float64, width, height int, margin float64) Plane {

	if srcW <= 0 || srcH <= 0 || width <= 0 || height <= 0 {
		panic(fmt.Sprintf("geometry: invalid plane %gx%g -> %dx%d", srcW, srcH, width, height))
	}

	if margin < 0 || margin >= 0.5 {
		panic(fmt.Sprintf("geometry: plane margin %g outside [0, 0.5)", margin))
	}

	return Plane{
		srcW:    srcW,
		srcH:    srcH,
		width:   width,
		height:  height,
		marginX: float64(width) * margin,
		marginY: float64(height) * margin,
	}
}

// Size returns the canvas dimensions
func (p Plane) Size() (int, int) {
	return p.width, p.height
}

// Field returns the canvas rectangle inside the margins
func (p Plane) Field() image.Rectangle {
	return image.Rect(int(p.marginX), int(p.marginY),
		int(float64(p.width)-p.marginX), int(float64(p.height)-p.marginY))
}

// Project converts a detector-space point into canvas coordinates
func (p Plane) Project(pt Point) Point {

	fieldW := float64(p.width) - 2*p.marginX
	fieldH := float64(p.height) - 2*p.marginY

	return Point{
		X: p.marginX + (pt.X/p.srcW)*fieldW,
		Y: p.marginY + (pt.Y/p.srcH)*fieldH,
	}
}
