package heatmap

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultThreshold is the intensity below which a cell is drawn as empty
const DefaultThreshold = 0.01

// Field is a normalised density grid indexed by x (column) and y (row)
type Field struct {
	m *mat.Dense
}

// Dims returns the width and height of the field in cells
func (f *Field) Dims() (int, int) {
	r, c := f.m.Dims()
	return c, r
}

// At returns the intensity of cell x, y
func (f *Field) At(x, y int) float64 {
	return f.m.At(y, x)
}

// Max returns the highest intensity in the field
func (f *Field) Max() float64 {
	return floats.Max(f.m.RawMatrix().Data)
}

// Peak returns the cell holding the highest intensity
func (f *Field) Peak() (int, int, float64) {

	data := f.m.RawMatrix().Data
	idx := floats.MaxIdx(data)
	w, _ := f.Dims()

	return idx % w, idx / w, data[idx]
}

// Empty reports whether every cell is zero
func (f *Field) Empty() bool {
	return allZero(f.m.RawMatrix().Data)
}

// Each calls fn for every cell whose intensity is above threshold in row
// major order
func (f *Field) Each(threshold float64, fn func(x, y int, v float64)) {

	w, h := f.Dims()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if v := f.m.At(y, x); v > threshold {
				fn(x, y, v)
			}
		}
	}
}

// Matrix returns a copy of the field as rows by columns
func (f *Field) Matrix() *mat.Dense {
	return mat.DenseCopyOf(f.m)
}
