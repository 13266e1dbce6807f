// Package heatmap aggregates trajectory positions into a smoothed and
// normalised density field
package heatmap

import (
	"fmt"

	"github.com/swdee/go-pitchtrack/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Params defines the density aggregation settings
type Params struct {
	// SourceWidth and SourceHeight are the detector frame size the positions
	// are measured in
	SourceWidth, SourceHeight float64
	// Sigma is the Gaussian standard deviation in grid cells
	Sigma float64
	// MinWeight is the weight of the oldest sample and MaxWeight the limit
	// approached by the most recent one
	MinWeight, MaxWeight float64
}

// DefaultParams returns the parameters used by the pitch tracker, an 800x600
// detector frame smoothed with sigma 10 and recency weights from 1x to 3x
func DefaultParams() Params {
	return Params{
		SourceWidth:  800,
		SourceHeight: 600,
		Sigma:        10,
		MinWeight:    1,
		MaxWeight:    3,
	}
}

// Builder rebuilds density fields from trajectory snapshots
type Builder struct {
	params Params
}

// NewBuilder returns a Builder for the given parameters
func NewBuilder(p Params) *Builder {

	if p.SourceWidth <= 0 || p.SourceHeight <= 0 {
		panic(fmt.Sprintf("heatmap: invalid source size %gx%g", p.SourceWidth, p.SourceHeight))
	}

	if p.Sigma < 0 {
		panic(fmt.Sprintf("heatmap: negative sigma %g", p.Sigma))
	}

	return &Builder{params: p}
}

// Params returns the builder parameters
func (b *Builder) Params() Params {
	return b.params
}

// Weight returns the recency weight of sample i out of n
func (b *Builder) Weight(i, n int) float64 {

	if n <= 0 {
		return b.params.MinWeight
	}

	return b.params.MinWeight +
		(float64(i)/float64(n))*(b.params.MaxWeight-b.params.MinWeight)
}

// Accumulate returns the raw weight grid of h rows by w columns before any
// smoothing.  Positions mapping outside the grid are dropped.
func (b *Builder) Accumulate(points []geometry.Point, w, h int) *mat.Dense {

	// panics on non-positive grid size
	sc := geometry.NewScaler(b.params.SourceWidth, b.params.SourceHeight, w, h)

	grid := mat.NewDense(h, w, nil)
	n := len(points)

	for i, p := range points {

		x, y, ok := sc.Cell(p)

		if !ok {
			continue
		}

		grid.Set(y, x, grid.At(y, x)+b.Weight(i, n))
	}

	return grid
}

// Build accumulates, smooths and normalises the points into a Field of w x h
// cells with values in [0, 1]
func (b *Builder) Build(points []geometry.Point, w, h int) *Field {

	grid := b.Accumulate(points, w, h)
	data := grid.RawMatrix().Data

	smooth(data, w, h, b.params.Sigma)

	if peak := floats.Max(data); peak > 0 {
		for i := range data {
			data[i] /= peak
		}
	}

	return &Field{m: grid}
}
