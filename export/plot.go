package export

import (
	"fmt"

	"github.com/swdee/go-pitchtrack/heatmap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// fieldGrid adapts a heatmap Field to plotter.GridXYZ.  Plot rows run bottom
// to top so the field rows are flipped to keep the image upright.
type fieldGrid struct {
	f *heatmap.Field
}

func (g fieldGrid) Dims() (c, r int) {
	return g.f.Dims()
}

func (g fieldGrid) Z(c, r int) float64 {
	_, h := g.f.Dims()
	return g.f.At(c, h-1-r)
}

func (g fieldGrid) X(c int) float64 {
	return float64(c)
}

func (g fieldGrid) Y(r int) float64 {
	return float64(r)
}

// HeatmapPlot returns a gonum plot of the field using a heat palette
func HeatmapPlot(f *heatmap.Field, title string) *plot.Plot {

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (cells)"
	p.Y.Label.Text = "Y (cells, flipped)"

	hm := plotter.NewHeatMap(fieldGrid{f: f}, palette.Heat(64, 1))
	hm.Min = 0
	hm.Max = 1

	p.Add(hm)

	return p
}

// SaveHeatmapPNG renders the field to an image file, the format is taken from
// the file extension
func SaveHeatmapPNG(file string, f *heatmap.Field, title string) error {

	w, h := f.Dims()

	// keep the field aspect with a 6 inch wide canvas
	width := 6 * vg.Inch
	height := width * vg.Length(float64(h)/float64(w))

	if err := HeatmapPlot(f, title).Save(width, height, file); err != nil {
		return fmt.Errorf("error saving heatmap plot: %w", err)
	}

	return nil
}
