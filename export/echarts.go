package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/swdee/go-pitchtrack/heatmap"
)

// heatRamp is the red ramp of the pitch heatmap from faint to peak
var heatRamp = []string{"#ff0000", "#ff1900", "#ff3200", "#ff4b00", "#ff6400"}

// HeatmapChart builds an interactive heatmap chart of the field.  Step
// samples every Nth cell on each axis to keep the page size small, cells at
// or below threshold are left out.
func HeatmapChart(f *heatmap.Field, title string, step int,
	threshold float64) *charts.HeatMap {

	if step <= 0 {
		step = 1
	}

	w, h := f.Dims()

	var xs, ys []string

	for x := 0; x < w; x += step {
		xs = append(xs, strconv.Itoa(x))
	}

	rows := (h + step - 1) / step

	// category axes start at the bottom, list rows in reverse so row 0 of
	// the field is drawn at the top like the pitch view
	for i := rows - 1; i >= 0; i-- {
		ys = append(ys, strconv.Itoa(i*step))
	}

	data := make([]opts.HeatMapData, 0)

	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			v := f.At(x, y)

			if v <= threshold {
				continue
			}

			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{x / step, rows - 1 - y/step, v},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d cells step=%d", w, h, step)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: ys}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: heatRamp},
		}),
	)

	hm.SetXAxis(xs).AddSeries("density", data)

	return hm
}

// WriteHeatmapHTML renders the interactive heatmap page of the field
func WriteHeatmapHTML(w io.Writer, f *heatmap.Field, title string, step int,
	threshold float64) error {

	if err := HeatmapChart(f, title, step, threshold).Render(w); err != nil {
		return fmt.Errorf("error rendering heatmap chart: %w", err)
	}

	return nil
}
