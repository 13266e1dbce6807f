package render

import (
	"image"
	"testing"

	"github.com/swdee/go-pitchtrack"
	"github.com/swdee/go-pitchtrack/geometry"
	"github.com/swdee/go-pitchtrack/heatmap"
	"github.com/swdee/go-pitchtrack/motion"
	"github.com/swdee/go-pitchtrack/tracker"
	"gocv.io/x/gocv"
)

func TestPitchMarkings(t *testing.T) {

	plane := geometry.NewPlane(800, 600, 1000, 500, 0.1)
	m := PitchMarkings(plane)

	if m.Outline != image.Rect(100, 50, 900, 450) {
		t.Errorf("unexpected outline %v", m.Outline)
	}

	if m.CenterTop != image.Pt(500, 50) || m.CenterBottom != image.Pt(500, 450) {
		t.Errorf("unexpected center line %v %v", m.CenterTop, m.CenterBottom)
	}

	if m.CircleRadius < 59 || m.CircleRadius > 60 {
		t.Errorf("expected circle radius of 15%% of field height, got %d", m.CircleRadius)
	}

	if m.LeftPenalty != image.Rect(100, 150, 260, 350) {
		t.Errorf("unexpected left penalty area %v", m.LeftPenalty)
	}

	if m.RightPenalty != image.Rect(740, 150, 900, 350) {
		t.Errorf("unexpected right penalty area %v", m.RightPenalty)
	}
}

func TestHeatColor(t *testing.T) {

	if c := HeatColor(1); c.R != 255 || c.G != 100 || c.B != 0 {
		t.Errorf("unexpected peak colour %v", c)
	}

	if c := HeatColor(0); c.G != 0 {
		t.Errorf("unexpected empty colour %v", c)
	}

	if c := HeatColor(7); c.G != 100 {
		t.Errorf("intensity should be clamped, got %v", c)
	}
}

func TestColorFor(t *testing.T) {

	if ColorFor(1) == ColorFor(2) {
		t.Errorf("neighbouring identities should differ in colour")
	}

	if ColorFor(1) != ColorFor(tracker.Identity(1+len(identityColors))) {
		t.Errorf("palette should wrap")
	}
}

func TestHeatmapImageThreshold(t *testing.T) {

	p := heatmap.DefaultParams()
	p.Sigma = 0
	f := heatmap.NewBuilder(p).Build([]geometry.Point{{X: 0, Y: 0}, {X: 799, Y: 599}}, 4, 3)

	img := HeatmapImage(f, 0.01)

	if c := img.NRGBAAt(3, 2); c.R != 255 || c.G != 100 || c.A != HeatAlpha {
		t.Errorf("unexpected peak pixel %v", c)
	}

	if c := img.NRGBAAt(0, 0); c.G != 50 || c.A != HeatAlpha {
		t.Errorf("unexpected half intensity pixel %v", c)
	}

	if c := img.NRGBAAt(1, 1); c.A != 0 {
		t.Errorf("empty cell should be transparent, got %v", c)
	}
}

func TestScaleImage(t *testing.T) {

	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	dst := ScaleImage(src, 40, 30)

	if dst.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Errorf("unexpected scaled bounds %v", dst.Bounds())
	}
}

func TestHeatmapOverlay(t *testing.T) {

	img := gocv.NewMatWithSize(300, 400, gocv.MatTypeCV8UC3)
	defer img.Close()

	f := heatmap.NewBuilder(heatmap.DefaultParams()).Build(
		[]geometry.Point{{X: 400, Y: 300}}, 200, 150)

	if err := HeatmapOverlay(&img, f, heatmap.DefaultThreshold); err != nil {
		t.Fatalf("overlay: %v", err)
	}

	// BGR pixel at the center picks up red from the heatmap
	if r := img.GetVecbAt(150, 200)[2]; r == 0 {
		t.Errorf("expected red blended into the center pixel")
	}

	// corner is outside the smoothing support and left untouched
	if r := img.GetVecbAt(0, 0)[2]; r != 0 {
		t.Errorf("expected corner untouched, got red %d", r)
	}
}

func TestDrawingDoesNotPanic(t *testing.T) {

	plane := geometry.NewPlane(800, 600, 400, 300, 0.1)
	pitch := NewPitch(plane, DefaultPitchStyle())
	defer pitch.Close()

	if pitch.Cols() != 400 || pitch.Rows() != 300 {
		t.Fatalf("unexpected pitch size %dx%d", pitch.Cols(), pitch.Rows())
	}

	points := []geometry.Point{{X: 100, Y: 100}, {X: 150, Y: 120}, {X: 200, Y: 160}}
	PlaneTrail(&pitch, plane, points, DefaultPitchStyle())

	frame := gocv.NewMatWithSize(600, 800, gocv.MatTypeCV8UC3)
	defer frame.Close()

	tracked := []pitchtrack.Tracked{
		{Identity: 1, Detection: tracker.Detection{Box: geometry.NewBox(90, 80, 110, 120)}},
		{Identity: 2, Detection: tracker.Detection{Box: geometry.NewBox(300, 300, 330, 360)}},
	}

	IdentityBoxes(&frame, tracked, 2, LabelFont(), DefaultBoxStyle())
	Trails(&frame, tracked, func(tracker.Identity) []geometry.Point { return points },
		DefaultTrailStyle())
	Readout(&frame, motion.Readout{Identity: 2, Velocity: 12.5, HasVelocity: true},
		image.Pt(10, 10), ReadoutFont())

	// selected box edge is drawn red
	if px := frame.GetVecbAt(300, 315); px[2] != 255 || px[0] != 0 {
		t.Errorf("expected red selected box edge, got %v", px)
	}
}

func TestFontPanelRect(t *testing.T) {

	f := ReadoutFont()
	lines := []string{"Player ID: 7", "Time: 01:00", "Velocity: 123.4 px/s"}

	rect := f.panelRect(lines, image.Pt(10, 20))

	if rect.Min != image.Pt(10, 20) {
		t.Errorf("Expected panel origin (10,20), got %v", rect.Min)
	}

	if want := f.textSize(lines[2]).X + 2*f.PadX; rect.Dx() != want {
		t.Errorf("Expected panel width of widest line %d, got %d", want, rect.Dx())
	}

	if want := 3 * f.lineHeight(); rect.Dy() != want {
		t.Errorf("Expected panel height %d, got %d", want, rect.Dy())
	}

	if LabelFont().lineHeight() >= f.lineHeight() {
		t.Errorf("Expected readout lines taller than label lines")
	}
}
