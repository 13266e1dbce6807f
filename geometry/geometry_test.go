package geometry

import (
	"image"
	"math"
	"testing"
)

// almostEqual checks if two float64 values are approximately equal
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestDistance(t *testing.T) {

	d := Distance(Pt(100, 100), Pt(105, 102))

	if !almostEqual(d, math.Sqrt(29), 1e-12) {
		t.Errorf("Expected distance %f, got %f", math.Sqrt(29), d)
	}

	if Distance(Pt(3, 4), Pt(3, 4)) != 0 {
		t.Errorf("Expected zero distance between identical points")
	}
}

func TestBoxCentroid(t *testing.T) {

	tests := []struct {
		name   string
		box    Box
		expect Point
		ok     bool
	}{
		{"regular", NewBox(90, 80, 110, 120), Pt(100, 100), true},
		{"fractional", NewBox(0, 0, 5, 3), Pt(2.5, 1.5), true},
		{"zero width", NewBox(10, 10, 10, 40), Point{}, false},
		{"zero height", NewBox(10, 10, 40, 10), Point{}, false},
		{"inverted", NewBox(50, 50, 10, 10), Point{}, false},
		{"nan corner", NewBox(math.NaN(), 10, 40, 40), Point{}, false},
		{"infinite span", NewBox(math.Inf(-1), 10, math.Inf(1), 40), Point{}, false},
		{"infinite corner", NewBox(10, 10, 40, math.Inf(1)), Point{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := tc.box.Centroid()

			if ok != tc.ok {
				t.Fatalf("Expected ok=%v, got %v", tc.ok, ok)
			}

			if c != tc.expect {
				t.Errorf("Expected centroid %v, got %v", tc.expect, c)
			}
		})
	}
}

func TestBoxRect(t *testing.T) {

	r := NewBox(1.9, 2.2, 30.7, 40.1).Rect()

	if r != image.Rect(1, 2, 30, 40) {
		t.Errorf("Expected truncated rect, got %v", r)
	}
}

func TestScalerCell(t *testing.T) {

	s := NewScaler(800, 600, 400, 300)

	tests := []struct {
		p      Point
		x, y   int
		inside bool
	}{
		{Pt(0, 0), 0, 0, true},
		{Pt(100, 100), 50, 50, true},
		{Pt(799, 599), 399, 299, true},
		{Pt(800, 300), 0, 0, false},
		{Pt(300, 600), 0, 0, false},
		{Pt(-1, 10), 0, 0, false},
		{Pt(10, -0.5), 0, 0, false},
		{Pt(math.NaN(), 10), 0, 0, false},
		{Pt(10, math.NaN()), 0, 0, false},
		{Pt(math.Inf(1), 10), 0, 0, false},
		{Pt(10, math.Inf(-1)), 0, 0, false},
	}

	for _, tc := range tests {
		x, y, ok := s.Cell(tc.p)

		if ok != tc.inside {
			t.Errorf("Point %v: expected inside=%v, got %v", tc.p, tc.inside, ok)
			continue
		}

		if ok && (x != tc.x || y != tc.y) {
			t.Errorf("Point %v: expected cell (%d,%d), got (%d,%d)", tc.p, tc.x, tc.y, x, y)
		}
	}
}

func TestScalerIndependentAxes(t *testing.T) {

	s := NewScaler(800, 600, 80, 120)
	m := s.Map(Pt(400, 300))

	if m != Pt(40, 60) {
		t.Errorf("Expected (40,60), got %v", m)
	}
}

func TestScalerInvalidPanics(t *testing.T) {

	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic for negative grid size")
		}
	}()

	NewScaler(800, 600, -1, 10)
}

func TestPlaneProject(t *testing.T) {

	p := NewPlane(800, 600, 1000, 500, 0.1)

	if got := p.Project(Pt(0, 0)); got != Pt(100, 50) {
		t.Errorf("Expected origin at margin (100,50), got %v", got)
	}

	if got := p.Project(Pt(800, 600)); got != Pt(900, 450) {
		t.Errorf("Expected far corner at (900,450), got %v", got)
	}

	if got := p.Field(); got != image.Rect(100, 50, 900, 450) {
		t.Errorf("Expected field rect (100,50)-(900,450), got %v", got)
	}
}
