package render

import (
	"image"
	"image/color"
	"math"

	"github.com/swdee/go-pitchtrack/geometry"
	"gocv.io/x/gocv"
)

// Markings are the pitch lines laid out on a plane canvas
type Markings struct {
	Outline      image.Rectangle
	CenterTop    image.Point
	CenterBottom image.Point
	CenterSpot   image.Point
	CircleRadius int
	LeftPenalty  image.Rectangle
	RightPenalty image.Rectangle
}

// PitchMarkings calculates the pitch markings for the plane.  The penalty
// areas span a fifth of the field width and half its height.
func PitchMarkings(plane geometry.Plane) Markings {

	field := plane.Field()
	w, h := plane.Size()

	fieldW := float64(field.Dx())
	fieldH := float64(field.Dy())

	cx := w / 2
	cy := h / 2

	penaltyW := int(fieldW * 0.2)
	penaltyH := fieldH * 0.5
	penaltyTop := int((float64(h) - penaltyH) / 2)
	penaltyBottom := penaltyTop + int(penaltyH)

	return Markings{
		Outline:      field,
		CenterTop:    image.Pt(cx, field.Min.Y),
		CenterBottom: image.Pt(cx, field.Max.Y),
		CenterSpot:   image.Pt(cx, cy),
		CircleRadius: int(math.Min(fieldW, fieldH) * 0.15),
		LeftPenalty: image.Rect(field.Min.X, penaltyTop,
			field.Min.X+penaltyW, penaltyBottom),
		RightPenalty: image.Rect(field.Max.X-penaltyW, penaltyTop,
			field.Max.X, penaltyBottom),
	}
}

// PitchStyle defines the colours of the pitch views
type PitchStyle struct {
	Grass         color.RGBA
	Lines         color.RGBA
	LineThickness int
	// Track is the colour of the movement line and current position marker
	Track          color.RGBA
	TrackThickness int
	MarkerRadius   int
}

// DefaultPitchStyle returns white markings on green grass with a red
// movement track
func DefaultPitchStyle() PitchStyle {
	return PitchStyle{
		Grass:          PitchGreen,
		Lines:          White,
		LineThickness:  2,
		Track:          Red,
		TrackThickness: 2,
		MarkerRadius:   5,
	}
}

// NewPitch returns a new canvas of the plane size with the pitch drawn on
// it.  The caller must Close the returned Mat.
func NewPitch(plane geometry.Plane, style PitchStyle) gocv.Mat {
	w, h := plane.Size()
	img := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	Pitch(&img, plane, style)
	return img
}

// Pitch paints the grass and pitch markings over the whole canvas
func Pitch(img *gocv.Mat, plane geometry.Plane, style PitchStyle) {

	img.SetTo(gocv.NewScalar(float64(style.Grass.B), float64(style.Grass.G),
		float64(style.Grass.R), 0))

	m := PitchMarkings(plane)
	t := style.LineThickness

	gocv.Rectangle(img, m.Outline, style.Lines, t)
	gocv.Line(img, m.CenterTop, m.CenterBottom, style.Lines, t)
	gocv.Circle(img, m.CenterSpot, m.CircleRadius, style.Lines, t)
	gocv.Rectangle(img, m.LeftPenalty, style.Lines, t)
	gocv.Rectangle(img, m.RightPenalty, style.Lines, t)
}

// PlaneTrail projects the detector-space positions onto the pitch plane and
// draws the movement line with a marker on the current position.  Fewer than
// two positions draws nothing.
func PlaneTrail(img *gocv.Mat, plane geometry.Plane, points []geometry.Point,
	style PitchStyle) {

	if len(points) < 2 {
		return
	}

	prev := toPt(plane.Project(points[0]))

	for _, p := range points[1:] {
		next := toPt(plane.Project(p))
		gocv.Line(img, prev, next, style.Track, style.TrackThickness)
		prev = next
	}

	gocv.Circle(img, prev, style.MarkerRadius, style.Track, -1)
	gocv.Circle(img, prev, style.MarkerRadius, White, 1)
}
