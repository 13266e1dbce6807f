package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-pitchtrack"
	"github.com/swdee/go-pitchtrack/geometry"
	"github.com/swdee/go-pitchtrack/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as that of the identity.  If set to false then use
	// the color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame defines if the color of the current position circle should
	// be the same color as that of the identity.  If set to false then use
	// the color specified at CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
	// MaxPoints limits the trail to the most recent points, zero draws the
	// whole history
	MaxPoints int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
		MaxPoints:     60,
	}
}

// Trails draws the trail line of every tracked identity on the video frame.
// History returns the positions to draw for an identity.
func Trails(img *gocv.Mat, tracked []pitchtrack.Tracked,
	history func(tracker.Identity) []geometry.Point, style TrailStyle) {

	for _, tr := range tracked {
		Trail(img, history(tr.Identity), ColorFor(tr.Identity), style)
	}
}

// Trail draws one trail line through points with a circle on the last one
func Trail(img *gocv.Mat, points []geometry.Point, objClr color.RGBA,
	style TrailStyle) {

	if style.MaxPoints > 0 && len(points) > style.MaxPoints {
		points = points[len(points)-style.MaxPoints:]
	}

	if len(points) < 2 {
		return
	}

	// determine style colors to use
	lineClr := objClr
	circleClr := objClr

	if !style.LineSame {
		lineClr = style.LineColor
	}

	if !style.CircleSame {
		circleClr = style.CircleColor
	}

	for i := 1; i < len(points); i++ {
		gocv.Line(img, toPt(points[i-1]), toPt(points[i]), lineClr,
			style.LineThickness)
	}

	gocv.Circle(img, toPt(points[len(points)-1]), style.CircleRadius, circleClr, -1)
}

// toPt converts a position to integer image coordinates
func toPt(p geometry.Point) image.Point {
	x, y := p.Int()
	return image.Pt(x, y)
}
