package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-pitchtrack"
	"github.com/swdee/go-pitchtrack/tracker"
	"gocv.io/x/gocv"
)

// BoxStyle defines the colours used for identity bounding boxes
type BoxStyle struct {
	// UsePalette gives every identity its own colour, otherwise Color is
	// used for all unselected identities
	UsePalette bool
	Color      color.RGBA
	// SelectedColor is used for the highlighted identity
	SelectedColor color.RGBA
	LineThickness int
}

// DefaultBoxStyle returns blue boxes with the selected identity in red
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		UsePalette:    false,
		Color:         Blue,
		SelectedColor: Red,
		LineThickness: 2,
	}
}

// boxLabel is a label drawn above a box once every box is drawn
type boxLabel struct {
	text   string
	clr    color.RGBA
	origin image.Point
}

// IdentityBoxes renders the bounding boxes and "ID: n" labels of the tracked
// detections.  Selected is the highlighted identity, zero for none.
func IdentityBoxes(img *gocv.Mat, tracked []pitchtrack.Tracked,
	selected tracker.Identity, font Font, style BoxStyle) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(tracked))

	for _, tr := range tracked {

		rect := tr.Detection.Box.Rect()

		useClr := style.Color

		if style.UsePalette {
			useClr = ColorFor(tr.Identity)
		}

		if selected != 0 && tr.Identity == selected {
			useClr = style.SelectedColor
		}

		gocv.Rectangle(img, rect, useClr, style.LineThickness)

		// labels sit on the box top edge aligned with its outer border
		boxLabels = append(boxLabels, boxLabel{
			text:   fmt.Sprintf("ID: %d", tr.Identity),
			clr:    useClr,
			origin: image.Pt(rect.Min.X-style.LineThickness/2, rect.Min.Y-font.lineHeight()),
		})
	}

	// draw all labels last so they are the top most layer and are not
	// overlapped by neighbouring boxes
	for _, l := range boxLabels {
		font.panel(img, []string{l.text}, l.origin, l.clr)
	}
}
