package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Font is the text style of box labels and the readout panel
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	// PadX is the space either side of the text inside its background,
	// PadTop and PadBottom the space above and below each line
	PadX      int
	PadTop    int
	PadBottom int
}

// LabelFont returns the font of the "ID: n" box labels
func LabelFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		PadX:      4,
		PadTop:    4,
		PadBottom: 6,
	}
}

// ReadoutFont returns the larger font of the selected player readout
func ReadoutFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.6,
		Color:     White,
		Thickness: 2,
		PadX:      4,
		PadTop:    8,
		PadBottom: 6,
	}
}

func (f Font) textSize(text string) image.Point {
	return gocv.GetTextSize(text, f.Face, f.Scale, f.Thickness)
}

// lineHeight returns the pixel height of one line of text including padding
func (f Font) lineHeight() int {
	return f.textSize("Ag").Y + f.PadTop + f.PadBottom
}

// panelRect returns the background rectangle of lines drawn from origin
func (f Font) panelRect(lines []string, origin image.Point) image.Rectangle {

	width := 0

	for _, l := range lines {
		width = max(width, f.textSize(l).X)
	}

	return image.Rect(origin.X, origin.Y,
		origin.X+width+2*f.PadX, origin.Y+f.lineHeight()*len(lines))
}

// panel draws the lines on a filled background with its top left corner at
// origin and returns the background rectangle
func (f Font) panel(img *gocv.Mat, lines []string, origin image.Point,
	bg color.RGBA) image.Rectangle {

	rect := f.panelRect(lines, origin)
	gocv.Rectangle(img, rect, bg, -1)

	lh := f.lineHeight()

	for i, l := range lines {
		pos := image.Pt(origin.X+f.PadX, origin.Y+lh*(i+1)-f.PadBottom)
		gocv.PutTextWithParams(img, l, pos, f.Face, f.Scale, f.Color,
			f.Thickness, gocv.LineAA, false)
	}

	return rect
}
