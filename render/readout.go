package render

import (
	"image"

	"github.com/swdee/go-pitchtrack/motion"
	"gocv.io/x/gocv"
)

// Readout draws the readout lines on a dark panel with its top left corner
// at origin
func Readout(img *gocv.Mat, r motion.Readout, origin image.Point, font Font) {
	font.panel(img, r.Lines(), origin, Black)
}
