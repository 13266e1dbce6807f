package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Resizer letterbox resizes video frames to the model input size
type Resizer struct {
	Letterbox
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
}

// NewResizer returns a resizer used for scaling an image to the needed
// dimensions for the model input size
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	return &Resizer{
		Letterbox: NewLetterbox(srcWidth, srcHeight, destWidth, destHeight),
		tempMat:   gocv.NewMat(),
	}
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// LetterBoxResize resizes the input image to the dimensions needed for the
// model input whilst maintaining image aspect.  Color is that used for letter
// box padding.
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, color color.RGBA) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	gocv.CopyMakeBorder(r.tempMat, dest, r.yPad, r.destHeight-r.resizeH-r.yPad,
		r.xPad, r.destWidth-r.resizeW-r.xPad, gocv.BorderConstant, color)
}
