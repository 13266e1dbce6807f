package preprocess

import "github.com/swdee/go-pitchtrack/geometry"

// Letterbox holds the scale and padding used to fit a source frame inside a
// model input while keeping its aspect ratio
type Letterbox struct {
	// srcWidth and srcHeight are the source frame dimensions
	srcWidth, srcHeight int
	// destWidth and destHeight are the model input dimensions
	destWidth, destHeight int
	// letterbox parameters used in scaling
	xPad  int
	yPad  int
	scale float32
	// resize dimensions
	resizeW int
	resizeH int
}

// NewLetterbox calculates the letterbox for scaling a source frame into the
// destination size
func NewLetterbox(srcWidth, srcHeight, destWidth, destHeight int) Letterbox {

	l := Letterbox{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		resizeW:    destWidth,
		resizeH:    destHeight,
	}

	scaleW := float32(destWidth) / float32(srcWidth)
	scaleH := float32(destHeight) / float32(srcHeight)
	l.scale = scaleH

	if scaleW < scaleH {
		l.scale = scaleW
		l.resizeH = int(float32(srcHeight) * l.scale)
	} else {
		l.resizeW = int(float32(srcWidth) * l.scale)
	}

	l.yPad = (destHeight - l.resizeH) / 2 // padding height / 2
	l.xPad = (destWidth - l.resizeW) / 2  // padding width / 2

	return l
}

// ScaleFactor returns the scale factor used in letterbox resize
func (l Letterbox) ScaleFactor() float32 {
	return l.scale
}

// XPad returns the x padding used in letterbox resize
func (l Letterbox) XPad() int {
	return l.xPad
}

// YPad returns the y padding used in letterbox resize
func (l Letterbox) YPad() int {
	return l.yPad
}

// SrcWidth returns the width of the source image
func (l Letterbox) SrcWidth() int {
	return l.srcWidth
}

// SrcHeight returns the height of the source image
func (l Letterbox) SrcHeight() int {
	return l.srcHeight
}

// Unmap converts a point in model input coordinates back to the source frame
func (l Letterbox) Unmap(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: (p.X - float64(l.xPad)) / float64(l.scale),
		Y: (p.Y - float64(l.yPad)) / float64(l.scale),
	}
}
