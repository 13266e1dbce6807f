package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-pitchtrack/heatmap"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// HeatAlpha is the opacity of heatmap cells drawn over the pitch
const HeatAlpha = 128

// HeatmapImage renders the field as a red ramp image of the field size.
// Cells at or below threshold are left transparent.
func HeatmapImage(f *heatmap.Field, threshold float64) *image.NRGBA {

	w, h := f.Dims()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	f.Each(threshold, func(x, y int, v float64) {
		c := HeatColor(v)
		img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: HeatAlpha})
	})

	return img
}

// ScaleImage resizes src to w x h with bilinear filtering
func ScaleImage(src image.Image, w, h int) *image.NRGBA {

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst
}

// HeatmapOverlay blends the heatmap of the field over a BGR image.  The field
// is scaled to the image size when their dimensions differ.
func HeatmapOverlay(img *gocv.Mat, f *heatmap.Field, threshold float64) error {

	heat := HeatmapImage(f, threshold)

	w, h := img.Cols(), img.Rows()

	if heat.Bounds().Dx() != w || heat.Bounds().Dy() != h {
		heat = ScaleImage(heat, w, h)
	}

	// split into an opaque colour image and a mask from the alpha channel
	opaque := image.NewRGBA(heat.Bounds())
	mask := make([]byte, w*h)
	hasHeat := false

	for i := range mask {
		if heat.Pix[i*4+3] == 0 {
			continue
		}

		copy(opaque.Pix[i*4:i*4+3], heat.Pix[i*4:i*4+3])
		opaque.Pix[i*4+3] = 255
		mask[i] = 255
		hasHeat = true
	}

	if !hasHeat {
		return nil
	}

	colour, err := gocv.ImageToMatRGB(opaque)

	if err != nil {
		return fmt.Errorf("error converting heatmap image: %w", err)
	}

	defer colour.Close()

	maskMat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, mask)

	if err != nil {
		return fmt.Errorf("error creating heatmap mask: %w", err)
	}

	defer maskMat.Close()

	blend := gocv.NewMat()
	defer blend.Close()

	alpha := float64(HeatAlpha) / 255
	gocv.AddWeighted(*img, 1-alpha, colour, alpha, 0, &blend)
	blend.CopyToWithMask(img, maskMat)

	return nil
}
