// Package detect runs a YOLOv8 ONNX model over video frames with the OpenCV
// DNN module and returns object detections in source frame coordinates
package detect

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-pitchtrack/postprocess"
	"github.com/swdee/go-pitchtrack/postprocess/result"
	"github.com/swdee/go-pitchtrack/preprocess"
	"gocv.io/x/gocv"
)

// padColor is the letterbox padding colour YOLO models are trained with
var padColor = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// ErrEmptyFrame is returned when Detect is given an empty Mat
var ErrEmptyFrame = errors.New("detect: empty frame")

// Detector wraps a loaded network and its pre/post processors.  It is not
// safe for concurrent use.
type Detector struct {
	net     gocv.Net
	post    *postprocess.YOLOv8
	resizer *preprocess.Resizer
	padded  gocv.Mat
	inputW  int
	inputH  int
}

// NewDetector loads the ONNX model file.  InputW and InputH are the model
// input dimensions, typically 640x640.
func NewDetector(modelFile string, inputW, inputH int,
	p postprocess.YOLOv8Params) (*Detector, error) {

	if inputW <= 0 || inputH <= 0 {
		return nil, fmt.Errorf("invalid model input size %dx%d", inputW, inputH)
	}

	net := gocv.ReadNetFromONNX(modelFile)

	if net.Empty() {
		return nil, fmt.Errorf("error reading model file: %s", modelFile)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("error setting backend: %w", err)
	}

	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("error setting target: %w", err)
	}

	return &Detector{
		net:    net,
		post:   postprocess.NewYOLOv8(p),
		padded: gocv.NewMat(),
		inputW: inputW,
		inputH: inputH,
	}, nil
}

// Detect runs the model on a BGR frame
func (d *Detector) Detect(img gocv.Mat) (result.DetectionResult, error) {

	if img.Empty() {
		return nil, ErrEmptyFrame
	}

	// the letterbox is recalculated only when the frame size changes
	if d.resizer == nil || d.resizer.SrcWidth() != img.Cols() ||
		d.resizer.SrcHeight() != img.Rows() {

		if d.resizer != nil {
			d.resizer.Close()
		}

		d.resizer = preprocess.NewResizer(img.Cols(), img.Rows(), d.inputW, d.inputH)
	}

	d.resizer.LetterBoxResize(img, &d.padded, padColor)

	blob := gocv.BlobFromImage(d.padded, 1.0/255.0, image.Pt(d.inputW, d.inputH),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	// output is [1, 4+classes, anchors]
	dims := output.Size()

	if len(dims) != 3 || dims[1] != 4+d.post.Params.ObjectClassNum {
		return nil, fmt.Errorf("unexpected model output shape %v for %d classes",
			dims, d.post.Params.ObjectClassNum)
	}

	data, err := output.DataPtrFloat32()

	if err != nil {
		return nil, fmt.Errorf("error reading model output: %w", err)
	}

	return d.post.DetectObjects(data, dims[2], d.resizer), nil
}

// Close frees the network and buffers
func (d *Detector) Close() error {

	var errs []error

	if d.resizer != nil {
		errs = append(errs, d.resizer.Close())
	}

	errs = append(errs, d.padded.Close(), d.net.Close())

	return errors.Join(errs...)
}
