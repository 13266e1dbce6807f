package postprocess

import (
	"github.com/swdee/go-pitchtrack/geometry"
	"github.com/swdee/go-pitchtrack/postprocess/result"
)

// YOLOv8 defines the struct for YOLOv8 model inference post processing of
// the single [1, 4+classes, anchors] float output exported to ONNX
type YOLOv8 struct {
	// Params are the Model configuration parameters
	Params YOLOv8Params
	// idGen provides the next number for each detection result ID
	idGen *result.IDGenerator
}

// YOLOv8Params defines the struct containing the YOLOv8 parameters to use
// for post processing operations
type YOLOv8Params struct {
	// BoxThreshold is the minimum probability score required for a bounding box
	// region to be considered for processing
	BoxThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// bounding boxes for both to be kept
	NMSThreshold float32
	// ObjectClassNum is the number of different object classes the Model has
	// been trained with
	ObjectClassNum int
	// MaxObjectNumber is the maximum number of objects detected that can be
	// returned
	MaxObjectNumber int
}

// YOLOv8COCOParams returns an instance of YOLOv8Params configured with
// default values for a Model trained on the COCO dataset featuring:
// - Object Classes: 80
// - Box Threshold: 0.25
// - NMS Threshold: 0.45
// - Maximum Object Number: 100
func YOLOv8COCOParams() YOLOv8Params {
	return YOLOv8Params{
		BoxThreshold:    0.25,
		NMSThreshold:    0.45,
		ObjectClassNum:  80,
		MaxObjectNumber: 100,
	}
}

// Letterbox describes how the source image was scaled and padded into the
// model input, preprocess.Resizer satisfies it
type Letterbox interface {
	ScaleFactor() float32
	XPad() int
	YPad() int
	SrcWidth() int
	SrcHeight() int
}

// NewYOLOv8 returns an instance of the YOLOv8 post processor
func NewYOLOv8(p YOLOv8Params) *YOLOv8 {
	return &YOLOv8{
		Params: p,
		idGen:  result.NewIDGenerator(),
	}
}

// OutputSize returns the number of floats expected in the model output for
// the given number of anchors
func (y *YOLOv8) OutputSize(anchors int) int {
	return (4 + y.Params.ObjectClassNum) * anchors
}

// DetectObjects takes the model output laid out as rows of cx, cy, w, h
// followed by one row of scores per class, each row anchors long, and runs
// the object detection process then returns the results in source image
// coordinates
func (y *YOLOv8) DetectObjects(output []float32, anchors int,
	lb Letterbox) result.DetectionResult {

	if anchors <= 0 || len(output) < y.OutputSize(anchors) {
		return result.Results{}
	}

	var filterBoxes []float32
	var objProbs []float32
	var classID []int

	for i := 0; i < anchors; i++ {

		maxScore := y.Params.BoxThreshold
		maxClassID := -1

		for c := 0; c < y.Params.ObjectClassNum; c++ {
			score := output[(4+c)*anchors+i]

			if score > maxScore {
				maxScore = score
				maxClassID = c
			}
		}

		if maxClassID < 0 {
			continue
		}

		cx := output[0*anchors+i]
		cy := output[1*anchors+i]
		w := output[2*anchors+i]
		h := output[3*anchors+i]

		filterBoxes = append(filterBoxes, cx-w/2, cy-h/2, w, h)
		objProbs = append(objProbs, maxScore)
		classID = append(classID, maxClassID)
	}

	if len(objProbs) == 0 {
		// no object detected
		return result.Results{}
	}

	indexArray := sortIndiceInverse(objProbs)

	nms(filterBoxes, classID, indexArray, y.Params.NMSThreshold)

	// collate objects into a result for returning
	group := make(result.Results, 0)

	srcW := float32(lb.SrcWidth())
	srcH := float32(lb.SrcHeight())
	scale := lb.ScaleFactor()

	for _, n := range indexArray {

		if n == -1 || len(group) >= y.Params.MaxObjectNumber {
			continue
		}

		x1 := (filterBoxes[n*4+0] - float32(lb.XPad())) / scale
		y1 := (filterBoxes[n*4+1] - float32(lb.YPad())) / scale
		x2 := x1 + filterBoxes[n*4+2]/scale
		y2 := y1 + filterBoxes[n*4+3]/scale

		group = append(group, result.DetectResult{
			Box: geometry.NewBox(
				float64(clamp(x1, 0, srcW)),
				float64(clamp(y1, 0, srcH)),
				float64(clamp(x2, 0, srcW)),
				float64(clamp(y2, 0, srcH)),
			),
			Probability: objProbs[n],
			Class:       classID[n],
			ID:          y.idGen.GetNext(),
		})
	}

	return group
}
