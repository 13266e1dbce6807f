package result

import "github.com/swdee/go-pitchtrack/geometry"

// DetectResult defines the attributes of a single object detected in a frame
type DetectResult struct {
	// Class is the line number in the labels file the Model was trained on
	// defining the Class of the detected object
	Class int
	// Box is the bounding box of the object in source video pixels
	Box geometry.Box
	// Probability is the confidence score of the object detected
	Probability float32
	// ID is a unique ID assigned to the detection result
	ID int64
}

// DetectionResult is implemented by model post processors returning boxes
type DetectionResult interface {
	GetDetectResults() []DetectResult
}

// Results is a plain slice of detections satisfying DetectionResult
type Results []DetectResult

// GetDetectResults returns the detections
func (r Results) GetDetectResults() []DetectResult {
	return r
}
