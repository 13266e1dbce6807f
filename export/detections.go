package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/swdee/go-pitchtrack"
	"github.com/swdee/go-pitchtrack/geometry"
	"github.com/swdee/go-pitchtrack/tracker"
)

// detectionHeader is the header row of a detection dump
var detectionHeader = []string{"frame", "x1", "y1", "x2", "y2", "class", "label", "prob"}

// DetectionWriter records the detector output of every processed frame so a
// video can be tracked again without rerunning the model
type DetectionWriter struct {
	cw     *csv.Writer
	header bool
}

// NewDetectionWriter returns a DetectionWriter writing to w
func NewDetectionWriter(w io.Writer) *DetectionWriter {
	return &DetectionWriter{cw: csv.NewWriter(w)}
}

// Write records the detections of one frame
func (d *DetectionWriter) Write(frame int, dets []tracker.Detection) error {

	if !d.header {
		if err := d.cw.Write(detectionHeader); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}

		d.header = true
	}

	for _, det := range dets {
		rec := []string{
			strconv.Itoa(frame),
			formatFloat(det.Box.X1),
			formatFloat(det.Box.Y1),
			formatFloat(det.Box.X2),
			formatFloat(det.Box.Y2),
			strconv.Itoa(det.Class),
			det.Label,
			strconv.FormatFloat(float64(det.Prob), 'f', 4, 32),
		}

		if err := d.cw.Write(rec); err != nil {
			return fmt.Errorf("error writing detection: %w", err)
		}
	}

	return nil
}

// Flush writes any buffered records
func (d *DetectionWriter) Flush() error {
	d.cw.Flush()
	return d.cw.Error()
}

// ReadDetections reads a detection dump grouped into frames in file order.
// Consecutive rows with the same frame index form one frame.
func ReadDetections(r io.Reader) ([]pitchtrack.Frame, error) {

	records, err := readRecords(r, detectionHeader)

	if err != nil {
		return nil, err
	}

	var frames []pitchtrack.Frame

	for i, rec := range records {

		frame, err := strconv.Atoi(rec[0])

		if err != nil {
			return nil, fmt.Errorf("invalid frame on row %d: %w", i+2, err)
		}

		var box [4]float64

		for j := range box {
			if box[j], err = strconv.ParseFloat(rec[1+j], 64); err != nil {
				return nil, fmt.Errorf("invalid box on row %d: %w", i+2, err)
			}
		}

		class, err := strconv.Atoi(rec[5])

		if err != nil {
			return nil, fmt.Errorf("invalid class on row %d: %w", i+2, err)
		}

		prob, err := strconv.ParseFloat(rec[7], 32)

		if err != nil {
			return nil, fmt.Errorf("invalid probability on row %d: %w", i+2, err)
		}

		if len(frames) == 0 || frames[len(frames)-1].Index != frame {
			frames = append(frames, pitchtrack.Frame{Index: frame})
		}

		last := &frames[len(frames)-1]
		last.Detections = append(last.Detections, tracker.NewDetection(
			geometry.NewBox(box[0], box[1], box[2], box[3]),
			class, rec[6], float32(prob), frame))
	}

	return frames, nil
}
