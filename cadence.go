package pitchtrack

import "fmt"

const (
	// DefaultDetectEvery runs the detector on every second frame
	DefaultDetectEvery = 2
	// DefaultRefreshEvery redraws the trail and heatmap views every fifth
	// frame
	DefaultRefreshEvery = 5
)

// Cadence selects every Nth frame for processing
type Cadence struct {
	every int
}

// NewCadence returns a Cadence selecting frames divisible by every
func NewCadence(every int) Cadence {

	if every <= 0 {
		panic(fmt.Sprintf("pitchtrack: cadence must be positive, got %d", every))
	}

	return Cadence{every: every}
}

// Every returns the cadence interval in frames
func (c Cadence) Every() int {
	return c.every
}

// Due returns true if the frame index falls on the cadence
func (c Cadence) Due(frame int) bool {
	return frame%c.every == 0
}
