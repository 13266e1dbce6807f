package motion

import (
	"fmt"
	"strings"
	"time"

	"github.com/swdee/go-pitchtrack/geometry"
)

// Readout is the text summary shown for the selected identity
type Readout struct {
	Identity    int64
	Time        time.Duration
	HasTime     bool
	Position    geometry.Point
	Velocity    float64
	HasVelocity bool
}

// Lines returns the readout as display lines
func (r Readout) Lines() []string {

	x, y := r.Position.Int()

	clock := "--:--"

	if r.HasTime {
		clock = Clock(r.Time)
	}

	lines := []string{
		fmt.Sprintf("Player ID: %d", r.Identity),
		fmt.Sprintf("Time: %s", clock),
		fmt.Sprintf("Position: (%d, %d)", x, y),
	}

	if r.HasVelocity {
		lines = append(lines, fmt.Sprintf("Velocity: %.1f px/s", r.Velocity))
	}

	return lines
}

// String returns the readout lines joined by newlines
func (r Readout) String() string {
	return strings.Join(r.Lines(), "\n")
}
