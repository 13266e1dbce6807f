// Package motion derives velocity and elapsed time from trajectory samples
package motion

import (
	"fmt"
	"math"
	"time"

	"github.com/swdee/go-pitchtrack/geometry"
)

// Velocity returns the distance between the last two samples divided by the
// sampling interval in seconds.  The result is undefined, and false is
// returned, when there are fewer than two samples or the interval is not
// positive.
func Velocity(samples []geometry.Point, interval float64) (float64, bool) {

	if len(samples) < 2 || interval <= 0 || math.IsNaN(interval) {
		return 0, false
	}

	n := len(samples)
	return geometry.Distance(samples[n-1], samples[n-2]) / interval, true
}

// Elapsed returns the video time of a frame index at the given frame rate
func Elapsed(frame int, fps float64) (time.Duration, bool) {

	if fps <= 0 || frame < 0 {
		return 0, false
	}

	return time.Duration(float64(frame) * float64(time.Second) / fps), true
}

// Clock formats a duration as mm:ss, minutes are not wrapped at the hour
func Clock(d time.Duration) string {

	if d < 0 {
		d = 0
	}

	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FrameInterval returns the seconds between two consecutive trajectory
// samples when detection runs on every Nth frame
func FrameInterval(fps float64, every int) float64 {

	if fps <= 0 || every <= 0 {
		return 0
	}

	return float64(every) / fps
}
