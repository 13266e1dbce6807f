package postprocess

import (
	"cmp"
	"math"
	"slices"
)

// clamp restricts val to be within the range min and max
func clamp(val, min, max float32) float32 {

	if val > min {

		if val < max {
			return val
		}

		return max
	}

	return min
}

// sortIndiceInverse returns the candidate indices ordered by descending
// probability, candidates with equal probability keep their input order
func sortIndiceInverse(probs []float32) []int {

	indices := make([]int, len(probs))

	for i := range indices {
		indices[i] = i
	}

	slices.SortStableFunc(indices, func(a, b int) int {
		return cmp.Compare(probs[b], probs[a])
	})

	return indices
}

// nms implements a class aware Non-Maximum Suppression (NMS) algorithm.
// Boxes are given as x, y, width, height quadruples and order is the
// candidate order by descending probability.  Suppressed entries in order
// are set to -1.
func nms(boxes []float32, classIds, order []int, threshold float32) {

	for i := 0; i < len(order); i++ {

		if order[i] == -1 {
			continue
		}

		n := order[i]

		for j := i + 1; j < len(order); j++ {
			m := order[j]

			if m == -1 || classIds[m] != classIds[n] {
				continue
			}

			xmin0 := boxes[n*4+0]
			ymin0 := boxes[n*4+1]
			xmax0 := xmin0 + boxes[n*4+2]
			ymax0 := ymin0 + boxes[n*4+3]

			xmin1 := boxes[m*4+0]
			ymin1 := boxes[m*4+1]
			xmax1 := xmin1 + boxes[m*4+2]
			ymax1 := ymin1 + boxes[m*4+3]

			iou := calculateOverlap(xmin0, ymin0, xmax0, ymax0, xmin1, ymin1, xmax1, ymax1)

			if iou > threshold {
				order[j] = -1
			}
		}
	}
}

// calculateOverlap works out the Intersection of Union (IoU) value of two
// boxes dimensions
func calculateOverlap(xmin0, ymin0, xmax0, ymax0, xmin1, ymin1,
	xmax1, ymax1 float32) float32 {

	w := math.Max(0.0, math.Min(float64(xmax0), float64(xmax1))-math.Max(float64(xmin0), float64(xmin1))+1.0)
	h := math.Max(0.0, math.Min(float64(ymax0), float64(ymax1))-math.Max(float64(ymin0), float64(ymin1))+1.0)
	intersection := w * h

	// area of both rectangles with added 1.0 for inclusive pixel calculation
	area0 := (xmax0 - xmin0 + 1) * (ymax0 - ymin0 + 1)
	area1 := (xmax1 - xmin1 + 1) * (ymax1 - ymin1 + 1)

	union := area0 + area1 - float32(intersection)

	if union <= 0 {
		return 0.0
	}

	return float32(intersection) / union
}
