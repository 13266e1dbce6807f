package heatmap

import "math"

// truncate is the number of standard deviations the kernel extends to
const truncate = 4.0

// kernel returns a normalised 1D Gaussian kernel of radius int(4*sigma+0.5)
func kernel(sigma float64) []float64 {

	radius := int(truncate*sigma + 0.5)
	k := make([]float64, 2*radius+1)
	sum := 0.0

	for i := -radius; i <= radius; i++ {
		v := math.Exp(-0.5 * float64(i*i) / (sigma * sigma))
		k[i+radius] = v
		sum += v
	}

	for i := range k {
		k[i] /= sum
	}

	return k
}

// reflect maps an out of range index back into [0, n) mirroring about the
// edges with the edge sample repeated (d c b a | a b c d | d c b a)
func reflect(i, n int) int {

	if n == 1 {
		return 0
	}

	period := 2 * n
	i %= period

	if i < 0 {
		i += period
	}

	if i >= n {
		i = period - i - 1
	}

	return i
}

// smooth applies a separable Gaussian blur in place to the row major grid
// data of w columns and h rows
func smooth(data []float64, w, h int, sigma float64) {

	if sigma <= 0 {
		return
	}

	k := kernel(sigma)
	radius := len(k) / 2

	// horizontal pass
	line := make([]float64, max(w, h))

	for y := 0; y < h; y++ {

		row := data[y*w : (y+1)*w]

		if allZero(row) {
			continue
		}

		copy(line, row)

		for x := 0; x < w; x++ {
			acc := 0.0

			for j := -radius; j <= radius; j++ {
				acc += k[j+radius] * line[reflect(x+j, w)]
			}

			row[x] = acc
		}
	}

	// vertical pass
	for x := 0; x < w; x++ {

		for y := 0; y < h; y++ {
			line[y] = data[y*w+x]
		}

		if allZero(line[:h]) {
			continue
		}

		for y := 0; y < h; y++ {
			acc := 0.0

			for j := -radius; j <= radius; j++ {
				acc += k[j+radius] * line[reflect(y+j, h)]
			}

			data[y*w+x] = acc
		}
	}
}

func allZero(v []float64) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}

	return true
}
