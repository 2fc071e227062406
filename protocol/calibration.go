package protocol

import "math"

// ceilEpsilon absorbs float error so that 10*1.1 rounds up to 11, not 12.
const ceilEpsilon = 1e-9

// NextCalibrationTarget is the goal of the next calibration round: the best
// count so far scaled by growth, rounded up.
func NextCalibrationTarget(best int, growth float64) int {
	t := int(math.Ceil(float64(best)*growth - ceilEpsilon))
	if t < 1 {
		t = 1
	}
	return t
}

// CalibratedMax is the personal maximum used to scale effort levels.
func CalibratedMax(counts []int, floor int) int {
	m := 0
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	if m < floor {
		m = floor
	}
	return m
}

// PressTargets converts effort percentages into required press counts.
func PressTargets(max int, levels []int) []int {
	targets := make([]int, len(levels))
	for i, pct := range levels {
		t := (max*pct + 99) / 100
		if t < 1 {
			t = 1
		}
		targets[i] = t
	}
	return targets
}
