package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextCalibrationTarget(t *testing.T) {
	tests := []struct {
		best   int
		growth float64
		want   int
	}{
		{10, 1.1, 11},
		{50, 1.1, 55},
		{7, 1.1, 8},
		{30, 1.0, 30},
		{0, 1.1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextCalibrationTarget(tt.best, tt.growth), "best=%d growth=%v", tt.best, tt.growth)
	}
}

func TestCalibratedMax(t *testing.T) {
	assert.Equal(t, 30, CalibratedMax([]int{12, 30, 25}, 10))
	assert.Equal(t, 10, CalibratedMax([]int{3, 4}, 10), "floor applies when every round is low")
	assert.Equal(t, 0, CalibratedMax(nil, 0))
}

func TestPressTargets(t *testing.T) {
	assert.Equal(t, []int{25, 33, 40, 48}, PressTargets(50, []int{50, 65, 80, 95}))
	assert.Equal(t, []int{1}, PressTargets(1, []int{50}), "rounds up")
	assert.Equal(t, []int{1}, PressTargets(0, []int{50}), "never below one press")
	assert.Equal(t, []int{30}, PressTargets(30, []int{100}))
}
