package protocol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestOptimalRows(t *testing.T) {
	tests := map[int]int{
		0:  1,
		1:  1,
		2:  1,
		5:  2,
		7:  2,
		10: 3,
		16: 4,
		20: 4,
		60: 6,
	}
	for n, want := range tests {
		assert.Equal(t, want, OptimalRows(n), "n=%d", n)
	}
}

func TestGridLayout(t *testing.T) {
	got := GridLayout(4, 2, 400, 300, 10, 20)
	want := []Rect{
		{X: 10, Y: 120, W: 180, H: 60},
		{X: 10, Y: 220, W: 180, H: 60},
		{X: 210, Y: 120, W: 180, H: 60},
		{X: 210, Y: 220, W: 180, H: 60},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GridLayout mismatch (-want +got):\n%s", diff)
	}
}

func TestGridLayoutPartialColumn(t *testing.T) {
	boxes := GridLayout(5, 2, 300, 300, 0, 0)
	assert.Len(t, boxes, 5)
	// Three columns, the last holding one box in the first row.
	assert.Equal(t, float32(200), boxes[4].X)
	assert.Equal(t, float32(100), boxes[4].Y)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(30, 30))
	assert.True(t, r.Contains(15, 25))
	assert.False(t, r.Contains(9, 15))
	assert.False(t, r.Contains(15, 31))
}
