package engine

import (
	"testing"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/stretchr/testify/assert"

	"github.com/Desmondgtx/Effort-Task/protocol"
)

func TestPressCounter(t *testing.T) {
	pc := &pressCounter{target: 3}
	assert.Equal(t, protocol.EffortResult{}, pc.result())

	pc.press(200 * time.Millisecond)
	pc.press(400 * time.Millisecond)
	res := pc.result()
	assert.Equal(t, 2, res.Count)
	assert.False(t, res.Reached)
	assert.True(t, res.HasFirst)
	assert.Equal(t, 200*time.Millisecond, res.FirstPress)

	pc.press(700 * time.Millisecond)
	res = pc.result()
	assert.True(t, res.Reached)
	assert.Equal(t, 200*time.Millisecond, res.FirstPress, "first press is kept")
}

func TestBarFill(t *testing.T) {
	assert.Equal(t, float32(0), barFill(0, 10, 400))
	assert.Equal(t, float32(200), barFill(5, 10, 400))
	assert.Equal(t, float32(400), barFill(10, 10, 400))
	assert.Equal(t, float32(400), barFill(12, 10, 400), "capped at the bar height")
	assert.Equal(t, float32(0), barFill(3, 0, 400))
}

func TestEffortImage(t *testing.T) {
	assert.Equal(t, "50_self.png", effortImage(50, protocol.Self))
	assert.Equal(t, "65_other.png", effortImage(65, protocol.InGroup))
	assert.Equal(t, "95_group.png", effortImage(95, protocol.OutGroup))
}

func TestRestLabel(t *testing.T) {
	assert.Equal(t, "1 crédito", restLabel(1))
	assert.Equal(t, "2 créditos", restLabel(2))
}

func TestSelectionBox(t *testing.T) {
	text := sdl.FRect{X: 120, Y: 100, W: 60, H: 40}
	image := sdl.FRect{X: 100, Y: 160, W: 100, H: 100}
	got := selectionBox(text, image)
	assert.Equal(t, sdl.FRect{X: 75, Y: 75, W: 150, H: 210}, got)
}
