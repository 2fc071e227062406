package protocol

import "math"

// pleasantCounts are box counts that lay out as near-square grids.
var pleasantCounts = []int{1, 2, 3, 4, 6, 8, 9, 12, 15, 16, 18, 20, 21, 24, 25, 27, 28, 30, 32, 35, 36, 40, 42, 45, 48, 49, 50}

// OptimalRows returns the number of grid rows for n boxes.
func OptimalRows(n int) int {
	if n <= 1 {
		return 1
	}
	for _, c := range pleasantCounts {
		if c >= n {
			n = c
			break
		}
	}

	best := 1
	for i := 1; i <= int(math.Sqrt(float64(n))); i++ {
		if n%i == 0 {
			best = i
		}
	}
	return best
}

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// GridLayout places n boxes column-major on a w×h screen, leaving the top
// row band free for the title. hborder and vborder are per-box margins.
func GridLayout(n, rows int, w, h, hborder, vborder float32) []Rect {
	if rows < 1 {
		rows = 1
	}
	columns := (n + rows - 1) / rows
	if columns < 1 {
		columns = 1
	}
	cellW := w / float32(columns)
	cellH := h / float32(rows+1)

	boxes := make([]Rect, n)
	for i := 0; i < n; i++ {
		col := i / rows
		row := i%rows + 1
		boxes[i] = Rect{
			X: cellW*float32(col) + hborder,
			Y: cellH*float32(row) + vborder,
			W: cellW - 2*hborder,
			H: cellH - 2*vborder,
		}
	}
	return boxes
}
