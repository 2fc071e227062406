package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/Desmondgtx/Effort-Task/protocol"
)

const (
	barWidth       = 100
	barHeight      = 400
	barBorder      = 3
	boxHBorder     = 10
	boxVBorder     = 20
	calibrationTip = "Presiona la barra espaciadora repetidamente para llenar la barra"
)

// pressCounter tracks responses on an effort screen.
type pressCounter struct {
	target int
	count  int
	res    protocol.EffortResult
}

func (p *pressCounter) press(at time.Duration) {
	p.count++
	if !p.res.HasFirst {
		p.res.FirstPress, p.res.HasFirst = at, true
	}
}

func (p *pressCounter) result() protocol.EffortResult {
	p.res.Count = p.count
	p.res.Reached = p.count >= p.target
	return p.res
}

func (d *Display) Effort(ctx context.Context, s protocol.EffortScreen) (protocol.EffortResult, error) {
	if err := d.flush(ctx); err != nil {
		return protocol.EffortResult{}, err
	}
	if s.Mode == protocol.EffortBoxes {
		return d.effortBoxes(ctx, s)
	}
	return d.effortBar(ctx, s)
}

func (d *Display) effortBar(ctx context.Context, s protocol.EffortScreen) (protocol.EffortResult, error) {
	pc := &pressCounter{target: s.Target}
	titleColor := beneficiaryColor(s.Beneficiary, d.cfg.TextColor)
	bar := sdl.FRect{X: d.w/2 - barWidth/2, Y: d.h/2 - barHeight/2, W: barWidth, H: barHeight}

	err := d.loop(ctx, s.Limit, func(f *frame) bool {
		done := false
		for _, k := range f.keysUp {
			switch k {
			case sdl.K_SPACE:
				if pc.count < pc.target {
					pc.press(f.elapsed)
					pc.res.LastPress, pc.res.HasLast = f.elapsed, true
				}
				if pc.count >= pc.target {
					done = true
				}
			case sdl.K_C:
				done = true
			}
		}

		d.drawText(s.Title, sizeSmall, titleColor, d.w/2, d.h/8)
		if s.Calibration {
			d.drawText(calibrationTip, sizeFooter, d.cfg.TextColor, d.w/2, d.h-60)
		}

		d.setColor(colorBarEmpty)
		d.renderer.RenderFillRect(&bar)
		if fill := barFill(pc.count, pc.target, barHeight); fill > 0 {
			filled := sdl.FRect{X: bar.X, Y: bar.Y + bar.H - fill, W: bar.W, H: fill}
			d.setColor(colorYellow)
			d.renderer.RenderFillRect(&filled)
		}
		d.strokeRect(bar, barBorder, colorBlack)
		return done
	})
	return pc.result(), err
}

// barFill is the filled height for count of target presses.
func barFill(count, target int, height float32) float32 {
	if target <= 0 || count <= 0 {
		return 0
	}
	fill := height * float32(count) / float32(target)
	return min(fill, height)
}

func (d *Display) effortBoxes(ctx context.Context, s protocol.EffortScreen) (protocol.EffortResult, error) {
	pc := &pressCounter{target: s.Target}
	rows := protocol.OptimalRows(s.Target)
	boxes := protocol.GridLayout(s.Target, rows, d.w, d.h, boxHBorder, boxVBorder)
	pressed := make([]bool, len(boxes))
	titleY := d.h / float32((rows+1)*2)
	titleColor := beneficiaryColor(s.Beneficiary, colorOutGroup)

	sdl.ShowCursor()
	defer sdl.HideCursor()

	err := d.loop(ctx, s.Limit, func(f *frame) bool {
		done := f.released(sdl.K_C)
		for _, c := range f.clicks {
			for i, b := range boxes {
				if pressed[i] || !b.Contains(c[0], c[1]) {
					continue
				}
				pressed[i] = true
				pc.press(f.elapsed)
				if pc.count == pc.target {
					pc.res.LastPress, pc.res.HasLast = f.elapsed, true
					done = true
				}
			}
		}

		d.drawText(s.Title, sizeSmall, titleColor, d.w/2, titleY)
		remaining := int((s.Limit - f.elapsed + time.Second - 1) / time.Second)
		d.drawText(strconv.Itoa(max(remaining, 0))+" s", sizeSmall, d.cfg.TextColor, d.w*0.9, titleY)

		for i, b := range boxes {
			r := sdl.FRect{X: b.X, Y: b.Y, W: b.W, H: b.H}
			if pressed[i] {
				d.setColor(colorPressed)
			} else {
				d.setColor(colorWhite)
			}
			d.renderer.RenderFillRect(&r)
			d.drawText(strconv.Itoa(i+1), sizeSmall, colorBlack, b.X+b.W/2, b.Y+b.H/2)
		}
		return done
	})
	return pc.result(), err
}
