package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/Desmondgtx/Effort-Task/protocol"
)

const (
	optionImageSize = 550
	selectionPad    = 25
	selectionWidth  = 5
	spinnerDots     = 12
	spinnerRadius   = 50
	spinnerDot      = 8
)

func (d *Display) Slide(ctx context.Context, req protocol.SlideRequest) error {
	if err := d.flush(ctx); err != nil {
		return err
	}
	words := highlightWords(d.params)
	cx := d.w / 2

	return d.loop(ctx, req.Limit, func(f *frame) bool {
		var row float32
		if len(req.Images) > 0 {
			row = d.h / 8
		} else {
			row = d.h/2 - float32(20*len(req.Lines))
		}
		for _, line := range req.Lines {
			d.drawLine(line, words, cx, row)
			row += lineStep
		}
		d.drawSlideImages(req.Images, row+lineStep)
		if !req.NoFooter {
			d.drawFooter(footerSpace)
		}
		return f.released(sdl.K_SPACE)
	})
}

// drawSlideImages places one image at half screen height, or up to two
// side by side at half screen width each with a third centred below.
func (d *Display) drawSlideImages(images []string, top float32) {
	if len(images) == 0 {
		return
	}
	if len(images) == 1 {
		e := d.cache.Image(d.renderer, d.mediaPath(images[0]))
		if e.Texture == nil || e.H == 0 {
			return
		}
		h := d.h / 2
		w := h * e.W / e.H
		r := sdl.FRect{X: d.w/2 - w/2, Y: top, W: w, H: h}
		d.renderer.RenderTexture(e.Texture, nil, &r)
		return
	}

	bottom := top
	for i, name := range images {
		e := d.cache.Image(d.renderer, d.mediaPath(name))
		if e.Texture == nil || e.W == 0 {
			continue
		}
		w := d.w / 2
		h := w * e.H / e.W
		var r sdl.FRect
		switch i {
		case 0, 1:
			r = sdl.FRect{X: float32(1+2*i)*d.w/4 - w/2, Y: top, W: w, H: h}
			bottom = max(bottom, top+h)
		default:
			r = sdl.FRect{X: d.w/2 - w/2, Y: bottom + 20, W: w, H: h}
		}
		d.renderer.RenderTexture(e.Texture, nil, &r)
	}
}

func (d *Display) Banner(ctx context.Context, lines []string, accent protocol.Beneficiary, limit time.Duration) error {
	if err := d.flush(ctx); err != nil {
		return err
	}
	cx := d.w / 2
	return d.loop(ctx, limit, func(f *frame) bool {
		row := d.h/2 - 120
		if accent != "" && len(lines) >= 2 {
			d.drawTextTop(lines[0], sizeBanner, d.cfg.TextColor, cx, row)
			d.drawTextTop(lines[1], sizeCueName, beneficiaryColor(accent, d.cfg.TextColor), cx, row+120)
		} else {
			for _, line := range lines {
				d.drawTextTop(line, sizeBanner, colorYellow, cx, row)
				row += 120
			}
		}
		return f.released(sdl.K_SPACE)
	})
}

func (d *Display) Loading(ctx context.Context, total time.Duration) error {
	cx, cy := d.w/2, d.h/2
	return d.loop(ctx, total, func(f *frame) bool {
		d.drawText("Cargando...", 40, colorWhite, cx, cy-100)

		// 5 degrees per 60 Hz frame.
		angle := float64(f.elapsed.Milliseconds()) * 0.3
		for i := 0; i < spinnerDots; i++ {
			a := (angle + float64(i*30)) * math.Pi / 180
			x := cx + spinnerRadius*float32(math.Cos(a))
			y := cy + spinnerRadius*float32(math.Sin(a))
			shade := uint8(255 * (1 - float64(i)/spinnerDots))
			d.fillCircle(x, y, spinnerDot, sdl.Color{R: shade, G: shade, B: shade, A: 255})
		}

		pct := int(min(100, 100*f.elapsed.Seconds()/total.Seconds()))
		d.drawText(strconv.Itoa(pct)+"%", 40, colorWhite, cx, cy+100)
		return false
	})
}

func (d *Display) EffortPreview(ctx context.Context, percent int) error {
	if err := d.flush(ctx); err != nil {
		return err
	}
	cx, cy := d.w/2, d.h/2
	size := min(optionImageSize, d.h*0.6)
	return d.loop(ctx, 0, func(f *frame) bool {
		d.drawText("Nivel de esfuerzo", sizeOption, d.cfg.TextColor, cx, d.h/3)
		if _, ok := d.drawImageFit(effortImage(percent, protocol.Self), cx, cy, size); !ok {
			d.fallbackDisc(cx, cy, size*0.64, fmt.Sprintf("%d%%", percent), colorSelf)
		}
		d.drawText("Presiona Espacio para continuar", sizeBody, d.cfg.TextColor, cx, d.h*2/3)
		return f.released(sdl.K_SPACE)
	})
}

func effortImage(percent int, b protocol.Beneficiary) string {
	suffix := "self"
	switch b {
	case protocol.InGroup:
		suffix = "other"
	case protocol.OutGroup:
		suffix = "group"
	}
	return fmt.Sprintf("%d_%s.png", percent, suffix)
}

func (d *Display) Rest(ctx context.Context, title string, b protocol.Beneficiary, total time.Duration) error {
	color := beneficiaryColor(b, colorOutGroup)
	return d.loop(ctx, total, func(f *frame) bool {
		d.drawText(title, 42, color, d.w/2, d.h/10)
		d.drawText("DESCANSO", sizeBanner, d.cfg.TextColor, d.w/2, d.h/2)
		return false
	})
}

// Lockout shows a blank screen and swallows input for the duration.
func (d *Display) Lockout(ctx context.Context, total time.Duration) error {
	if total <= 0 {
		return d.flush(ctx)
	}
	if err := d.loop(ctx, total, func(*frame) bool { return false }); err != nil {
		return err
	}
	return d.flush(ctx)
}

// decisionLayout is the geometry of one decision screen.
type decisionLayout struct {
	workX, restX, contentY, imageSize float32
}

func (d *Display) Decide(ctx context.Context, s protocol.DecisionScreen) (protocol.DecisionResult, error) {
	if err := d.flush(ctx); err != nil {
		return protocol.DecisionResult{}, err
	}

	lay := decisionLayout{workX: d.w / 4, restX: 3 * d.w / 4, contentY: d.h / 2, imageSize: min(optionImageSize, d.h*0.5)}
	workKey, restKey := "N", "M"
	if !s.WorkOnLeft {
		lay.workX, lay.restX = lay.restX, lay.workX
		workKey, restKey = restKey, workKey
	}
	color := beneficiaryColor(s.Beneficiary, colorOutGroup)
	name := d.params.DisplayName(s.Beneficiary)

	var res protocol.DecisionResult
	var selected sdl.FRect
	err := d.loop(ctx, s.Limit, func(f *frame) bool {
		if head, ok := strings.CutSuffix(s.Title, name); ok && head != "" {
			d.drawText(strings.TrimSpace(head), sizeTitle, color, d.w/2, d.h/6)
			d.drawText(name, sizeTitle, color, d.w/2, d.h/6+100)
		} else {
			d.drawText(s.Title, sizeTitle, color, d.w/2, d.h/6)
		}

		workText := d.drawText(fmt.Sprintf("%d créditos", s.Credits), sizeOption, color, lay.workX, lay.contentY-130)
		workImg, ok := d.drawImageFit(effortImage(s.EffortPercent, s.Beneficiary), lay.workX, lay.contentY+20, lay.imageSize)
		if !ok {
			workImg = d.fallbackDisc(lay.workX, lay.contentY+20, lay.imageSize, fmt.Sprintf("%d%%", s.EffortPercent), color)
		}

		restText := d.drawText(restLabel(s.RestCredits), sizeOption, color, lay.restX, lay.contentY-130)
		restImg, ok := d.drawImageFit("Rest.png", lay.restX, lay.contentY+20, lay.imageSize)
		if !ok {
			restImg = d.fallbackDisc(lay.restX, lay.contentY+20, lay.imageSize, "Descanso", color)
		}

		if s.ShowKeys {
			d.drawTextTop(workKey, 60, color, lay.workX, lay.contentY+210)
			d.drawTextTop(restKey, 60, color, lay.restX, lay.contentY+210)
			d.drawText("Presiona N para la opción izquierda o M para la opción derecha", sizeSmall, d.cfg.TextColor, d.w/2, d.h*0.89)
		}

		if res.Side == protocol.SideNone {
			var side protocol.Side
			switch {
			case f.released(sdl.K_N):
				side = protocol.SideLeft
			case f.released(sdl.K_M):
				side = protocol.SideRight
			}
			if side != protocol.SideNone {
				res = protocol.DecisionResult{Side: side, RT: f.elapsed}
				if s.OnResponse != nil {
					s.OnResponse(side, f.elapsed)
				}
				workChosen := (side == protocol.SideLeft) == s.WorkOnLeft
				if workChosen {
					selected = selectionBox(workText, workImg)
				} else {
					selected = selectionBox(restText, restImg)
				}
			}
		}
		if res.Side != protocol.SideNone {
			d.strokeRect(selected, selectionWidth, colorBlack)
		}
		return false
	})
	return res, err
}

func restLabel(n int) string {
	if n == 1 {
		return "1 crédito"
	}
	return fmt.Sprintf("%d créditos", n)
}

// selectionBox surrounds an option's label and image.
func selectionBox(text, image sdl.FRect) sdl.FRect {
	top := min(text.Y, image.Y)
	bottom := max(text.Y+text.H, image.Y+image.H)
	return sdl.FRect{
		X: image.X - selectionPad,
		Y: top - selectionPad,
		W: image.W + 2*selectionPad,
		H: bottom - top + 2*selectionPad,
	}
}
