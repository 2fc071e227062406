package engine

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Zyko0/go-sdl3/sdl"
	"go.uber.org/zap"

	"github.com/Desmondgtx/Effort-Task/protocol"
)

// Font sizes in points.
const (
	sizeFooter  = 24
	sizeBody    = 32
	sizeSmall   = 36
	sizeOption  = 48
	sizeTitle   = 72
	sizeBanner  = 90
	sizeCueName = 140
	lineStep    = 40
)

var (
	colorSelf     = sdl.Color{R: 255, G: 0, B: 0, A: 255}
	colorInGroup  = sdl.Color{R: 0, G: 0, B: 255, A: 255}
	colorOutGroup = sdl.Color{R: 0, G: 128, B: 0, A: 255}
	colorYellow   = sdl.Color{R: 255, G: 255, B: 0, A: 255}
	colorWhite    = sdl.Color{R: 255, G: 255, B: 255, A: 255}
	colorBlack    = sdl.Color{R: 0, G: 0, B: 0, A: 255}
	colorBarEmpty = sdl.Color{R: 200, G: 200, B: 200, A: 255}
	colorPressed  = sdl.Color{R: 0, G: 200, B: 0, A: 255}
)

const footerSpace = "Para continuar presione la tecla ESPACIO..."

func beneficiaryColor(b protocol.Beneficiary, fallback sdl.Color) sdl.Color {
	switch b {
	case protocol.Self:
		return colorSelf
	case protocol.InGroup:
		return colorInGroup
	case protocol.OutGroup:
		return colorOutGroup
	}
	return fallback
}

// Display implements protocol.Presenter on an SDL renderer.
type Display struct {
	renderer *sdl.Renderer
	window   *sdl.Window
	cfg      *Config
	params   protocol.Params
	cache    *ResourceCache
	fonts    *Fonts
	log      *zap.Logger
	w, h     float32
}

var _ protocol.Presenter = (*Display)(nil)

func NewDisplay(window *sdl.Window, renderer *sdl.Renderer, cfg *Config, params protocol.Params, fonts *Fonts, log *zap.Logger) *Display {
	d := &Display{
		renderer: renderer,
		window:   window,
		cfg:      cfg,
		params:   params,
		cache:    NewResourceCache(log),
		fonts:    fonts,
		log:      log,
		w:        float32(cfg.ScreenWidth),
		h:        float32(cfg.ScreenHeight),
	}
	if w, h, err := window.Size(); err == nil && w > 0 && h > 0 {
		d.w, d.h = float32(w), float32(h)
	}
	return d
}

func (d *Display) Close() {
	d.cache.Destroy()
}

func (d *Display) clear() {
	bg := d.cfg.BGColor
	d.renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A)
	d.renderer.Clear()
}

func (d *Display) setColor(c sdl.Color) {
	d.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
}

func (d *Display) textEntry(s string, size int, color sdl.Color) *CacheEntry {
	return d.cache.Text(d.renderer, d.fonts.Get(size), size, s, color)
}

// drawText draws s centred on (cx, cy) and returns its bounds.
func (d *Display) drawText(s string, size int, color sdl.Color, cx, cy float32) sdl.FRect {
	e := d.textEntry(s, size, color)
	r := sdl.FRect{X: cx - e.W/2, Y: cy - e.H/2, W: e.W, H: e.H}
	if e.Texture != nil {
		d.renderer.RenderTexture(e.Texture, nil, &r)
	}
	return r
}

// drawTextTop draws s horizontally centred on cx with its top at y.
func (d *Display) drawTextTop(s string, size int, color sdl.Color, cx, y float32) sdl.FRect {
	e := d.textEntry(s, size, color)
	return d.drawText(s, size, color, cx, y+e.H/2)
}

func (d *Display) drawFooter(s string) {
	e := d.textEntry(s, sizeFooter, d.cfg.TextColor)
	if e.Texture == nil {
		return
	}
	r := sdl.FRect{X: 15, Y: d.h - 15 - e.H, W: e.W, H: e.H}
	d.renderer.RenderTexture(e.Texture, nil, &r)
}

func (d *Display) mediaPath(name string) string {
	return filepath.Join(d.cfg.MediaDir, name)
}

// drawImageFit draws a media image scaled so its longer side is size,
// centred on (cx, cy). It reports false when the image is unavailable.
func (d *Display) drawImageFit(name string, cx, cy, size float32) (sdl.FRect, bool) {
	e := d.cache.Image(d.renderer, d.mediaPath(name))
	if e.Texture == nil || e.W == 0 || e.H == 0 {
		return sdl.FRect{}, false
	}
	scale := size / max(e.W, e.H)
	r := sdl.FRect{W: e.W * scale, H: e.H * scale}
	r.X, r.Y = cx-r.W/2, cy-r.H/2
	d.renderer.RenderTexture(e.Texture, nil, &r)
	return r, true
}

func (d *Display) fillCircle(cx, cy, radius float32, color sdl.Color) {
	d.setColor(color)
	for dy := -radius; dy <= radius; dy++ {
		dx := float32(math.Sqrt(float64(radius*radius - dy*dy)))
		d.renderer.RenderLine(cx-dx, cy+dy, cx+dx, cy+dy)
	}
}

func (d *Display) strokeCircle(cx, cy, radius, width float32, color sdl.Color) {
	const segments = 96
	d.setColor(color)
	for k := float32(0); k < width; k++ {
		r := radius - k
		for i := 0; i < segments; i++ {
			a0 := 2 * math.Pi * float64(i) / segments
			a1 := 2 * math.Pi * float64(i+1) / segments
			d.renderer.RenderLine(
				cx+r*float32(math.Cos(a0)), cy+r*float32(math.Sin(a0)),
				cx+r*float32(math.Cos(a1)), cy+r*float32(math.Sin(a1)),
			)
		}
	}
}

func (d *Display) strokeRect(r sdl.FRect, width float32, color sdl.Color) {
	d.setColor(color)
	for k := float32(0); k < width; k++ {
		rr := sdl.FRect{X: r.X + k, Y: r.Y + k, W: r.W - 2*k, H: r.H - 2*k}
		d.renderer.RenderRect(&rr)
	}
}

// fallbackDisc stands in for a missing option image.
func (d *Display) fallbackDisc(cx, cy, size float32, label string, color sdl.Color) sdl.FRect {
	radius := size / 2
	d.fillCircle(cx, cy, radius, colorWhite)
	d.strokeCircle(cx, cy, radius, 2, color)
	d.drawText(label, sizeFooter, color, cx, cy)
	return sdl.FRect{X: cx - radius, Y: cy - radius, W: size, H: size}
}

// frame is what one loop iteration saw.
type frame struct {
	keysUp  []sdl.Keycode
	clicks  [][2]float32
	elapsed time.Duration
}

func (f frame) released(k sdl.Keycode) bool {
	for _, key := range f.keysUp {
		if key == k {
			return true
		}
	}
	return false
}

// pump drains pending events. Escape and window close abort the session.
func (d *Display) pump(ctx context.Context, f *frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		switch ev.Type {
		case sdl.EVENT_QUIT:
			return protocol.ErrAborted
		case sdl.EVENT_KEY_DOWN:
			if ev.KeyboardEvent().Key == sdl.K_ESCAPE {
				return protocol.ErrAborted
			}
		case sdl.EVENT_KEY_UP:
			if f != nil {
				f.keysUp = append(f.keysUp, ev.KeyboardEvent().Key)
			}
		case sdl.EVENT_MOUSE_BUTTON_DOWN:
			if f != nil {
				me := ev.MouseButtonEvent()
				f.clicks = append(f.clicks, [2]float32{me.X, me.Y})
			}
		}
	}
	return nil
}

// flush discards queued input so presses made before a screen do not
// count on it.
func (d *Display) flush(ctx context.Context) error {
	return d.pump(ctx, nil)
}

// loop redraws every frame until step returns true or limit elapses. A
// zero limit waits for step alone.
func (d *Display) loop(ctx context.Context, limit time.Duration, step func(f *frame) bool) error {
	start := sdl.Ticks()
	for {
		f := frame{}
		if err := d.pump(ctx, &f); err != nil {
			return err
		}
		f.elapsed = time.Duration(sdl.Ticks()-start) * time.Millisecond

		d.clear()
		done := step(&f)
		d.renderer.Present()
		if done {
			return nil
		}
		if limit > 0 && f.elapsed >= limit {
			return nil
		}
		if !d.cfg.VSync {
			sdl.Delay(1)
		}
	}
}

// segment is a run of text drawn in one colour.
type segment struct {
	text  string
	color sdl.Color
}

// colorSegments splits line so every occurrence of a highlighted word
// gets its own colour. Longer words win when they overlap.
func colorSegments(line string, words map[string]sdl.Color, base sdl.Color) []segment {
	var out []segment
	rest := line
	for rest != "" {
		idx, word := -1, ""
		for w := range words {
			if w == "" {
				continue
			}
			i := indexWord(rest, w)
			if i < 0 {
				continue
			}
			if idx < 0 || i < idx || (i == idx && len(w) > len(word)) {
				idx, word = i, w
			}
		}
		if idx < 0 {
			out = append(out, segment{rest, base})
			break
		}
		if idx > 0 {
			out = append(out, segment{rest[:idx], base})
		}
		out = append(out, segment{word, words[word]})
		rest = rest[idx+len(word):]
	}
	return out
}

// indexWord is strings.Index restricted to matches not embedded in a
// longer word.
func indexWord(s, w string) int {
	from := 0
	for {
		i := strings.Index(s[from:], w)
		if i < 0 {
			return -1
		}
		i += from
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[i+len(w):])
		if (i == 0 || !unicode.IsLetter(before)) && (i+len(w) == len(s) || !unicode.IsLetter(after)) {
			return i
		}
		from = i + 1
	}
}

// highlightWords maps every on-screen beneficiary name to its colour.
func highlightWords(p protocol.Params) map[string]sdl.Color {
	words := map[string]sdl.Color{"TÚ": colorSelf}
	for _, b := range p.Beneficiaries {
		words[p.DisplayName(b)] = beneficiaryColor(b, colorBlack)
	}
	return words
}

// drawLine renders one paragraph line centred at cx, colouring names.
func (d *Display) drawLine(line string, words map[string]sdl.Color, cx, y float32) {
	segs := colorSegments(line, words, d.cfg.TextColor)
	var total float32
	entries := make([]*CacheEntry, len(segs))
	for i, s := range segs {
		entries[i] = d.textEntry(s.text, sizeBody, s.color)
		total += entries[i].W
	}
	x := cx - total/2
	for _, e := range entries {
		if e.Texture != nil {
			r := sdl.FRect{X: x, Y: y, W: e.W, H: e.H}
			d.renderer.RenderTexture(e.Texture, nil, &r)
		}
		x += e.W
	}
}
