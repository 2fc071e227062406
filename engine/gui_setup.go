package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"go.uber.org/zap"

	"github.com/Desmondgtx/Effort-Task/protocol"
)

// setupField is one editable text box of the setup form.
type setupField struct {
	label  string
	value  *string
	browse func(window *sdl.Window)
}

type resOption struct {
	W, H  int
	Label string
}

var resOptions = []resOption{
	{1024, 768, "1024x768 (XGA)"},
	{1280, 720, "1280x720 (HD)"},
	{1366, 768, "1366x768 (WXGA)"},
	{1920, 1080, "1920x1080 (FHD)"},
	{2560, 1440, "2560x1440 (QHD)"},
}

// formPainter draws the widgets of the setup window.
type formPainter struct {
	renderer *sdl.Renderer
	font     *ttf.Font
}

func (p formPainter) label(s string, x, y float32, color sdl.Color) {
	if s == "" {
		return
	}
	surf, err := p.font.RenderTextBlended(s, color)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()
	tex, err := p.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
	p.renderer.RenderTexture(tex, nil, &r)
	tex.Destroy()
}

func (p formPainter) box(r sdl.FRect, fill, border sdl.Color) {
	p.renderer.SetDrawColor(fill.R, fill.G, fill.B, fill.A)
	p.renderer.RenderFillRect(&r)
	p.renderer.SetDrawColor(border.R, border.G, border.B, border.A)
	p.renderer.RenderRect(&r)
}

func (p formPainter) check(x, y float32, on bool, text string) {
	p.box(sdl.FRect{X: x, Y: y, W: 20, H: 20}, colorWhite, colorBlack)
	if on {
		mark := sdl.FRect{X: x + 4, Y: y + 4, W: 12, H: 12}
		p.renderer.SetDrawColor(0, 150, 0, 255)
		p.renderer.RenderFillRect(&mark)
	}
	p.label(text, x+30, y, colorBlack)
}

func within(x, y float32, r sdl.FRect) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

func folderPicker(target *string) func(*sdl.Window) {
	return func(window *sdl.Window) {
		cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
			if len(fileList) > 0 {
				*target = fileList[0]
			}
		})
		sdl.ShowOpenFolderDialog(cb, window, "", false)
	}
}

func filePicker(target *string, filters []sdl.DialogFileFilter) func(*sdl.Window) {
	return func(window *sdl.Window) {
		cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
			if len(fileList) > 0 {
				*target = fileList[0]
			}
		})
		sdl.ShowOpenFileDialog(cb, window, filters, "", false)
	}
}

// ErrSetupCancelled is returned when the setup window is closed.
var ErrSetupCancelled = errors.New("setup cancelled")

// RunGuiSetup shows the session setup form and fills cfg. The choices are
// saved to the cache file when the operator presses START.
func RunGuiSetup(cfg *Config, log *zap.Logger) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_Init: %w", err)
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return fmt.Errorf("TTF_Init: %w", err)
	}
	defer ttf.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer(windowTitle+" - Setup", 800, 760, 0)
	if err != nil {
		return fmt.Errorf("CreateWindowAndRenderer: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	fontPath := GetDefaultFontPath(cfg.MediaDir)
	if fontPath == "" {
		return errors.New("no default font found for GUI setup")
	}
	guiFont, err := ttf.OpenFont(fontPath, 18)
	if err != nil {
		return fmt.Errorf("load GUI font: %w", err)
	}
	defer guiFont.Close()

	fields := []setupField{
		{label: "Participant ID:", value: &cfg.Subject},
		{label: "Data directory:", value: &cfg.DataDir, browse: folderPicker(&cfg.DataDir)},
		{label: "Media directory:", value: &cfg.MediaDir, browse: folderPicker(&cfg.MediaDir)},
		{label: "Task file (YAML, optional):", value: &cfg.TaskFile,
			browse: filePicker(&cfg.TaskFile, []sdl.DialogFileFilter{{Name: "YAML Files", Pattern: "yaml;yml"}})},
	}
	fieldBox := func(i int) sdl.FRect { return sdl.FRect{X: 50, Y: float32(50 + i*70), W: 650, H: 30} }
	browseBox := func(i int) sdl.FRect { return sdl.FRect{X: 710, Y: float32(50 + i*70), W: 70, H: 30} }
	resBox := func(i int) sdl.FRect { return sdl.FRect{X: 50, Y: float32(340 + i*36), W: 250, H: 30} }
	modeBox := func(i int) sdl.FRect { return sdl.FRect{X: 420, Y: float32(340 + i*36), W: 250, H: 30} }
	fullBox := sdl.FRect{X: 50, Y: 560, W: 250, H: 30}
	startBtn := sdl.FRect{X: 350, Y: 660, W: 100, H: 40}
	modes := []protocol.EffortMode{protocol.EffortBar, protocol.EffortBoxes}

	selectedRes := 1
	for i, res := range resOptions {
		if cfg.ScreenWidth == res.W && cfg.ScreenHeight == res.H {
			selectedRes = i
			break
		}
	}
	focus := 0
	status := ""

	window.StartTextInput()
	defer window.StopTextInput()

	paint := formPainter{renderer: renderer, font: guiFont}
	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return ErrSetupCancelled
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				mx, my := me.X, me.Y
				focus = -1
				for i, f := range fields {
					if within(mx, my, fieldBox(i)) {
						focus = i
					}
					if f.browse != nil && within(mx, my, browseBox(i)) {
						f.browse(window)
					}
				}
				for i := range resOptions {
					if within(mx, my, resBox(i)) {
						selectedRes = i
					}
				}
				for i, m := range modes {
					if within(mx, my, modeBox(i)) {
						cfg.EffortMode = string(m)
					}
				}
				if within(mx, my, fullBox) {
					cfg.Fullscreen = !cfg.Fullscreen
				}
				if within(mx, my, startBtn) {
					cfg.Subject = strings.TrimSpace(cfg.Subject)
					if cfg.Subject == "" {
						status = "Participant ID is required"
						break
					}
					cfg.ScreenWidth = resOptions[selectedRes].W
					cfg.ScreenHeight = resOptions[selectedRes].H
					if err := cfg.SaveCache(); err != nil {
						log.Warn("failed to save setup cache", zap.Error(err))
					}
					return nil
				}
			case sdl.EVENT_TEXT_INPUT:
				if focus >= 0 {
					*fields[focus].value += e.TextInputEvent().Text
				}
			case sdl.EVENT_KEY_DOWN:
				if focus >= 0 && e.KeyboardEvent().Key == sdl.K_BACKSPACE {
					v := fields[focus].value
					if r := []rune(*v); len(r) > 0 {
						*v = string(r[:len(r)-1])
					}
				}
			}
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()
		grey := sdl.Color{R: 180, G: 180, B: 180, A: 255}
		focusBlue := sdl.Color{R: 0, G: 120, B: 255, A: 255}

		for i, f := range fields {
			paint.label(f.label, 50, float32(20+i*70), colorBlack)
			border := grey
			if focus == i {
				border = focusBlue
			}
			paint.box(fieldBox(i), colorWhite, border)
			paint.label(*f.value, 55, float32(55+i*70), colorBlack)
			if f.browse != nil {
				paint.box(browseBox(i), sdl.Color{R: 200, G: 200, B: 200, A: 255}, colorBlack)
				paint.label("...", 735, float32(55+i*70), colorBlack)
			}
		}

		paint.label("Resolution:", 50, 310, colorBlack)
		for i, opt := range resOptions {
			r := resBox(i)
			paint.check(r.X, r.Y, selectedRes == i, opt.Label)
		}
		paint.label("Effort task:", 420, 310, colorBlack)
		for i, m := range modes {
			r := modeBox(i)
			on := cfg.EffortMode == string(m) || (cfg.EffortMode == "" && m == protocol.EffortBar)
			paint.check(r.X, r.Y, on, modeLabel(m))
		}
		paint.check(fullBox.X, fullBox.Y, cfg.Fullscreen, "Fullscreen mode")

		renderer.SetDrawColor(0, 150, 0, 255)
		renderer.RenderFillRect(&startBtn)
		paint.label("START", 375, 670, colorWhite)
		paint.label(status, 50, 620, colorSelf)

		renderer.Present()
		sdl.Delay(10)
	}
}

func modeLabel(m protocol.EffortMode) string {
	if m == protocol.EffortBoxes {
		return "Click boxes (mouse)"
	}
	return "Fill bar (space bar)"
}
