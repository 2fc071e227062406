package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
)

type Config struct {
	Subject      string
	DataDir      string
	MediaDir     string
	TaskFile     string
	ScheduleFile string
	ArchiveFile  string
	FontFile     string
	DLPDevice    string
	MarkerAddr   string
	EffortMode   string
	ScreenWidth  int
	ScreenHeight int
	Seed         uint64
	Fullscreen   bool
	VSync        bool
	BGColor      sdl.Color
	TextColor    sdl.Color
}

// ParseColor reads "R,G,B" or "R,G,B,A". Alpha defaults to opaque and
// malformed components read as zero.
func ParseColor(s string) sdl.Color {
	parts := strings.Split(s, ",")
	c := sdl.Color{A: 255}
	vals := []*uint8{&c.R, &c.G, &c.B, &c.A}
	for i, p := range parts {
		if i >= len(vals) {
			break
		}
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			v = 0
		}
		*vals[i] = uint8(v)
	}
	return c
}

func formatColor(c sdl.Color) string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

const CacheFile = ".pet_cache"

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SaveCache remembers the last setup in CacheFile.
func (cfg *Config) SaveCache() error {
	return cfg.saveCache(CacheFile)
}

func (cfg *Config) saveCache(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "data_dir=%s\n", cfg.DataDir)
	fmt.Fprintf(f, "media_dir=%s\n", cfg.MediaDir)
	fmt.Fprintf(f, "task_file=%s\n", cfg.TaskFile)
	fmt.Fprintf(f, "archive_file=%s\n", cfg.ArchiveFile)
	fmt.Fprintf(f, "dlp_device=%s\n", cfg.DLPDevice)
	fmt.Fprintf(f, "effort_mode=%s\n", cfg.EffortMode)
	fmt.Fprintf(f, "screen_w=%d\n", cfg.ScreenWidth)
	fmt.Fprintf(f, "screen_h=%d\n", cfg.ScreenHeight)
	fmt.Fprintf(f, "fullscreen=%s\n", boolFlag(cfg.Fullscreen))
	fmt.Fprintf(f, "bg_color=%s\n", formatColor(cfg.BGColor))
	fmt.Fprintf(f, "text_color=%s\n", formatColor(cfg.TextColor))
	return nil
}

// LoadCache restores the last setup. A missing cache leaves cfg as is.
func (cfg *Config) LoadCache() {
	cfg.loadCache(CacheFile)
}

func (cfg *Config) loadCache(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)

		switch key {
		case "data_dir":
			cfg.DataDir = val
		case "media_dir":
			cfg.MediaDir = val
		case "task_file":
			cfg.TaskFile = val
		case "archive_file":
			cfg.ArchiveFile = val
		case "dlp_device":
			cfg.DLPDevice = val
		case "effort_mode":
			cfg.EffortMode = val
		case "screen_w":
			fmt.Sscanf(val, "%d", &cfg.ScreenWidth)
		case "screen_h":
			fmt.Sscanf(val, "%d", &cfg.ScreenHeight)
		case "fullscreen":
			cfg.Fullscreen = val != "0"
		case "bg_color":
			cfg.BGColor = ParseColor(val)
		case "text_color":
			cfg.TextColor = ParseColor(val)
		}
	}
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:      "data",
		MediaDir:     "media",
		ScreenWidth:  1280,
		ScreenHeight: 720,
		VSync:        true,
		BGColor:      sdl.Color{R: 211, G: 211, B: 211, A: 255},
		TextColor:    sdl.Color{R: 0, G: 0, B: 0, A: 255},
	}
}
