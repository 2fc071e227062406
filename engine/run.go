package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"go.uber.org/zap"

	"github.com/Desmondgtx/Effort-Task/markers"
	"github.com/Desmondgtx/Effort-Task/protocol"
	"github.com/Desmondgtx/Effort-Task/results"
	"github.com/Desmondgtx/Effort-Task/taskconfig"
)

const windowTitle = "Prosocial Effort Task"

// LoadTask reads the task file named by cfg and applies the command line
// overrides on top of it.
func LoadTask(cfg *Config) (taskconfig.Config, error) {
	task, err := taskconfig.LoadFromPath(cfg.TaskFile)
	if err != nil {
		return task, err
	}
	if cfg.EffortMode != "" {
		task.Task.EffortMode = protocol.EffortMode(cfg.EffortMode)
	}
	if cfg.MarkerAddr != "" {
		task.Markers.SetAddr(cfg.MarkerAddr)
	}
	if cfg.ScheduleFile != "" {
		task.Schedule = cfg.ScheduleFile
	}
	return task, task.Task.Validate()
}

// openSinks connects every configured marker destination. Hardware that is
// missing is reported and skipped so a session can still run.
func openSinks(cfg *Config, task taskconfig.Config, eventLog *markers.EventLog, log *zap.Logger) []markers.Sink {
	sinks := []markers.Sink{markers.LogSink{Logger: log}, eventLog}

	device := cfg.DLPDevice
	if device == "" {
		device = task.Markers.Serial
	}
	if device != "" {
		dlp, err := markers.NewDLPIO8G(device, markers.DLPBaudRate)
		if err != nil {
			log.Warn("failed to initialize DLP device", zap.String("device", device), zap.Error(err))
		} else {
			sinks = append(sinks, dlp)
		}
	}

	if task.Markers.Addr != "" {
		ns, err := markers.DialNetSink(task.Markers.Network, task.Markers.Addr, time.Second)
		if err != nil {
			log.Warn("marker outlet unavailable", zap.String("addr", task.Markers.Addr), zap.Error(err))
		} else {
			log.Info("marker outlet connected",
				zap.String("stream", markers.StreamName),
				zap.String("network", task.Markers.Network),
				zap.String("addr", task.Markers.Addr),
			)
			sinks = append(sinks, ns)
		}
	}
	return sinks
}

// Run opens the window and runs one full session for cfg.Subject.
// Results are flushed and closed whether or not the session completes.
func Run(ctx context.Context, cfg *Config, log *zap.Logger) (err error) {
	if cfg.Subject == "" {
		return errors.New("participant ID is required")
	}

	task, err := LoadTask(cfg)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	var schedule [][]protocol.Combination
	if task.Schedule != "" {
		schedule, err = protocol.LoadSchedule(task.Schedule)
		if err != nil {
			return fmt.Errorf("load schedule: %w", err)
		}
	}

	start := time.Now()
	csvPath := results.FileName(cfg.DataDir, cfg.Subject, ".csv", start)
	csvw, err := results.CreateCSV(csvPath)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer func() {
		if cerr := csvw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	recorder := results.Tee{csvw}

	var archive *results.SessionRecorder
	if cfg.ArchiveFile != "" {
		store, serr := results.OpenStore(cfg.ArchiveFile)
		if serr != nil {
			log.Warn("session archive unavailable", zap.String("path", cfg.ArchiveFile), zap.Error(serr))
		} else {
			defer store.Close()
			archive, serr = store.BeginSession(cfg.Subject, start, task.Task)
			if serr != nil {
				log.Warn("failed to start archived session", zap.Error(serr))
			} else {
				recorder = append(recorder, archive)
			}
		}
	}

	eventLog := markers.NewEventLog(start)
	dispatcher := markers.NewDispatcher(log, task.Markers.MinGap, openSinks(cfg, task, eventLog, log)...)

	runErr := runWindow(ctx, cfg, task, schedule, recorder, dispatcher, archive, log)

	if cerr := dispatcher.Close(); cerr != nil {
		log.Warn("marker sinks closed with errors", zap.Error(cerr))
	}
	markerPath := results.FileName(cfg.DataDir, cfg.Subject, "_markers.csv", start)
	if serr := eventLog.Save(markerPath); serr != nil {
		log.Warn("failed to save marker log", zap.String("path", markerPath), zap.Error(serr))
	}

	if archive != nil {
		status := results.StatusCompleted
		if runErr != nil {
			status = results.StatusAborted
		}
		if ferr := archive.Finish(status, time.Now()); ferr != nil {
			log.Warn("failed to close archived session", zap.Error(ferr))
		}
	}

	log.Info("results saved", zap.String("path", csvPath), zap.String("markers", markerPath))
	return runErr
}

func runWindow(ctx context.Context, cfg *Config, task taskconfig.Config, schedule [][]protocol.Combination,
	recorder results.Recorder, emitter markers.Emitter, archive *results.SessionRecorder, log *zap.Logger) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_Init: %w", err)
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return fmt.Errorf("TTF_Init: %w", err)
	}
	defer ttf.Quit()

	windowFlags := sdl.WINDOW_RESIZABLE
	if cfg.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(windowTitle, cfg.ScreenWidth, cfg.ScreenHeight, windowFlags)
	if err != nil {
		return fmt.Errorf("CreateWindowAndRenderer: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	if cfg.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}

	refresh := float32(60)
	if mode, err := sdl.GetDisplayForWindow(window).CurrentDisplayMode(); err == nil && mode.RefreshRate > 0 {
		refresh = mode.RefreshRate
	}
	log.Info("display ready",
		zap.Int("width", cfg.ScreenWidth),
		zap.Int("height", cfg.ScreenHeight),
		zap.Float32("refresh_hz", refresh),
		zap.Bool("fullscreen", cfg.Fullscreen),
	)

	fontPath := cfg.FontFile
	if fontPath == "" {
		fontPath = GetDefaultFontPath(cfg.MediaDir)
	}
	if fontPath == "" {
		log.Warn("no font found, text will not be drawn")
	}
	fonts := NewFonts(fontPath, log)
	defer fonts.Close()

	display := NewDisplay(window, renderer, cfg, task.Task, fonts, log)
	defer display.Close()

	sdl.HideCursor()
	defer sdl.ShowCursor()

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}

	session := &protocol.Session{
		Params:    task.Task,
		Presenter: display,
		Markers:   emitter,
		Recorder:  recorder,
		Rand:      rng,
		Log:       log,
		Schedule:  schedule,
		OnCalibrated: func(max int) {
			if archive == nil {
				return
			}
			if err := archive.SetCalibratedMax(max); err != nil {
				log.Warn("failed to archive calibration", zap.Error(err))
			}
		},
	}
	err = session.Run(ctx)

	for _, b := range task.Task.Beneficiaries {
		log.Info("credits earned",
			zap.String("beneficiary", b.Label()),
			zap.Int("credits", session.Totals[b]),
		)
	}
	return err
}
