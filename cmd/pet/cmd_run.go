package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Desmondgtx/Effort-Task/engine"
	"github.com/Desmondgtx/Effort-Task/protocol"
)

type runOptions struct {
	cfg       *engine.Config
	bgColor   string
	textColor string
	noVSync   bool
	noConfirm bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{cfg: engine.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), opts)
		},
	}

	cfg := opts.cfg
	f := cmd.Flags()
	f.StringVarP(&cfg.Subject, "subject", "s", "", "Participant ID (prompted when empty)")
	f.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory for result files")
	f.StringVar(&cfg.MediaDir, "media", cfg.MediaDir, "Directory with images and fonts")
	f.StringVarP(&cfg.TaskFile, "task", "t", "", "Task parameter file (YAML)")
	f.StringVar(&cfg.ScheduleFile, "schedule", "", "Fixed trial order (CSV: block,effort_percent,credits,beneficiary)")
	f.StringVar(&cfg.ArchiveFile, "archive", "", "SQLite archive of all sessions")
	f.StringVar(&cfg.FontFile, "font", "", "TTF font file")
	f.StringVar(&cfg.DLPDevice, "dlp", "", "DLP-IO8-G serial device")
	f.StringVar(&cfg.MarkerAddr, "marker-addr", "", "Marker outlet address, host:port or udp://host:port")
	f.StringVar(&cfg.EffortMode, "effort-mode", "", "Effort task: bar or boxes")
	f.IntVar(&cfg.ScreenWidth, "width", cfg.ScreenWidth, "Screen width")
	f.IntVar(&cfg.ScreenHeight, "height", cfg.ScreenHeight, "Screen height")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Random seed (0 picks one)")
	f.BoolVar(&cfg.Fullscreen, "fullscreen", false, "Enable fullscreen")
	f.BoolVar(&opts.noVSync, "no-vsync", false, "Disable VSync")
	f.BoolVar(&opts.noConfirm, "no-confirm", false, "Do not wait for the recorder confirmation")
	f.StringVar(&opts.bgColor, "bg-color", "211,211,211,255", "Background color (R,G,B,A)")
	f.StringVar(&opts.textColor, "text-color", "0,0,0,255", "Text color (R,G,B,A)")

	return cmd
}

func runSession(ctx context.Context, opts *runOptions) error {
	cfg := opts.cfg
	cfg.VSync = !opts.noVSync
	cfg.BGColor = engine.ParseColor(opts.bgColor)
	cfg.TextColor = engine.ParseColor(opts.textColor)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if cfg.Subject == "" {
		subject, err := promptSubject()
		if err != nil {
			return err
		}
		cfg.Subject = subject
	}

	task, err := engine.LoadTask(cfg)
	if err != nil {
		return err
	}
	if task.Markers.Addr != "" || cfg.DLPDevice != "" || task.Markers.Serial != "" {
		if !opts.noConfirm {
			if err := confirmRecorder(); err != nil {
				return err
			}
		}
	}

	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()
	defer binttf.Load().Unload()

	logger.Info("starting session",
		zap.String("subject", cfg.Subject),
		zap.String("effort_mode", string(task.Task.EffortMode)),
		zap.Int("blocks", task.Task.Blocks),
	)
	err = engine.Run(ctx, cfg, logger)
	if errors.Is(err, protocol.ErrAborted) {
		logger.Info("session aborted by operator")
		return nil
	}
	return err
}
