// showcase runs an exhibit hall headlessly: it loads the base scene, cycles through the
// catalog on a timer and can write the final screen texture to a WebP file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-exhibit/config"
	"github.com/Carmen-Shannon/oxy-exhibit/engine"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/exhibit"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
)

type options struct {
	configPath string
	assetRoot  string
	frames     uint64
	cycle      int
	dumpScreen string
	verbose    bool
}

func main() {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "showcase",
		Short: "Headless exhibit hall driver",
		Long: `showcase loads the exhibit hall scene and drives exhibit swaps without a window.

The next button is clicked every --cycle frames. When --dump-screen is set the screen
texture of the last displayed exhibit is written as WebP on exit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	cmd.PersistentFlags().StringVar(&opts.assetRoot, "assets", "", "Asset root directory or http(s) URL (overrides the config)")
	cmd.Flags().Uint64Var(&opts.frames, "frames", 600, "Frames to run before exiting (0 runs until interrupted)")
	cmd.Flags().IntVar(&opts.cycle, "cycle", 120, "Advance to the next exhibit every N frames (0 disables)")
	cmd.Flags().StringVar(&opts.dumpScreen, "dump-screen", "", "Write the final screen texture to this WebP file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if opts.assetRoot != "" {
		cfg.AssetRoot = opts.assetRoot
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	l := loader.NewLoaderForRoot(cfg.AssetRoot,
		loader.WithFetchTimeout(cfg.FetchTimeout.Std()),
		loader.WithPreviewBorder(cfg.Preview.BorderPx),
		loader.WithPreviewMaxSize(cfg.Preview.MaxSize),
		loader.WithLogger(logger),
	)

	session, err := exhibit.NewSession(ctx, cfg, l, exhibit.WithSessionLogger(logger))
	if err != nil {
		return err
	}
	defer session.Close()

	frame := 0
	eng := engine.NewEngine(
		engine.WithTickRate(cfg.TickRate),
		engine.WithProfiling(cfg.Profiling),
		engine.WithMaxFrames(opts.frames),
		engine.WithLogger(logger),
		engine.WithFrameCallback(func(dt float32) {
			frame++
			if opts.cycle > 0 && frame%opts.cycle == 0 {
				session.HandleClick(cfg.Anchors.NextButton)
			}
			session.Frame(dt)
		}),
	)

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("frame loop stopped", "frames", eng.Frames(), "exhibit", session.Navigator().Current().String())

	if opts.dumpScreen == "" {
		return nil
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout.Std()+time.Second)
	defer cancel()
	if err := session.Wait(waitCtx); err != nil {
		logger.Warn("pending exhibit not applied before dump", "error", err)
	}
	return dumpScreen(session, opts.dumpScreen)
}

func dumpScreen(session *exhibit.Session, path string) error {
	tex := session.Scene().ScreenTexture()
	if tex == nil {
		return errors.New("no screen texture to dump")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := nativewebp.Encode(f, tex, nil); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
