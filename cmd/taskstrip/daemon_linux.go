//go:build linux

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/daemon"
	"github.com/1broseidon/taskstrip/internal/hotkeys"
	"github.com/1broseidon/taskstrip/internal/ipc"
	"github.com/1broseidon/taskstrip/internal/platform"
	"github.com/1broseidon/taskstrip/internal/taskbar"
	"github.com/1broseidon/taskstrip/internal/theme"
	"github.com/1broseidon/taskstrip/internal/x11"
)

const portalTimeout = 2 * time.Second

var daemonOpts struct {
	display string
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the taskbar daemon",
	Long: `Run the taskbar daemon in the foreground.

The daemon connects to the X server, keeps one strip per display, follows
display and window changes, reloads its config on SIGHUP or when the file
changes, and serves the control commands over a Unix socket.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVar(&daemonOpts.display, "display", "",
		"X display to connect to (default: config display, then $DISPLAY)")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	res, path, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	logger, level := setupLogger(os.Stderr, cfg.LogLevel)
	logger.Info("configuration loaded", "path", path, "height", cfg.Taskbar.Height, "appearance", string(cfg.Appearance))

	store := config.NewStore(cfg)
	provider := theme.NewProvider(store.AppearanceMode)

	display := daemonOpts.display
	if display == "" {
		display = cfg.Display
	}
	backend, err := platform.NewLinuxBackendFromDisplay(display, platform.LinuxOptions{
		Metrics: func() x11.StripMetrics {
			return x11.StripMetrics{
				ItemHeight: store.ItemHeight(),
				IconSize:   store.IconSize(),
				Font:       store.Font(),
			}
		},
		Style: stripStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	manager := taskbar.NewManager(taskbar.Options{
		Displays: backend,
		Windows:  backend,
		Theme:    provider,
		Strips:   backend,
		Settings: store,
		Logger:   logger,
	})
	loop := taskbar.NewLoop(manager, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(loopDone)
	}()

	followPortal(ctx, provider, loop, logger)

	reloader := daemon.NewReloader(store, func() (*config.Config, error) {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}, loop, level, logger)

	watcher := x11.NewWatcher(backend.Connection(), daemon.X11Forwarder(loop))
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to watch X11 events: %w", err)
	}

	hotkeyHandler := hotkeys.NewHandler(backend, loop, logger)
	if err := hotkeyHandler.Register(cfg.ToggleHotkey); err != nil {
		logger.Warn("toggle hotkey unavailable", "error", err)
	}

	ipcServer, err := ipc.NewServer(ipc.ServerOptions{
		Loop:     loop,
		Displays: backend,
		Theme:    provider,
		Settings: store,
		Reloader: reloader,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	if cfgWatcher, err := config.NewWatcher(path, logger); err != nil {
		logger.Warn("config watcher unavailable", "error", err)
	} else {
		cfgWatcher.SetChangeCallback(func() {
			_, _ = reloader.Reload("watcher")
		})
		if err := cfgWatcher.Start(); err != nil {
			logger.Warn("config watcher unavailable", "path", path, "error", err)
		}
		defer cfgWatcher.Stop()
	}

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: time.Duration(cfg.ReconcileInterval) * time.Second,
		Logger:   logger,
	}, loop)
	go reconciler.Run(ctx)

	if cfg.Enabled {
		loop.Submit(taskbar.Event{Kind: taskbar.EnableRequested, Source: "startup"})
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					_, _ = reloader.Reload("sighup")
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				backend.QuitEventLoop()
				return
			}
		}
	}()

	logger.Info("entering event loop")
	backend.EventLoop()

	// Stopping the loop removes every strip before the connection closes.
	cancel()
	<-loopDone
	logger.Info("taskstrip daemon stopped")
	return nil
}

// followPortal seeds the system color scheme and subscribes to changes. A
// missing portal leaves the provider on its default (light).
func followPortal(ctx context.Context, provider *theme.Provider, loop *taskbar.Loop, logger *slog.Logger) {
	portal, err := theme.ConnectPortal(logger)
	if err != nil {
		logger.Warn("desktop portal unavailable, using light appearance for auto", "error", err)
		return
	}
	go func() {
		<-ctx.Done()
		portal.Close()
	}()

	qctx, qcancel := context.WithTimeout(ctx, portalTimeout)
	scheme, err := portal.ColorScheme(qctx)
	qcancel()
	if err != nil {
		logger.Warn("failed to read color scheme", "error", err)
	} else {
		provider.SetSystem(scheme)
		logger.Info("system color scheme", "scheme", scheme.String())
	}

	if err := portal.Watch(ctx, daemon.ColorSchemeFollower(provider, loop, logger)); err != nil {
		logger.Warn("failed to watch color scheme", "error", err)
	}
}

func stripStyle(mode platform.Appearance) x11.StripStyle {
	p := theme.PaletteFor(mode)
	return x11.StripStyle{
		Background: p.Background,
		Item:       p.Item,
		Text:       p.Text,
		Icon:       p.Icon,
	}
}
