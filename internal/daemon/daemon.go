//go:build linux

package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/hotkeys"
	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/rules"
	"github.com/1broseidon/treetile/internal/tiling"
)

// Run starts the daemon and blocks until ctx is cancelled, a terminate
// binding fires, or the X connection is lost.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := ipc.NewClient().Ping(); err == nil {
		return ErrAlreadyRunning
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := res.Config
	if opts.OnConfig != nil {
		opts.OnConfig(cfg)
	}
	logger.Info("config loaded", "path", path, "files", len(res.Files))

	backend, err := platform.NewLinuxBackendFromDisplay(opts.Display)
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	tiler, err := tiling.NewTiler(backend, rules.NewMatcher(cfg.ManagedClasses, cfg.IgnoredClasses), cfg, clock.RealClock{}, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys, err := hotkeys.NewHandler(backend, logger)
	if err != nil {
		return err
	}

	var (
		reloadMu   sync.Mutex
		dispatcher *Dispatcher
	)
	reload := func() error {
		reloadMu.Lock()
		defer reloadMu.Unlock()

		res, err := config.LoadFromPath(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := tiler.UpdateConfig(res.Config); err != nil {
			return err
		}
		if opts.OnConfig != nil {
			opts.OnConfig(res.Config)
		}
		if err := keys.Apply(res.Config, dispatcher.Handle); err != nil {
			logger.Warn("some key bindings failed", "error", err)
		}
		logger.Info("config reloaded", "path", path)
		return nil
	}
	dispatcher = NewDispatcher(tiler, DispatcherOptions{
		Reload:    reload,
		Terminate: cancel,
		Logger:    logger,
	})
	if err := keys.Apply(cfg, dispatcher.Handle); err != nil {
		logger.Warn("some key bindings failed", "error", err)
	}

	server, err := ipc.NewServer(ipc.ServerOptions{
		Controller: tiler,
		Reload:     reload,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: cfg.SyncInterval(),
		Logger:   logger,
	}, tiler)
	reconciler.ReconcileNow()
	if err := backend.WatchRoot(reconciler.Trigger); err != nil {
		return fmt.Errorf("watch root window: %w", err)
	}
	frames := NewFrameLoop(tiler, cfg.FrameInterval(), nil, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reconciler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		frames.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("entering event loop")
		backend.EventLoop()
		if gctx.Err() == nil {
			return errors.New("x11 event loop exited")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		backend.StopEventLoop()
		return nil
	})
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				if err := reload(); err != nil {
					logger.Error("config reload failed", "error", err)
				}
			}
		}
	})

	err = g.Wait()
	logger.Info("shutting down")
	return err
}
