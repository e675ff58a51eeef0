package daemon

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/utils/clock"
)

// Syncer reconciles layouts with the window system.
type Syncer interface {
	Sync() error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
	Clock    clock.WithTicker
}

// Reconciler syncs on a fixed interval and whenever Trigger is called.
// Triggers that arrive while a sync is pending are coalesced.
type Reconciler struct {
	interval time.Duration
	syncer   Syncer
	logger   *slog.Logger
	clock    clock.WithTicker
	trigger  chan string
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, syncer Syncer) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	return &Reconciler{
		interval: interval,
		syncer:   syncer,
		logger:   logger,
		clock:    clk,
		trigger:  make(chan string, 1),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C():
			r.reconcile("interval")
		case reason := <-r.trigger:
			r.reconcile(reason)
		}
	}
}

// Trigger requests a sync soon. It never blocks, so it is safe to call from
// the X event loop.
func (r *Reconciler) Trigger(reason string) {
	select {
	case r.trigger <- reason:
	default:
	}
}

// ReconcileNow performs a sync on the calling goroutine.
func (r *Reconciler) ReconcileNow() {
	r.reconcile("manual")
}

func (r *Reconciler) reconcile(reason string) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if err := r.syncer.Sync(); err != nil {
		r.logger.Warn("reconciler: sync failed", "reason", reason, "error", err)
		return
	}
	if reason != "interval" {
		r.logger.Debug("reconciled", "reason", reason)
	}
}
