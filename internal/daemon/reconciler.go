package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/taskstrip/internal/taskbar"
)

// Submitter accepts events for the taskbar loop.
type Submitter interface {
	Submit(ev taskbar.Event) bool
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically asks for a display reconciliation so that a missed
// notification never leaves the strips out of date for long.
type Reconciler struct {
	interval time.Duration
	submit   Submitter
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler. A zero or negative interval
// disables the periodic pass; Run then returns immediately.
func NewReconciler(cfg ReconcilerConfig, submit Submitter) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval: cfg.Interval,
		submit:   submit,
		logger:   logger,
	}
}

// Interval returns the configured period.
func (r *Reconciler) Interval() time.Duration {
	return r.interval
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("periodic reconcile disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile submits a single safety pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if !r.submit.Submit(taskbar.Event{Kind: taskbar.TopologyChanged, Source: "reconciler"}) {
		r.logger.Debug("reconciler: pass already queued")
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
