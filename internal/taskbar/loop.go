package taskbar

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrLoopStopped is returned when an event is submitted after Run returned.
var ErrLoopStopped = errors.New("taskbar loop stopped")

const loopQueueSize = 64

type queued struct {
	ev   Event
	done chan struct{}
}

// LoopStatus is the published manager snapshot plus loop bookkeeping.
type LoopStatus struct {
	Status
	Passes    uint64    `json:"passes"`
	LastEvent string    `json:"last_event,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Loop serializes every manager call onto one goroutine. Event sources call
// Submit from any goroutine; Run drains the queue and dispatches in order.
type Loop struct {
	manager *Manager
	logger  *slog.Logger
	events  chan queued
	stopped chan struct{}

	mu      sync.Mutex
	pending map[EventKind]int

	statusMu sync.RWMutex
	status   LoopStatus
	once     sync.Once
}

// NewLoop wraps manager. The manager must not be touched by anything else
// once Run has started.
func NewLoop(manager *Manager, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		manager: manager,
		logger:  logger,
		events:  make(chan queued, loopQueueSize),
		stopped: make(chan struct{}),
		pending: make(map[EventKind]int),
	}
}

// Submit queues ev. A refresh event is dropped when one of the same kind is
// already waiting, since that one will observe the same ground truth. It
// returns false if the event was dropped or the loop has stopped.
func (l *Loop) Submit(ev Event) bool {
	if !l.reserve(ev.Kind, true) {
		return false
	}
	return l.enqueue(queued{ev: ev}) == nil
}

// SubmitWait queues ev and blocks until it has been dispatched.
func (l *Loop) SubmitWait(ctx context.Context, ev Event) error {
	l.reserve(ev.Kind, false)
	item := queued{ev: ev, done: make(chan struct{})}
	if err := l.enqueue(item); err != nil {
		return err
	}
	select {
	case <-item.done:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) reserve(kind EventKind, coalesce bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if coalesce && kind.Coalescable() && l.pending[kind] > 0 {
		return false
	}
	l.pending[kind]++
	return true
}

func (l *Loop) release(kind EventKind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending[kind] > 0 {
		l.pending[kind]--
	}
}

func (l *Loop) enqueue(item queued) error {
	select {
	case <-l.stopped:
		l.release(item.ev.Kind)
		return ErrLoopStopped
	default:
	}
	select {
	case l.events <- item:
		return nil
	case <-l.stopped:
		l.release(item.ev.Kind)
		return ErrLoopStopped
	}
}

// Run dispatches queued events until ctx is cancelled. On exit the manager
// is disabled so no strip outlives the loop.
func (l *Loop) Run(ctx context.Context) {
	l.publish("")
	l.logger.Info("event loop started")

	defer func() {
		l.once.Do(func() { close(l.stopped) })
		l.dispatch(Event{Kind: DisableRequested, Source: "shutdown"})
		l.logger.Info("event loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case item := <-l.events:
			l.release(item.ev.Kind)
			l.dispatch(item.ev)
			if item.done != nil {
				close(item.done)
			}
		}
	}
}

func (l *Loop) dispatch(ev Event) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("dispatch panic recovered", "kind", ev.Kind.String(), "error", err)
		}
		l.publish(ev.Kind.String())
	}()
	l.logger.Debug("dispatch", "kind", ev.Kind.String(), "source", ev.Source)
	l.manager.Dispatch(ev)
}

func (l *Loop) publish(last string) {
	st := l.manager.Status()
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	if last != "" {
		l.status.Passes++
		l.status.LastEvent = last
	}
	l.status.Status = st
	l.status.UpdatedAt = time.Now()
}

// Status returns the snapshot published after the most recent dispatch.
func (l *Loop) Status() LoopStatus {
	l.statusMu.RLock()
	defer l.statusMu.RUnlock()
	st := l.status
	st.Surfaces = make([]SurfaceStatus, len(l.status.Surfaces))
	copy(st.Surfaces, l.status.Surfaces)
	return st
}
