package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/taskbar"
)

// Loader produces a freshly loaded configuration.
type Loader func() (*config.Config, error)

// Reloader re-reads the configuration, installs it in the store and submits
// the events the difference calls for. It backs SIGHUP, the config file
// watcher and the RELOAD command.
type Reloader struct {
	store  *config.Store
	load   Loader
	submit Submitter
	level  *slog.LevelVar
	logger *slog.Logger

	mu sync.Mutex
}

// NewReloader creates a reloader. level may be nil when the log level is
// not adjustable.
func NewReloader(store *config.Store, load Loader, submit Submitter, level *slog.LevelVar, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		store:  store,
		load:   load,
		submit: submit,
		level:  level,
		logger: logger,
	}
}

// Reload loads the configuration again. On error the current configuration
// stays in place.
func (r *Reloader) Reload(source string) (config.Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.load()
	if err != nil {
		r.logger.Warn("config reload failed, keeping current config", "source", source, "error", err)
		return config.Change{}, fmt.Errorf("failed to reload config: %w", err)
	}

	prev := r.store.Replace(next)
	change := config.Diff(prev, next)
	if r.level != nil {
		r.level.Set(ParseLevel(next.LogLevel))
	}

	events := EventsFor(change, next, source)
	for _, ev := range events {
		r.submit.Submit(ev)
	}

	r.logger.Info("config reloaded",
		"source", source,
		"geometry", change.Geometry,
		"rendering", change.Rendering,
		"appearance", change.Appearance,
		"enabled", change.Enabled,
		"events", len(events))
	return change, nil
}

// EventsFor maps a configuration change to taskbar events. Turning the
// taskbar off produces only the Disable request. Turning it on is a no-op for
// a manager that is already enabled, so the other changes still follow it.
func EventsFor(change config.Change, next *config.Config, source string) []taskbar.Event {
	var events []taskbar.Event
	if change.Enabled && next != nil {
		if !next.Enabled {
			return []taskbar.Event{{Kind: taskbar.DisableRequested, Source: source}}
		}
		events = append(events, taskbar.Event{Kind: taskbar.EnableRequested, Source: source})
	}

	if change.Geometry {
		events = append(events, taskbar.Event{Kind: taskbar.SettingChanged, Source: source})
	}
	if change.Appearance {
		events = append(events, taskbar.Event{Kind: taskbar.AppearanceChanged, Source: source})
	}
	// Item and icon sizes only affect drawing, which every content refresh redoes.
	if change.Rendering {
		events = append(events, taskbar.Event{Kind: taskbar.WindowsChanged, Source: source})
	}
	return events
}
