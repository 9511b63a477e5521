package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/taskstrip/internal/taskbar"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Loop is the part of the taskbar loop the toggle needs.
type Loop interface {
	Submit(ev taskbar.Event) bool
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	loop   Loop
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend any, loop Loop, logger *slog.Logger) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}
	if logger == nil {
		logger = slog.Default()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:     xu,
		root:   root,
		loop:   loop,
		logger: logger,
	}
}

// Register registers the show/hide toggle hotkey.
func (h *Handler) Register(keySequence string) error {
	if keySequence == "" {
		return nil
	}
	if err := h.RegisterFunc(keySequence, h.Toggle); err != nil {
		return fmt.Errorf("failed to register toggle hotkey %q: %w", keySequence, err)
	}
	h.logger.Info("toggle hotkey registered", "keys", keySequence)
	return nil
}

// Toggle asks the loop to flip the strips. The manager decides the
// direction when it handles the event, so every press counts.
func (h *Handler) Toggle() {
	h.logger.Debug("toggle hotkey triggered")
	if !h.loop.Submit(taskbar.Event{Kind: taskbar.ToggleRequested, Source: "hotkey"}) {
		h.logger.Warn("toggle request dropped")
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys require an X11 backend")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
