package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Change is the kind of state an X event invalidated.
type Change int

const (
	ChangeNone Change = iota
	// ChangeTopology: monitors or the reserved work area changed.
	ChangeTopology
	// ChangeWindows: the client list or a listed client changed.
	ChangeWindows
)

func (c Change) String() string {
	switch c {
	case ChangeTopology:
		return "topology"
	case ChangeWindows:
		return "windows"
	default:
		return "none"
	}
}

// rootPropertyChange maps a root window property to the state it affects.
func rootPropertyChange(name string) Change {
	switch name {
	case "_NET_WORKAREA", "_NET_DESKTOP_GEOMETRY":
		return ChangeTopology
	case "_NET_CLIENT_LIST", "_NET_CLIENT_LIST_STACKING", "_NET_CURRENT_DESKTOP", "_NET_NUMBER_OF_DESKTOPS":
		return ChangeWindows
	}
	return ChangeNone
}

// clientPropertyChange maps a client window property to the state it affects.
func clientPropertyChange(name string) Change {
	switch name {
	case "_NET_WM_STRUT", "_NET_WM_STRUT_PARTIAL":
		return ChangeTopology
	case "_NET_WM_NAME", "WM_NAME", "WM_CLASS", "_NET_WM_STATE", "_NET_WM_DESKTOP", "_NET_WM_WINDOW_TYPE":
		return ChangeWindows
	}
	return ChangeNone
}

// Watcher turns X events into Change notifications. Every callback runs on
// the X event loop goroutine.
type Watcher struct {
	conn     *Connection
	onChange func(Change)
	tracked  map[xproto.Window]bool
}

// NewWatcher creates a watcher that reports through onChange.
func NewWatcher(conn *Connection, onChange func(Change)) *Watcher {
	return &Watcher{
		conn:     conn,
		onChange: onChange,
		tracked:  make(map[xproto.Window]bool),
	}
}

// Start selects RandR notifications, listens on the root window and on every
// current client. It must be called before the event loop starts.
func (w *Watcher) Start() error {
	xu := w.conn.XUtil

	err := randr.SelectInputChecked(xu.Conn(), w.conn.Root,
		randr.NotifyMaskScreenChange|randr.NotifyMaskCrtcChange|randr.NotifyMaskOutputChange).Check()
	if err != nil {
		return fmt.Errorf("randr select input: %w", err)
	}
	xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
		switch ev.(type) {
		case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
			w.emit(ChangeTopology)
		}
		return true
	}).Connect(xu)

	root := xwindow.New(xu, w.conn.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("listen on root window: %w", err)
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		change := rootPropertyChange(name)
		if name == "_NET_CLIENT_LIST" {
			w.trackClients()
		}
		w.emit(change)
	}).Connect(xu, w.conn.Root)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		w.emit(ChangeTopology)
	}).Connect(xu, w.conn.Root)

	w.trackClients()
	return nil
}

// trackClients listens on clients that appeared and forgets ones that left.
func (w *Watcher) trackClients() {
	clients, err := w.conn.ClientList()
	if err != nil {
		return
	}
	xu := w.conn.XUtil

	current := make(map[xproto.Window]bool, len(clients))
	for _, win := range clients {
		current[win] = true
		if w.tracked[win] {
			continue
		}
		if err := xwindow.New(xu, win).Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
			continue
		}
		xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
			name, err := xprop.AtomName(xu, ev.Atom)
			if err != nil {
				return
			}
			w.emit(clientPropertyChange(name))
		}).Connect(xu, win)
		// Moving a window can move it to another display.
		xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
			w.emit(ChangeWindows)
		}).Connect(xu, win)
		w.tracked[win] = true
	}

	for win := range w.tracked {
		if !current[win] {
			xevent.Detach(xu, win)
			delete(w.tracked, win)
		}
	}
}

func (w *Watcher) emit(change Change) {
	if change == ChangeNone || w.onChange == nil {
		return
	}
	w.onChange(change)
}
