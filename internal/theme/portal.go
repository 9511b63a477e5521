// Package theme resolves the light/dark appearance for the taskbar strips.
package theme

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	settingsIface   = "org.freedesktop.portal.Settings"
	appearanceNS    = "org.freedesktop.appearance"
	colorSchemeKey  = "color-scheme"
	settingChanged  = "SettingChanged"
	signalQueueSize = 16
)

// ColorScheme is the desktop-wide preference published by the portal.
type ColorScheme uint32

const (
	ColorSchemeDefault ColorScheme = iota
	ColorSchemeDark
	ColorSchemeLight
)

func (c ColorScheme) String() string {
	switch c {
	case ColorSchemeDark:
		return "prefer-dark"
	case ColorSchemeLight:
		return "prefer-light"
	default:
		return "default"
	}
}

// parseColorScheme unwraps the portal's value. Read returns the value wrapped
// in an extra variant, ReadOne and SettingChanged do not.
func parseColorScheme(v any) (ColorScheme, bool) {
	switch val := v.(type) {
	case dbus.Variant:
		return parseColorScheme(val.Value())
	case uint32:
		if val > uint32(ColorSchemeLight) {
			return ColorSchemeDefault, true
		}
		return ColorScheme(val), true
	}
	return ColorSchemeDefault, false
}

// Portal reads the color scheme from xdg-desktop-portal over the session bus.
type Portal struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// ConnectPortal opens a private session bus connection.
func ConnectPortal(logger *slog.Logger) (*Portal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Portal{conn: conn, logger: logger}, nil
}

// ColorScheme queries the current preference.
func (p *Portal) ColorScheme(ctx context.Context) (ColorScheme, error) {
	obj := p.conn.Object(portalDest, portalPath)

	var value dbus.Variant
	err := obj.CallWithContext(ctx, settingsIface+".ReadOne", 0, appearanceNS, colorSchemeKey).Store(&value)
	if err != nil {
		// Portals older than version 2 only implement Read.
		if err2 := obj.CallWithContext(ctx, settingsIface+".Read", 0, appearanceNS, colorSchemeKey).Store(&value); err2 != nil {
			return ColorSchemeDefault, fmt.Errorf("read %s %s: %w", appearanceNS, colorSchemeKey, err)
		}
	}

	scheme, ok := parseColorScheme(value)
	if !ok {
		return ColorSchemeDefault, fmt.Errorf("unexpected %s value %v", colorSchemeKey, value)
	}
	return scheme, nil
}

// Watch calls onChange for every color-scheme change until ctx is done.
func (p *Portal) Watch(ctx context.Context, onChange func(ColorScheme)) error {
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(portalPath),
		dbus.WithMatchInterface(settingsIface),
		dbus.WithMatchMember(settingChanged),
		dbus.WithMatchArg(0, appearanceNS),
	}
	if err := p.conn.AddMatchSignal(match...); err != nil {
		return fmt.Errorf("failed to add portal match rule: %w", err)
	}

	ch := make(chan *dbus.Signal, signalQueueSize)
	p.conn.Signal(ch)

	go func() {
		defer func() {
			p.conn.RemoveSignal(ch)
			_ = p.conn.RemoveMatchSignal(match...)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				if scheme, ok := colorSchemeFromSignal(sig); ok {
					p.logger.Debug("portal color scheme changed", "scheme", scheme.String())
					onChange(scheme)
				}
			}
		}
	}()
	return nil
}

func colorSchemeFromSignal(sig *dbus.Signal) (ColorScheme, bool) {
	if sig == nil || sig.Name != settingsIface+"."+settingChanged || len(sig.Body) < 3 {
		return ColorSchemeDefault, false
	}
	ns, _ := sig.Body[0].(string)
	key, _ := sig.Body[1].(string)
	if ns != appearanceNS || key != colorSchemeKey {
		return ColorSchemeDefault, false
	}
	return parseColorScheme(sig.Body[2])
}

func (p *Portal) Close() error {
	return p.conn.Close()
}
