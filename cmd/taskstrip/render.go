package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/taskstrip/internal/ipc"
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	on     lipgloss.Style
	off    lipgloss.Style
	dim    lipgloss.Style
}

func newStyles(styled bool) styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return styles{header: plain, label: plain, value: plain, on: plain, off: plain, dim: plain}
	}
	return styles{
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		on:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		off:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// renderStatus formats a status report. styled adds terminal colors.
func renderStatus(st *ipc.StatusData, styled bool) string {
	s := newStyles(styled)
	var b strings.Builder

	state := s.off.Render("disabled")
	if st.Enabled {
		state = s.on.Render("enabled")
	}
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", s.label.Render(fmt.Sprintf("%-11s", label+":")), value)
	}
	row("taskbar", state)
	row("appearance", s.value.Render(st.Appearance))
	row("height", s.value.Render(fmt.Sprintf("%dpx", st.Height)))
	row("passes", s.value.Render(fmt.Sprintf("%d", st.Passes)))
	if st.LastEvent != "" {
		row("last event", s.value.Render(st.LastEvent))
	}
	row("uptime", s.value.Render(formatUptime(st.UptimeSeconds)))

	if len(st.Surfaces) == 0 {
		b.WriteString(s.dim.Render("no strips") + "\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(s.header.Render(fmt.Sprintf("%-12s %-22s %-10s %-7s %s", "DISPLAY", "GEOMETRY", "APPEARANCE", "SHOWN", "ITEMS")) + "\n")
	for _, surface := range st.Surfaces {
		shown := s.off.Render(fmt.Sprintf("%-7s", "no"))
		if surface.Visible {
			shown = s.on.Render(fmt.Sprintf("%-7s", "yes"))
		}
		geometry := fmt.Sprintf("%dx%d+%d+%d", surface.Width, surface.Height, surface.X, surface.Y)
		fmt.Fprintf(&b, "%-12s %-22s %-10s %s %d\n",
			string(surface.Display), geometry, string(surface.Appearance), shown, surface.Items)
	}
	return b.String()
}

// renderMonitors formats the GET_MONITORS reply.
func renderMonitors(data *ipc.MonitorsData, styled bool) string {
	s := newStyles(styled)
	if len(data.Monitors) == 0 {
		return s.dim.Render("no monitors") + "\n"
	}

	var b strings.Builder
	b.WriteString(s.header.Render(fmt.Sprintf("%-12s %-22s %-22s %s", "DISPLAY", "BOUNDS", "USABLE", "STRIP")) + "\n")
	for _, m := range data.Monitors {
		strip := s.off.Render("no")
		if m.Strip {
			strip = s.on.Render("yes")
		}
		bounds := fmt.Sprintf("%dx%d+%d+%d", m.Width, m.Height, m.X, m.Y)
		usable := fmt.Sprintf("%dx%d+%d+%d", m.Usable.Width, m.Usable.Height, m.Usable.X, m.Usable.Y)
		fmt.Fprintf(&b, "%-12s %-22s %-22s %s\n", m.ID, bounds, usable, strip)
	}
	return b.String()
}

func formatReload(data *ipc.ReloadData) string {
	var changed []string
	if data.Enabled {
		changed = append(changed, "enabled")
	}
	if data.Geometry {
		changed = append(changed, "geometry")
	}
	if data.Rendering {
		changed = append(changed, "rendering")
	}
	if data.Appearance {
		changed = append(changed, "appearance")
	}
	if len(changed) == 0 {
		return "config reloaded: no changes"
	}
	return "config reloaded: " + strings.Join(changed, ", ")
}

func formatUptime(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
