package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kriansa/ordo-mount/internal/drive"
)

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTop())
	b.WriteString(logBoxStyle.Render(m.logView.View()))
	b.WriteString("\n")

	if m.editingPath {
		b.WriteString(m.help.View(pathKeys))
	} else {
		b.WriteString(m.help.View(keys))
	}

	return b.String()
}

// renderTop draws everything above the log pane
func (m Model) renderTop() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Ordo Mount"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderRemotes(),
		"    ",
		renderStatus(m.session.State()),
	))
	b.WriteString("\n\n")

	b.WriteString(m.renderPath())
	b.WriteString("\n\n")

	return b.String()
}

func (m Model) renderRemotes() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Select Drive:"))
	b.WriteString("\n")

	remotes := m.session.Remotes()
	switch {
	case !m.loaded:
		b.WriteString(remoteStyle.Render("  loading..."))
	case len(remotes) == 0:
		b.WriteString(remoteStyle.Render("  (no remotes)"))
	}

	for i, r := range remotes {
		if i == m.session.SelectedIndex() {
			b.WriteString(selectedStyle.Render("> " + r))
		} else {
			b.WriteString(remoteStyle.Render("  " + r))
		}
		if i < len(remotes)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderPath() string {
	label := labelStyle.Render("Mount Path: ")
	if m.editingPath {
		return label + m.pathInput.View()
	}
	path, ok := m.session.MountPath()
	if !ok {
		return label + remoteStyle.Render("-")
	}
	return label + path
}

// renderStatus draws the status light and its label
func renderStatus(s drive.State) string {
	style := lipgloss.NewStyle().Foreground(statusColor(s))
	return style.Render("●") + " " + style.Render(s.String())
}

func statusColor(s drive.State) lipgloss.Color {
	switch s {
	case drive.Mounted:
		return colorMounted
	case drive.Mounting, drive.Unmounting:
		return colorBusy
	default:
		return colorUnmounted
	}
}
