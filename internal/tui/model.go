package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kriansa/ordo-mount/internal/drive"
	"github.com/kriansa/ordo-mount/internal/version"
)

// minLogHeight keeps the log pane usable on very small terminals
const minLogHeight = 3

// Model is the root bubbletea model. It is the single writer of the
// session: commands report back through messages handled in Update.
type Model struct {
	ctx     context.Context
	mgr     drive.Manager
	session *drive.Session

	help      help.Model
	logView   viewport.Model
	pathInput textinput.Model

	loaded      bool // remotes listed at least once
	editingPath bool
	width       int
	height      int
}

// NewModel creates the root model
func NewModel(ctx context.Context, mgr drive.Manager, session *drive.Session) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "/path/to/mount/point"
	ti.CharLimit = 4096

	return Model{
		ctx:       ctx,
		mgr:       mgr,
		session:   session,
		help:      help.New(),
		logView:   viewport.New(80, 10),
		pathInput: ti,
	}
}

// Init lists remotes once at startup
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(version.Name),
		listRemotesCmd(m.ctx, m.mgr),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logView.Width = max(msg.Width-2, 20)
		m.pathInput.Width = max(msg.Width-16, 20)
		m.resizeLog()
		m.refreshLog()
		return m, nil

	case RemotesLoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.session.Logf("Could not list remotes: %v", msg.Err)
		}
		m.session.SetRemotes(msg.Remotes)
		if len(msg.Remotes) == 0 {
			m.session.Logf("No remotes configured")
		}
		m.resizeLog()
		m.refreshLog()
		return m, m.probeSelected()

	case ProbedMsg:
		m.session.ApplyProbe(msg.Probe, msg.Mounted)
		return m, nil

	case MountDoneMsg:
		reprobe := m.session.FinishMount(msg.Remote, msg.Path, msg.Result, msg.Err)
		m.refreshLog()
		if reprobe {
			return m, m.probeSelected()
		}
		return m, nil

	case UnmountDoneMsg:
		reprobe := m.session.FinishUnmount(msg.Remote, msg.Path, msg.Result)
		m.refreshLog()
		if reprobe {
			return m, m.probeSelected()
		}
		return m, nil

	case tea.KeyMsg:
		if m.editingPath {
			if key.Matches(msg, pathKeys.Quit) {
				return m, tea.Quit
			}
			return m.updatePathInput(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.session.Prev() {
			return m, m.probeSelected()
		}

	case key.Matches(msg, keys.Down):
		if m.session.Next() {
			return m, m.probeSelected()
		}

	case key.Matches(msg, keys.Mount):
		remote, path, ok := m.session.BeginMount()
		if !ok {
			return m, nil
		}
		m.refreshLog()
		return m, mountCmd(m.ctx, m.mgr, remote, path)

	case key.Matches(msg, keys.Unmount):
		remote, path, ok := m.session.BeginUnmount()
		if !ok {
			return m, nil
		}
		m.refreshLog()
		return m, unmountCmd(m.ctx, m.mgr, remote, path)

	case key.Matches(msg, keys.Refresh):
		return m, m.probeSelected()

	case key.Matches(msg, keys.Path):
		path, ok := m.session.MountPath()
		if !ok || m.session.State().Busy() {
			return m, nil
		}
		m.editingPath = true
		m.pathInput.SetValue(path)
		m.pathInput.CursorEnd()
		cmd := m.pathInput.Focus()
		return m, cmd

	default:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updatePathInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, pathKeys.Confirm):
		m.editingPath = false
		m.pathInput.Blur()
		if m.session.SetPath(m.pathInput.Value()) {
			if path, ok := m.session.MountPath(); ok {
				m.session.Logf("Mount path set to %s", path)
			}
			m.refreshLog()
		}
		return m, m.probeSelected()

	case key.Matches(msg, pathKeys.Cancel):
		m.editingPath = false
		m.pathInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// probeSelected re-probes the selected remote's mount path, if any
func (m Model) probeSelected() tea.Cmd {
	probe, ok := m.session.BeginProbe()
	if !ok {
		return nil
	}
	return probeCmd(m.ctx, m.mgr, probe)
}

// resizeLog gives the log pane whatever height the rest of the screen
// leaves, which depends on how many remotes are listed
func (m *Model) resizeLog() {
	if m.height == 0 {
		return
	}
	// The top block ends with a newline the log box starts on; the box adds
	// two border lines and the help line follows it.
	used := lipgloss.Height(m.renderTop()) + 2
	m.logView.Height = max(m.height-used, minLogHeight)
}

func (m *Model) refreshLog() {
	m.logView.SetContent(strings.Join(m.session.Log(), "\n"))
	m.logView.GotoBottom()
}
