package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kriansa/ordo-mount/internal/drive"
	"github.com/kriansa/ordo-mount/internal/rclone"
)

// Commands run off the event loop and only report back through messages;
// the session is never touched here.

func listRemotesCmd(ctx context.Context, mgr drive.Manager) tea.Cmd {
	return func() tea.Msg {
		remotes, err := mgr.ListRemotes(ctx)
		return RemotesLoadedMsg{Remotes: remotes, Err: err}
	}
}

func probeCmd(ctx context.Context, mgr drive.Manager, probe drive.Probe) tea.Cmd {
	return func() tea.Msg {
		return ProbedMsg{Probe: probe, Mounted: mgr.IsMounted(ctx, probe.Path)}
	}
}

func mountCmd(ctx context.Context, mgr drive.Manager, remote rclone.Remote, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := mgr.Mount(ctx, remote, path)
		return MountDoneMsg{Remote: remote, Path: path, Result: res, Err: err}
	}
}

func unmountCmd(ctx context.Context, mgr drive.Manager, remote rclone.Remote, path string) tea.Cmd {
	return func() tea.Msg {
		return UnmountDoneMsg{Remote: remote, Path: path, Result: mgr.Unmount(ctx, path)}
	}
}
