package tui

import (
	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/drive"
	"github.com/kriansa/ordo-mount/internal/rclone"
)

// RemotesLoadedMsg carries the result of listing remotes.
type RemotesLoadedMsg struct {
	Remotes []rclone.Remote
	Err     error
}

// ProbedMsg carries the answer to a probe request.
type ProbedMsg struct {
	Probe   drive.Probe
	Mounted bool
}

// MountDoneMsg carries the outcome of a mount command.
type MountDoneMsg struct {
	Remote rclone.Remote
	Path   string
	Result command.Result
	Err    error
}

// UnmountDoneMsg carries the outcome of an unmount command.
type UnmountDoneMsg struct {
	Remote rclone.Remote
	Path   string
	Result command.Result
}
