//go:build integration

package vm

import (
	"context"
	"time"
)

// VM is a disposable machine with rclone and FUSE available, reachable
// over SSH.
type VM interface {
	// Exec runs cmd and returns its combined output and exit status.
	// A non-nil error means the command could not be run at all.
	Exec(cmd string) (output string, exitCode int, err error)
	ExecWithTimeout(ctx context.Context, cmd string, timeout time.Duration) (string, int, error)
	CopyFile(localPath, remotePath string) error
	Stop()
	IsRunning() bool
	WaitForSSH(ctx context.Context) error
}
