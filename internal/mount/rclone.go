package mount

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/log"
	"github.com/kriansa/ordo-mount/internal/rclone"
	"github.com/kriansa/ordo-mount/internal/validation"
)

// RcloneMounter implements Mounter with `rclone mount --daemon` and
// `fusermount -uz`
type RcloneMounter struct {
	runner     command.Runner
	rclone     *rclone.CLI
	fusermount string
	extraArgs  []string
}

// NewRcloneMounter creates a mounter. extraArgs are appended to every
// rclone mount invocation.
func NewRcloneMounter(runner command.Runner, cli *rclone.CLI, fusermount string, extraArgs []string) *RcloneMounter {
	return &RcloneMounter{
		runner:     runner,
		rclone:     cli,
		fusermount: fusermount,
		extraArgs:  extraArgs,
	}
}

// Mount creates path (and parents) if needed, then runs rclone mount
func (m *RcloneMounter) Mount(ctx context.Context, remote, path string) (command.Result, error) {
	if err := validation.ValidateMountPath(path); err != nil {
		return command.Result{}, err
	}

	if err := prepareMountPoint(path); err != nil {
		return command.Result{}, fmt.Errorf("prepare mount point: %w", err)
	}

	log.Debug("mounting remote", "remote", remote, "path", path)
	return m.runner.Run(ctx, m.rclone.Binary(), m.rclone.MountArgs(remote, path, m.extraArgs...)...), nil
}

// Unmount runs a lazy forced FUSE unmount of path
func (m *RcloneMounter) Unmount(ctx context.Context, path string) command.Result {
	log.Debug("unmounting", "path", path)
	return m.runner.Run(ctx, m.fusermount, "-uz", path)
}

// prepareMountPoint makes sure path is a directory. Existing directories
// are left alone, including non-empty ones since rclone is invoked with
// --allow-non-empty.
func prepareMountPoint(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("mount point %s exists but is not a directory", path)
		}
		return nil
	} else if errors.Is(err, syscall.ENOTCONN) {
		// Stale FUSE mount: the directory is there, let rclone report it
		log.Debug("stale mount point", "path", path, "error", err)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat mount point: %w", err)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create mount point: %w", err)
	}
	return nil
}
