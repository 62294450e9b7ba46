package mount

import (
	"context"

	"github.com/kriansa/ordo-mount/internal/command"
)

// Mounter defines the interface for mount/unmount operations. Neither
// method interprets the exit code; callers gate on Result.Succeeded.
type Mounter interface {
	// Mount ensures path exists and mounts remote onto it. The error is
	// only set when the directory could not be prepared.
	Mount(ctx context.Context, remote, path string) (command.Result, error)
	// Unmount detaches whatever is mounted at path
	Unmount(ctx context.Context, path string) command.Result
}

// Prober checks whether a path is an active mount point. Any failure to
// determine the answer counts as not mounted.
type Prober interface {
	IsMounted(ctx context.Context, path string) bool
}
