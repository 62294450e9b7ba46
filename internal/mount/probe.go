package mount

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/log"
	"github.com/kriansa/ordo-mount/internal/procmounts"
)

const (
	// ProbeMountpoint asks the mountpoint(1) utility
	ProbeMountpoint = "mountpoint"
	// ProbeProcMounts reads the kernel mount table directly
	ProbeProcMounts = "procmounts"
)

// NewProber creates a Prober for the named backend
func NewProber(backend string, runner command.Runner, mountpointBinary string) (Prober, error) {
	switch backend {
	case ProbeMountpoint:
		return NewMountpointProber(runner, mountpointBinary), nil
	case ProbeProcMounts:
		return NewProcMountsProber(procmounts.DefaultPath), nil
	default:
		return nil, fmt.Errorf("unknown probe: %s (use '%s' or '%s')", backend, ProbeMountpoint, ProbeProcMounts)
	}
}

// MountpointProber implements Prober with `mountpoint -q`. Only the exit
// code is considered.
type MountpointProber struct {
	runner command.Runner
	binary string
}

// NewMountpointProber creates a prober running the given mountpoint binary
func NewMountpointProber(runner command.Runner, binary string) *MountpointProber {
	return &MountpointProber{
		runner: runner,
		binary: binary,
	}
}

// IsMounted reports whether path is a mount point
func (p *MountpointProber) IsMounted(ctx context.Context, path string) bool {
	res := p.runner.Run(ctx, p.binary, "-q", path)
	if res.Err != nil {
		log.Debug("mount probe failed", "path", path, "error", res.Err)
	}
	return res.Succeeded()
}

// ProcMountsProber implements Prober by scanning a mount table file
type ProcMountsProber struct {
	tablePath string
}

// NewProcMountsProber creates a prober reading tablePath, normally
// /proc/mounts
func NewProcMountsProber(tablePath string) *ProcMountsProber {
	return &ProcMountsProber{tablePath: tablePath}
}

// IsMounted reports whether path appears as a mount point in the table
func (p *ProcMountsProber) IsMounted(_ context.Context, path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Debug("resolve probe path", "path", path, "error", err)
		return false
	}

	entries, err := procmounts.ParseFile(p.tablePath)
	if err != nil {
		log.Warn("unable to parse mounts", "error", err)
		return false
	}

	entry, ok := procmounts.Find(entries, absPath)
	if ok && !entry.IsRclone() {
		log.Debug("mount point is not an rclone mount", "path", absPath, "fstype", entry.FSType)
	}
	return ok
}
