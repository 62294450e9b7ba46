// Package drive ties remote listing, mounting and probing together behind
// a single capability the presentation layers depend on.
package drive

import (
	"context"
	"fmt"
	"sync"

	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/log"
	"github.com/kriansa/ordo-mount/internal/mount"
	"github.com/kriansa/ordo-mount/internal/notify"
	"github.com/kriansa/ordo-mount/internal/rclone"
)

// Manager is everything the CLI and the terminal UI need from the system
type Manager interface {
	// ListRemotes returns configured remotes in listing order
	ListRemotes(ctx context.Context) ([]rclone.Remote, error)
	// Mount mounts remote at path
	Mount(ctx context.Context, remote rclone.Remote, path string) (command.Result, error)
	// Unmount unmounts path
	Unmount(ctx context.Context, path string) command.Result
	// IsMounted probes path
	IsMounted(ctx context.Context, path string) bool
}

// RemoteLister lists configured remotes
type RemoteLister interface {
	ListRemotes(ctx context.Context) ([]rclone.Remote, error)
}

// Service implements Manager on top of the external tools
type Service struct {
	mu       sync.Mutex
	lister   RemoteLister
	mounter  mount.Mounter
	prober   mount.Prober
	notifier notify.Notifier
}

// NewService creates a new drive service
func NewService(
	lister RemoteLister,
	mounter mount.Mounter,
	prober mount.Prober,
	notifier notify.Notifier,
) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		lister:   lister,
		mounter:  mounter,
		prober:   prober,
		notifier: notifier,
	}
}

// ListRemotes returns the configured remotes
func (s *Service) ListRemotes(ctx context.Context) ([]rclone.Remote, error) {
	log.Debug("listing remotes")

	remotes, err := s.lister.ListRemotes(ctx)
	if err != nil {
		log.Warn("unable to list remotes", "error", err)
		return []rclone.Remote{}, err
	}

	log.Debug("remotes listed", "count", len(remotes))
	return remotes, nil
}

// Mount mounts remote at path. The mount command is issued regardless of
// the current state; a failing command is reported through the Result.
func (s *Service) Mount(ctx context.Context, remote rclone.Remote, path string) (command.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debug("mounting remote", "remote", remote, "path", path)

	res, err := s.mounter.Mount(ctx, remote, path)
	if err != nil {
		log.Error("mount failed", "remote", remote, "path", path, "error", err)
		s.notify(fmt.Sprintf("Mounting %s failed", remote), err.Error())
		return res, err
	}

	if !res.Succeeded() {
		log.Warn("mount command failed", "remote", remote, "path", path, "outcome", res.Outcome())
		s.notify(fmt.Sprintf("Mounting %s failed", remote), res.Outcome())
		return res, nil
	}

	log.Info("remote mounted", "remote", remote, "path", path)
	s.notify(fmt.Sprintf("%s mounted", remote), path)
	return res, nil
}

// Unmount unmounts path
func (s *Service) Unmount(ctx context.Context, path string) command.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debug("unmounting", "path", path)

	res := s.mounter.Unmount(ctx, path)
	if !res.Succeeded() {
		log.Warn("unmount command failed", "path", path, "outcome", res.Outcome())
		s.notify("Unmount failed", fmt.Sprintf("%s: %s", path, res.Outcome()))
		return res
	}

	log.Info("path unmounted", "path", path)
	s.notify("Unmounted", path)
	return res
}

// IsMounted probes path
func (s *Service) IsMounted(ctx context.Context, path string) bool {
	mounted := s.prober.IsMounted(ctx, path)
	log.Debug("probed mount state", "path", path, "mounted", mounted)
	return mounted
}

func (s *Service) notify(summary, body string) {
	if err := s.notifier.Notify(summary, body); err != nil {
		log.Warn("failed to send notification", "summary", summary, "error", err)
	}
}
