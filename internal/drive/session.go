package drive

import (
	"fmt"
	"strings"

	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/paths"
	"github.com/kriansa/ordo-mount/internal/rclone"
)

// maxLogLines caps the session log kept in memory
const maxLogLines = 500

// PathResolver derives the default mount point of a remote
type PathResolver func(remote, baseDir string) string

// Session is the application state behind the interactive UI: the remote
// set, the selection, path overrides, cached state and the log. It is not
// safe for concurrent use; a single event loop owns it and applies command
// results to it.
type Session struct {
	remotes   []rclone.Remote
	selected  int
	baseDir   string
	overrides map[rclone.Remote]string
	state     State
	lines     []string
	resolve   PathResolver
	probeGen  uint64
}

// Probe identifies one probe request. Answers are applied only while no
// selection, path or command change happened since the request was made.
type Probe struct {
	Path string
	gen  uint64
}

// NewSession creates an empty session resolving default paths under baseDir
func NewSession(baseDir string) *Session {
	return &Session{
		baseDir:   baseDir,
		overrides: make(map[rclone.Remote]string),
		resolve:   paths.DefaultPathFor,
	}
}

// SetResolver replaces the default path resolver
func (s *Session) SetResolver(r PathResolver) {
	s.resolve = r
}

// SetRemotes replaces the remote set and selects the first entry
func (s *Session) SetRemotes(remotes []rclone.Remote) {
	s.remotes = append([]rclone.Remote(nil), remotes...)
	s.selected = 0
	s.state = Unmounted
	s.probeGen++
}

// Remotes returns the remote set
func (s *Session) Remotes() []rclone.Remote {
	return s.remotes
}

// SelectedIndex returns the index of the selected remote
func (s *Session) SelectedIndex() int {
	return s.selected
}

// Selected returns the selected remote, or false when there are none
func (s *Session) Selected() (rclone.Remote, bool) {
	if s.selected < 0 || s.selected >= len(s.remotes) {
		return "", false
	}
	return s.remotes[s.selected], true
}

// Select changes the selection. It returns true when the selection
// actually changed, in which case the caller should re-probe.
func (s *Session) Select(i int) bool {
	if i < 0 || i >= len(s.remotes) || i == s.selected || s.state.Busy() {
		return false
	}
	s.selected = i
	s.probeGen++
	return true
}

// Next selects the following remote
func (s *Session) Next() bool {
	return s.Select(s.selected + 1)
}

// Prev selects the preceding remote
func (s *Session) Prev() bool {
	return s.Select(s.selected - 1)
}

// MountPath returns where the selected remote mounts: its override if one
// was set during this session, the default path otherwise
func (s *Session) MountPath() (string, bool) {
	remote, ok := s.Selected()
	if !ok {
		return "", false
	}
	if p, ok := s.overrides[remote]; ok {
		return p, true
	}
	return s.resolve(remote, s.baseDir), true
}

// SetPath overrides the mount path of the selected remote. An empty path
// restores the default.
func (s *Session) SetPath(path string) bool {
	remote, ok := s.Selected()
	if !ok || s.state.Busy() {
		return false
	}

	path = strings.TrimSpace(path)
	if path == "" {
		delete(s.overrides, remote)
	} else {
		s.overrides[remote] = path
	}
	s.probeGen++
	return true
}

// State returns the cached state
func (s *Session) State() State {
	return s.state
}

// BeginMount moves to Mounting and returns what to mount. It is a no-op
// without remotes or while another command runs. The cached state is not
// consulted otherwise: mounting an already mounted remote is attempted.
func (s *Session) BeginMount() (remote rclone.Remote, path string, ok bool) {
	if s.state.Busy() {
		return "", "", false
	}
	remote, ok = s.Selected()
	if !ok {
		return "", "", false
	}
	path, _ = s.MountPath()

	s.state = Mounting
	s.probeGen++
	s.Logf("Mounting %s...", remote)
	return remote, path, true
}

// FinishMount applies a mount outcome. It returns true when the outcome
// was a failure and the real state must be re-probed.
func (s *Session) FinishMount(remote rclone.Remote, path string, res command.Result, err error) bool {
	if err != nil {
		s.Logf("Mounting %s failed: %v", remote, err)
		s.state = Unmounted
		return true
	}

	s.logResult(res)
	if !res.Succeeded() {
		s.Logf("Mounting %s failed: %s", remote, res.Outcome())
		s.state = Unmounted
		return true
	}

	s.state = Mounted
	s.Logf("%s mounted at %s", remote, path)
	return false
}

// BeginUnmount moves to Unmounting and returns what to unmount
func (s *Session) BeginUnmount() (remote rclone.Remote, path string, ok bool) {
	if s.state.Busy() {
		return "", "", false
	}
	remote, ok = s.Selected()
	if !ok {
		return "", "", false
	}
	path, _ = s.MountPath()

	s.state = Unmounting
	s.probeGen++
	s.Logf("Unmounting %s...", remote)
	return remote, path, true
}

// FinishUnmount applies an unmount outcome. It returns true when the
// state must be re-probed.
func (s *Session) FinishUnmount(remote rclone.Remote, path string, res command.Result) bool {
	s.logResult(res)
	if !res.Succeeded() {
		s.Logf("Unmounting %s failed: %s", remote, res.Outcome())
		s.state = Mounted
		return true
	}

	s.state = Unmounted
	s.Logf("%s unmounted from %s", remote, path)
	return false
}

// BeginProbe returns the probe request for the selected mount path, or
// false when there is nothing to probe
func (s *Session) BeginProbe() (Probe, bool) {
	path, ok := s.MountPath()
	if !ok {
		return Probe{}, false
	}
	return Probe{Path: path, gen: s.probeGen}, true
}

// ApplyProbe records a probe answer. Answers requested before the last
// selection, path or command change, or that arrive while a command runs,
// are dropped.
func (s *Session) ApplyProbe(p Probe, mounted bool) bool {
	if p.gen != s.probeGen || s.state.Busy() {
		return false
	}
	if current, ok := s.MountPath(); !ok || current != p.Path {
		return false
	}
	s.state = FromProbe(mounted)
	return true
}

// Logf appends a line to the session log
func (s *Session) Logf(format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
	if len(s.lines) > maxLogLines {
		s.lines = s.lines[len(s.lines)-maxLogLines:]
	}
}

// Log returns the session log
func (s *Session) Log() []string {
	return s.lines
}

// logResult records the command line and its raw output
func (s *Session) logResult(res command.Result) {
	if len(res.Args) > 0 {
		s.Logf("%s", res.CommandLine())
	}
	if out := strings.TrimRight(res.Output, "\n"); out != "" {
		for _, line := range strings.Split(out, "\n") {
			s.Logf("%s", line)
		}
	}
}
