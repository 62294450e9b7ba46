package rclone

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/log"
)

// Remote is a configured rclone remote exactly as listremotes prints it,
// usually with a trailing colon (e.g. "work:").
type Remote = string

// ErrListFailed is returned when the remote listing command could not be
// run or exited with a non-zero status.
var ErrListFailed = errors.New("listing remotes failed")

// CLI drives the rclone binary
type CLI struct {
	runner     command.Runner
	binary     string
	configPath string
}

// NewCLI creates an rclone driver. configPath is passed as --config when
// set; otherwise rclone uses its own default config location.
func NewCLI(runner command.Runner, binary, configPath string) *CLI {
	return &CLI{
		runner:     runner,
		binary:     binary,
		configPath: configPath,
	}
}

// Binary returns the rclone executable this driver invokes
func (c *CLI) Binary() string {
	return c.binary
}

// globalArgs returns flags that precede every rclone subcommand
func (c *CLI) globalArgs() []string {
	if c.configPath == "" {
		return nil
	}
	return []string{"--config", c.configPath}
}

// ListRemotes returns the configured remotes in the order rclone prints
// them. On failure the slice is empty and the error wraps ErrListFailed.
func (c *CLI) ListRemotes(ctx context.Context) ([]Remote, error) {
	args := append(c.globalArgs(), "listremotes")
	res := c.runner.Run(ctx, c.binary, args...)
	if !res.Succeeded() {
		log.Debug("listremotes failed", "outcome", res.Outcome(), "output", res.Output)
		return []Remote{}, fmt.Errorf("%w: %s: %s", ErrListFailed, res.CommandLine(), res.Outcome())
	}

	remotes := ParseRemotes(res.Output)
	log.Debug("listed remotes", "count", len(remotes))
	return remotes, nil
}

// MountArgs builds the argv (without the binary) for mounting remote at
// path as a daemon. extra is appended after the fixed flags.
func (c *CLI) MountArgs(remote Remote, path string, extra ...string) []string {
	args := append(c.globalArgs(), "mount", remote, path, "--allow-non-empty", "--daemon")
	return append(args, extra...)
}

// ParseRemotes splits listremotes output into remote names. Lines are
// trimmed and blank lines dropped, so the result has one entry per
// non-empty line, in order.
func ParseRemotes(output string) []Remote {
	remotes := []Remote{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		remotes = append(remotes, line)
	}

	return remotes
}
