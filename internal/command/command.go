// Package command runs external programs with a bounded wait and reports
// their outcome as a Result instead of an error, so callers decide success
// from the exit code.
package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kriansa/ordo-mount/internal/log"
)

// ErrTimeout is set on a Result whose command exceeded its timeout.
var ErrTimeout = errors.New("command timed out")

// waitDelay bounds how long Run waits for output pipes after the process
// exits. A daemonizing child may inherit them and never close them.
const waitDelay = 2 * time.Second

// Result is the outcome of a single external command.
type Result struct {
	// Args is the full argv, program name first
	Args []string
	// Output is the combined stdout and stderr text
	Output string
	// ExitCode is the process exit code, or -1 if it never exited normally
	ExitCode int
	// TimedOut is true when the command was killed after its timeout
	TimedOut bool
	// Err is set when the command could not be started, timed out or was
	// cancelled. A non-zero exit alone does not set Err.
	Err error
}

// Succeeded reports whether the command ran and exited with status zero.
func (r Result) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// CommandLine returns the argv joined by spaces, for display.
func (r Result) CommandLine() string {
	return strings.Join(r.Args, " ")
}

// Outcome describes the result in a few words.
func (r Result) Outcome() string {
	switch {
	case r.TimedOut:
		return "timed out"
	case r.Err != nil:
		return fmt.Sprintf("failed: %v", r.Err)
	case r.ExitCode != 0:
		return fmt.Sprintf("exit status %d", r.ExitCode)
	default:
		return "ok"
	}
}

// Runner runs external programs.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Result
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates a runner that kills commands running longer than
// timeout. A zero timeout waits indefinitely.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run executes name with args and captures its combined output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res := Result{Args: append([]string{name}, args...)}
	log.Debug("running command", "cmd", res.CommandLine())

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	output, err := cmd.CombinedOutput()
	res.Output = string(output)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = -1
		res.TimedOut = true
		res.Err = fmt.Errorf("%s: %w after %v", name, ErrTimeout, r.timeout)
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.Err = fmt.Errorf("%s: %w", name, ctx.Err())
	case errors.Is(err, exec.ErrWaitDelay):
		// The process exited; only a detached child kept the pipes open.
		res.ExitCode = cmd.ProcessState.ExitCode()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = fmt.Errorf("%s: %w", name, err)
	}

	log.Debug("command finished", "cmd", res.CommandLine(), "exit", res.ExitCode, "outcome", res.Outcome())
	return res
}
