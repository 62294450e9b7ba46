// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"sync"

	"github.com/kriansa/ordo-mount/internal/command"
)

// Call records one invocation of the fake runner
type Call struct {
	Name string
	Args []string
}

// Runner is a command.Runner that never spawns processes. Responses are
// looked up by program name; Handler, when set, takes precedence.
// Unknown programs behave like a missing binary.
type Runner struct {
	mu        sync.Mutex
	calls     []Call
	Responses map[string]command.Result
	Handler   func(name string, args []string) command.Result
}

// New creates a runner answering with the given per-program results
func New(responses map[string]command.Result) *Runner {
	if responses == nil {
		responses = map[string]command.Result{}
	}
	return &Runner{Responses: responses}
}

func (r *Runner) Run(_ context.Context, name string, args ...string) command.Result {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Name: name, Args: append([]string(nil), args...)})
	handler := r.Handler
	res, ok := r.Responses[name]
	r.mu.Unlock()

	if handler != nil {
		res = handler(name, args)
		ok = true
	}
	if !ok {
		res = command.Result{ExitCode: -1, Err: errNotFound(name)}
	}
	res.Args = append([]string{name}, args...)
	return res
}

// Calls returns a copy of the recorded invocations
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Last returns the most recent invocation, or false if there was none
func (r *Runner) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

type errNotFound string

func (e errNotFound) Error() string {
	return "exec: " + string(e) + ": executable file not found in $PATH"
}
