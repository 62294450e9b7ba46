//go:build integration

// Package cliclient drives the ordo-mount binary inside a VM.
package cliclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kriansa/ordo-mount/tests/integration/vm"
)

// Result is the outcome of one ordo-mount invocation
type Result struct {
	Output   string
	ExitCode int
}

// OK reports whether the invocation exited 0
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Client runs ordo-mount subcommands over SSH
type Client struct {
	vm      vm.VM
	binary  string
	baseDir string
	timeout time.Duration
}

// New creates a client for binary, with every mount point under baseDir
func New(v vm.VM, binary, baseDir string) *Client {
	return &Client{
		vm:      v,
		binary:  binary,
		baseDir: baseDir,
		timeout: time.Minute,
	}
}

// List returns the configured remotes
func (c *Client) List(ctx context.Context) ([]string, error) {
	res, err := c.run(ctx, "list")
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("list exited %d: %s", res.ExitCode, res.Output)
	}

	var remotes []string
	for _, line := range strings.Split(res.Output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			remotes = append(remotes, line)
		}
	}
	return remotes, nil
}

// Mount mounts remote, at path when non-empty
func (c *Client) Mount(ctx context.Context, remote, path string) (Result, error) {
	return c.run(ctx, withPath("mount", remote, path)...)
}

// Unmount unmounts remote, at path when non-empty
func (c *Client) Unmount(ctx context.Context, remote, path string) (Result, error) {
	return c.run(ctx, withPath("unmount", remote, path)...)
}

// Status reports whether remote is mounted, at path when non-empty
func (c *Client) Status(ctx context.Context, remote, path string) (bool, error) {
	res, err := c.run(ctx, withPath("status", remote, path)...)
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(res.Output) {
	case "mounted":
		return res.ExitCode == 0, nil
	case "unmounted":
		return false, nil
	}
	return false, fmt.Errorf("unexpected status output (exit %d): %q", res.ExitCode, res.Output)
}

// withPath builds "<cmd> [--path P] <remote>"
func withPath(cmd, remote, path string) []string {
	args := []string{cmd}
	if path != "" {
		args = append(args, "--path", path)
	}
	return append(args, remote)
}

func (c *Client) run(ctx context.Context, args ...string) (Result, error) {
	line := []string{c.binary, "--base-dir", quote(c.baseDir)}
	for _, a := range args {
		line = append(line, quote(a))
	}

	out, code, err := c.vm.ExecWithTimeout(ctx, strings.Join(line, " "), c.timeout)
	if err != nil {
		return Result{}, fmt.Errorf("run %s: %w", args[0], err)
	}
	return Result{Output: out, ExitCode: code}, nil
}

// quote wraps s in single quotes for the remote shell
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
