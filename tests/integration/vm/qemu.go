//go:build integration

package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/kriansa/ordo-mount/tests/integration/log"
)

const defaultImagePath = "../images/fedora-rclone.qcow2"

// QEMU is a QEMU virtual machine booted from a throwaway overlay image
type QEMU struct {
	cmd     *exec.Cmd
	client  *ssh.Client
	config  QEMUConfig
	overlay string
	mu      sync.Mutex
}

// QEMUConfig holds configuration for starting a VM
type QEMUConfig struct {
	ImagePath  string
	SSHPort    int
	SSHUser    string
	SSHPass    string
	SSHTimeout time.Duration
	Memory     int
	CPUs       int
}

// DefaultConfig reads VM_IMAGE and VM_SSH_PORT and fills in the rest
func DefaultConfig() (QEMUConfig, error) {
	image, err := imagePath()
	if err != nil {
		return QEMUConfig{}, err
	}

	port := 10022
	if v := os.Getenv("VM_SSH_PORT"); v != "" {
		port, err = strconv.Atoi(v)
		if err != nil {
			return QEMUConfig{}, fmt.Errorf("invalid VM_SSH_PORT %q: %w", v, err)
		}
	}

	return QEMUConfig{
		ImagePath:  image,
		SSHPort:    port,
		SSHUser:    "fedora",
		SSHPass:    "fedora",
		SSHTimeout: 2 * time.Minute,
		Memory:     1024,
		CPUs:       2,
	}, nil
}

// StartQEMU boots a VM with the default configuration
func StartQEMU(ctx context.Context) (*QEMU, error) {
	config, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	return StartQEMUWithConfig(ctx, config)
}

// StartQEMUWithConfig boots a VM on top of a fresh qcow2 overlay so the
// base image is never written to
func StartQEMUWithConfig(ctx context.Context, config QEMUConfig) (*QEMU, error) {
	if config.ImagePath == "" {
		return nil, errors.New("image path is required")
	}
	if _, err := os.Stat(config.ImagePath); err != nil {
		return nil, fmt.Errorf("image not found: %w", err)
	}

	overlay := filepath.Join(os.TempDir(), fmt.Sprintf("ordo-mount-it-%d.qcow2", os.Getpid()))
	out, err := exec.CommandContext(ctx, "qemu-img", "create",
		"-f", "qcow2", "-F", "qcow2",
		"-b", config.ImagePath,
		overlay,
	).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("create overlay: %w: %s", err, out)
	}

	log.Status("Booting VM from %s", config.ImagePath)
	cmd := exec.CommandContext(ctx, "qemu-system-x86_64",
		"-machine", "type=q35,accel=kvm",
		"-cpu", "host",
		"-m", strconv.Itoa(config.Memory),
		"-smp", strconv.Itoa(config.CPUs),
		"-drive", fmt.Sprintf("file=%s,if=virtio,format=qcow2", overlay),
		"-netdev", fmt.Sprintf("user,id=net0,hostfwd=tcp:127.0.0.1:%d-:22", config.SSHPort),
		"-device", "virtio-net,netdev=net0",
		"-display", "none",
		"-serial", "null",
	)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		_ = os.Remove(overlay)
		return nil, fmt.Errorf("start qemu: %w", err)
	}

	return &QEMU{cmd: cmd, config: config, overlay: overlay}, nil
}

func imagePath() (string, error) {
	path := os.Getenv("VM_IMAGE")
	if path == "" {
		path = defaultImagePath
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("VM image %s not found; build it or set VM_IMAGE", path)
	}
	return filepath.Abs(path)
}

// WaitForSSH polls until the guest accepts an SSH login
func (vm *QEMU) WaitForSSH(ctx context.Context) error {
	clientConfig := &ssh.ClientConfig{
		User:            vm.config.SSHUser,
		Auth:            []ssh.AuthMethod{ssh.Password(vm.config.SSHPass)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	}
	addr := fmt.Sprintf("127.0.0.1:%d", vm.config.SSHPort)

	ctx, cancel := context.WithTimeout(ctx, vm.config.SSHTimeout)
	defer cancel()

	log.Status("Waiting for SSH on %s...", addr)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var lastErr error
	for {
		client, err := ssh.Dial("tcp", addr, clientConfig)
		if err == nil {
			vm.mu.Lock()
			vm.client = client
			vm.mu.Unlock()
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("ssh not available after %v: %w", vm.config.SSHTimeout, lastErr)
		case <-ticker.C:
		}
	}
}

// Exec runs cmd through a new SSH session
func (vm *QEMU) Exec(cmd string) (string, int, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.client == nil {
		return "", -1, errors.New("ssh client not connected")
	}

	session, err := vm.client.NewSession()
	if err != nil {
		return "", -1, fmt.Errorf("new session: %w", err)
	}
	defer func() { _ = session.Close() }()

	out, err := session.CombinedOutput(cmd)
	var exitErr *ssh.ExitError
	switch {
	case err == nil:
		return string(out), 0, nil
	case errors.As(err, &exitErr):
		return string(out), exitErr.ExitStatus(), nil
	default:
		return string(out), -1, err
	}
}

// ExecWithTimeout is Exec bounded by timeout
func (vm *QEMU) ExecWithTimeout(ctx context.Context, cmd string, timeout time.Duration) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		out  string
		code int
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		out, code, err := vm.Exec(cmd)
		ch <- result{out, code, err}
	}()

	select {
	case <-ctx.Done():
		return "", -1, ctx.Err()
	case r := <-ch:
		return r.out, r.code, r.err
	}
}

// CopyFile uploads an executable to the guest over SFTP
func (vm *QEMU) CopyFile(localPath, remotePath string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.client == nil {
		return errors.New("ssh client not connected")
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() { _ = src.Close() }()

	client, err := sftp.NewClient(vm.client)
	if err != nil {
		return fmt.Errorf("create sftp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.MkdirAll(filepath.Dir(remotePath)); err != nil {
		return fmt.Errorf("create remote directory: %w", err)
	}

	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create remote file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := dst.ReadFrom(src); err != nil {
		return fmt.Errorf("upload %s: %w", localPath, err)
	}

	return client.Chmod(remotePath, 0755)
}

// Stop powers the guest off, kills QEMU and removes the overlay
func (vm *QEMU) Stop() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.client != nil {
		if session, err := vm.client.NewSession(); err == nil {
			_ = session.Run("sudo systemctl poweroff")
			_ = session.Close()
			time.Sleep(2 * time.Second)
		}
		_ = vm.client.Close()
		vm.client = nil
	}

	log.Status("Stopping VM...")
	if vm.cmd != nil && vm.cmd.Process != nil {
		_ = vm.cmd.Process.Kill()
		_ = vm.cmd.Wait()
		vm.cmd = nil
	}

	if vm.overlay != "" {
		_ = os.Remove(vm.overlay)
		vm.overlay = ""
	}
}

// IsRunning reports whether the QEMU process has not exited
func (vm *QEMU) IsRunning() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return vm.cmd != nil && vm.cmd.Process != nil && vm.cmd.ProcessState == nil
}
