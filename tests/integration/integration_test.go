//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/kriansa/ordo-mount/tests/integration/cliclient"
	"github.com/kriansa/ordo-mount/tests/integration/log"
	"github.com/kriansa/ordo-mount/tests/integration/vm"
)

const (
	binaryPath   = "/usr/local/bin/ordo-mount"
	baseDir      = "/home/fedora/mounts"
	workDataDir  = "/home/fedora/work-data"
	markerFile   = "hello.txt"
	setupTimeout = 2 * time.Minute
)

var (
	testVM     vm.VM
	testClient *cliclient.Client
)

// TestMain boots one VM shared by every test
func TestMain(m *testing.M) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fatalf("\nInterrupted, shutting down...")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	var err error
	testVM, err = vm.StartQEMU(context.Background())
	if err != nil {
		fatalf("Failed to start VM: %v", err)
	}

	setupVM(ctx, testVM)
	cancel()

	testClient = cliclient.New(testVM, binaryPath, baseDir)

	log.Status("Running tests...")
	code := m.Run()

	testVM.Stop()
	os.Exit(code)
}

// fatalf reports a setup failure and exits; *testing.T is not available yet
func fatalf(format string, args ...any) {
	log.Status(format, args...)
	if testVM != nil {
		testVM.Stop()
	}
	os.Exit(1)
}

// mustExec runs a setup command and aborts the run when it fails
func mustExec(v vm.VM, what, cmd string) {
	out, code, err := v.Exec(cmd)
	if err != nil || code != 0 {
		fatalf("Failed to %s (exit %d, err %v):\n%s", what, code, err, out)
	}
}

func setupVM(ctx context.Context, v vm.VM) {
	localBinary := os.Getenv("ORDO_MOUNT_BINARY")
	if localBinary == "" {
		localBinary = "../../build/dist/ordo-mount"
	}
	if _, err := os.Stat(localBinary); err != nil {
		fatalf("ordo-mount binary not found at %s. Build it or set ORDO_MOUNT_BINARY.", localBinary)
	}

	if err := v.WaitForSSH(ctx); err != nil {
		fatalf("Failed waiting for SSH: %v", err)
	}

	log.Status("Checking required tools...")
	mustExec(v, "find rclone, fusermount and mountpoint", "command -v rclone fusermount mountpoint")

	log.Status("Installing ordo-mount...")
	tmp := "/tmp/ordo-mount"
	if err := v.CopyFile(localBinary, tmp); err != nil {
		fatalf("Failed to copy binary: %v", err)
	}
	mustExec(v, "install binary", fmt.Sprintf("sudo install -m 0755 %s %s", tmp, binaryPath))

	log.Status("Configuring rclone remotes...")
	mustExec(v, "create test data", fmt.Sprintf("mkdir -p %s && echo hello > %s/%s", workDataDir, workDataDir, markerFile))
	mustExec(v, "create work remote", fmt.Sprintf("rclone config create work alias remote=%s", workDataDir))
	mustExec(v, "create archive remote", "rclone config create archive memory")
}
