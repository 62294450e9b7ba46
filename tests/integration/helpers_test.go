//go:build integration

package integration

import (
	"context"
	"fmt"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// defaultMountPath is where ordo-mount mounts remote without --path
func defaultMountPath(remote string) string {
	return path.Join(baseDir, strings.TrimSuffix(remote, ":"))
}

// cleanupMount lazily unmounts mountPoint when the test ends
func cleanupMount(t *testing.T, mountPoint string) {
	t.Cleanup(func() {
		_, _, _ = testVM.Exec(fmt.Sprintf("fusermount -uz %s 2>/dev/null || true", mountPoint))
	})
}

// assertKernelMounted checks the mount table inside the VM directly
func assertKernelMounted(t *testing.T, mountPoint string, want bool) {
	t.Helper()
	_, code, err := testVM.Exec(fmt.Sprintf("mountpoint -q %s", mountPoint))
	require.NoError(t, err)
	if want {
		require.Zero(t, code, "%s should be a mount point", mountPoint)
	} else {
		require.NotZero(t, code, "%s should not be a mount point", mountPoint)
	}
}

// assertStatus checks what ordo-mount status reports for remote
func assertStatus(t *testing.T, remote, mountPoint string, want bool) {
	t.Helper()
	mounted, err := testClient.Status(context.Background(), remote, mountPoint)
	require.NoError(t, err, "status should run")
	require.Equal(t, want, mounted, "status of %s at %s", remote, mountPoint)
}

// mountRemote mounts remote and registers cleanup
func mountRemote(t *testing.T, remote, mountPoint string) {
	t.Helper()
	target := mountPoint
	if target == "" {
		target = defaultMountPath(remote)
	}
	cleanupMount(t, target)

	res, err := testClient.Mount(context.Background(), remote, mountPoint)
	require.NoError(t, err)
	require.True(t, res.OK(), "mount %s should succeed, exit %d:\n%s", remote, res.ExitCode, res.Output)
}
