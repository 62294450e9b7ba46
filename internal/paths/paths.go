// Package paths resolves where a remote gets mounted locally.
package paths

import (
	"fmt"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// mountsDirName is the per-user directory holding one mount point per remote
const mountsDirName = "mounts"

// DefaultPathFor returns the mount point for remote under baseDir. One
// trailing colon is stripped from the remote name. No filesystem access
// takes place.
func DefaultPathFor(remote, baseDir string) string {
	return filepath.Join(baseDir, strings.TrimSuffix(remote, ":"))
}

// DefaultBaseDir returns the per-user mounts directory for the given OS and
// login name: C:\Users\<user>\mounts on Windows, /home/<user>/mounts
// elsewhere.
func DefaultBaseDir(goos, username string) string {
	if goos == "windows" {
		// user.Current reports DOMAIN\name on Windows
		if i := strings.LastIndex(username, `\`); i >= 0 {
			username = username[i+1:]
		}
		return `C:\Users\` + username + `\` + mountsDirName
	}
	return "/home/" + username + "/" + mountsDirName
}

// CurrentBaseDir returns DefaultBaseDir for the invoking user
func CurrentBaseDir() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("look up current user: %w", err)
	}
	return DefaultBaseDir(runtime.GOOS, u.Username), nil
}
