package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateMountPath checks that a mount point is usable before any
// directory gets created for it:
// - not empty or whitespace only
// - not the filesystem root
// - no NUL bytes
func ValidateMountPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("mount path must not be empty")
	}

	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("mount path must not contain NUL bytes")
	}

	clean := filepath.Clean(path)
	if clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return fmt.Errorf("refusing to mount over the filesystem root")
	}

	return nil
}
