//go:build integration

package log

import (
	"fmt"
	"os"
)

// Status prints a progress line right away, outside of test output buffering.
func Status(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stdout, "==> "+format+"\n", args...)
}
