package procmounts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultPath is the kernel mount table on Linux
const DefaultPath = "/proc/mounts"

// ParseFile reads and parses a mount table file such as /proc/mounts
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// Parse parses mount table lines. Malformed lines are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		entries = append(entries, Entry{
			Device:     unescapeField(fields[0]),
			MountPoint: unescapeField(fields[1]),
			FSType:     fields[2],
			Options:    fields[3],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Find returns the entry mounted at mountPoint. The last matching entry
// wins since later mounts shadow earlier ones.
func Find(entries []Entry, mountPoint string) (Entry, bool) {
	var (
		found Entry
		ok    bool
	)
	for _, e := range entries {
		if e.MountPoint == mountPoint {
			found, ok = e, true
		}
	}
	return found, ok
}

// unescapeField decodes the octal escapes the kernel uses for whitespace
// and backslashes in mount fields (\040 for space and so on)
func unescapeField(s string) string {
	s = strings.ReplaceAll(s, "\\040", " ")
	s = strings.ReplaceAll(s, "\\011", "\t")
	s = strings.ReplaceAll(s, "\\012", "\n")
	s = strings.ReplaceAll(s, "\\134", "\\")
	return s
}
