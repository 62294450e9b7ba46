package procmounts

// Entry is one line of the kernel mount table
type Entry struct {
	Device     string
	MountPoint string
	FSType     string
	Options    string
}

// IsRclone reports whether the entry is an rclone FUSE mount
func (e Entry) IsRclone() bool {
	return e.FSType == "fuse.rclone"
}
