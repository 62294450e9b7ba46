package drive

// State is the cached, UI-facing mount status of the selected remote. The
// kernel mount table is authoritative; a State is only as fresh as the
// last probe or command result.
type State int

const (
	Unmounted State = iota
	Mounting
	Mounted
	Unmounting
)

func (s State) String() string {
	switch s {
	case Unmounted:
		return "Unmounted"
	case Mounting:
		return "Mounting..."
	case Mounted:
		return "Mounted"
	case Unmounting:
		return "Unmounting..."
	default:
		return "Unknown"
	}
}

// Busy reports whether a mount or unmount command is in flight
func (s State) Busy() bool {
	return s == Mounting || s == Unmounting
}

// FromProbe maps a probe answer to a settled state
func FromProbe(mounted bool) State {
	if mounted {
		return Mounted
	}
	return Unmounted
}
