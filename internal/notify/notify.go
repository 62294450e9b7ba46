// Package notify posts desktop notifications about mount results.
package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/kriansa/ordo-mount/internal/log"
)

const (
	// freedesktop Desktop Notifications service
	dbusService    = "org.freedesktop.Notifications"
	dbusObjectPath = "/org/freedesktop/Notifications"
	dbusNotify     = dbusService + ".Notify"

	// expireTimeout is in milliseconds; -1 lets the server decide
	expireTimeout = int32(-1)
)

// Notifier delivers a short message to the user
type Notifier interface {
	Notify(summary, body string) error
	Close() error
}

// Nop is a Notifier that drops every message
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }
func (Nop) Close() error                { return nil }

// DBusNotifier implements Notifier using the session bus
type DBusNotifier struct {
	appName string
	icon    string
	conn    DBusConnection
}

// DBusNotifierOption is a functional option for DBusNotifier
type DBusNotifierOption func(*DBusNotifier)

// WithConnection sets a custom DBus connection (for testing)
func WithConnection(conn DBusConnection) DBusNotifierOption {
	return func(n *DBusNotifier) {
		n.conn = conn
	}
}

// WithIcon sets the icon name shown next to notifications
func WithIcon(icon string) DBusNotifierOption {
	return func(n *DBusNotifier) {
		n.icon = icon
	}
}

// NewDBusNotifier connects to the session bus unless a connection is given
func NewDBusNotifier(appName string, opts ...DBusNotifierOption) (*DBusNotifier, error) {
	n := &DBusNotifier{
		appName: appName,
		icon:    "drive-harddisk",
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.conn == nil {
		conn, err := ConnectSessionBus()
		if err != nil {
			return nil, fmt.Errorf("connect to session bus: %w", err)
		}
		n.conn = conn
	}

	return n, nil
}

// Notify shows a notification. Signature of the call is
// Notify(app_name s, replaces_id u, app_icon s, summary s, body s,
// actions as, hints a{sv}, expire_timeout i) -> id u
func (n *DBusNotifier) Notify(summary, body string) error {
	obj := n.conn.Object(dbusService, dbus.ObjectPath(dbusObjectPath))

	call := obj.Call(dbusNotify, 0,
		n.appName,
		uint32(0),
		n.icon,
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		expireTimeout,
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("read notification id: %w", err)
	}

	log.Debug("notification sent", "id", id, "summary", summary)
	return nil
}

// Close closes the DBus connection
func (n *DBusNotifier) Close() error {
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

// New returns a DBusNotifier when enabled, falling back to Nop if the
// session bus is unreachable.
func New(enabled bool, appName string) Notifier {
	if !enabled {
		return Nop{}
	}

	n, err := NewDBusNotifier(appName)
	if err != nil {
		log.Warn("desktop notifications disabled", "error", err)
		return Nop{}
	}
	return n
}
