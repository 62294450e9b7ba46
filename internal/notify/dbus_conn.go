package notify

import (
	"github.com/godbus/dbus/v5"
)

// DBusConnection abstracts the godbus connection for testability
type DBusConnection interface {
	// Object returns a BusObject for the given destination and path
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	// Close closes the connection
	Close() error
}

// sessionDBusConnection wraps *dbus.Conn to implement DBusConnection
type sessionDBusConnection struct {
	conn *dbus.Conn
}

func (c *sessionDBusConnection) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return c.conn.Object(dest, path)
}

func (c *sessionDBusConnection) Close() error {
	return c.conn.Close()
}

// ConnectSessionBus opens a private connection to the user's session bus
func ConnectSessionBus() (DBusConnection, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &sessionDBusConnection{conn: conn}, nil
}
