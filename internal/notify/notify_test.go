package notify

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/kriansa/ordo-mount/internal/log"
)

func TestMain(m *testing.M) {
	log.Setup(false)
	os.Exit(m.Run())
}

// mockBusObject implements dbus.BusObject for testing
type mockBusObject struct {
	callResults map[string]*dbus.Call
	lastMethod  string
	lastArgs    []any
}

func (m *mockBusObject) Call(method string, flags dbus.Flags, args ...any) *dbus.Call {
	m.lastMethod = method
	m.lastArgs = args
	if call, ok := m.callResults[method]; ok {
		return call
	}
	return &dbus.Call{Err: dbus.ErrMsgNoObject}
}

func (m *mockBusObject) CallWithContext(_ context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call {
	return m.Call(method, flags, args...)
}

func (m *mockBusObject) Go(method string, flags dbus.Flags, ch chan *dbus.Call, args ...any) *dbus.Call {
	return m.Call(method, flags, args...)
}

func (m *mockBusObject) GoWithContext(_ context.Context, method string, flags dbus.Flags, ch chan *dbus.Call, args ...any) *dbus.Call {
	return m.Call(method, flags, args...)
}

func (m *mockBusObject) AddMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}

func (m *mockBusObject) RemoveMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}

func (m *mockBusObject) GetProperty(p string) (dbus.Variant, error) {
	return dbus.Variant{}, nil
}

func (m *mockBusObject) StoreProperty(p string, value any) error {
	return nil
}

func (m *mockBusObject) SetProperty(p string, v any) error {
	return nil
}

func (m *mockBusObject) Destination() string {
	return dbusService
}

func (m *mockBusObject) Path() dbus.ObjectPath {
	return dbus.ObjectPath(dbusObjectPath)
}

// mockDBusConnection implements DBusConnection for testing
type mockDBusConnection struct {
	objects map[dbus.ObjectPath]*mockBusObject
	closed  bool
}

func (m *mockDBusConnection) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	if obj, ok := m.objects[path]; ok {
		return obj
	}
	return &mockBusObject{callResults: map[string]*dbus.Call{}}
}

func (m *mockDBusConnection) Close() error {
	m.closed = true
	return nil
}

func TestDBusNotifier_Notify(t *testing.T) {
	tests := []struct {
		name    string
		call    *dbus.Call
		wantErr bool
	}{
		{
			name: "delivered",
			call: &dbus.Call{Body: []any{uint32(42)}},
		},
		{
			name:    "service unavailable",
			call:    &dbus.Call{Err: errors.New("org.freedesktop.DBus.Error.ServiceUnknown")},
			wantErr: true,
		},
		{
			name:    "unexpected reply",
			call:    &dbus.Call{Body: []any{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &mockBusObject{
				callResults: map[string]*dbus.Call{dbusNotify: tt.call},
			}
			conn := &mockDBusConnection{
				objects: map[dbus.ObjectPath]*mockBusObject{
					dbus.ObjectPath(dbusObjectPath): obj,
				},
			}

			n, err := NewDBusNotifier("ordo-mount", WithConnection(conn))
			if err != nil {
				t.Fatalf("NewDBusNotifier() error = %v", err)
			}

			err = n.Notify("Mounted work:", "/home/u/mounts/work")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Notify() error = %v, wantErr %v", err, tt.wantErr)
			}

			if obj.lastMethod != dbusNotify {
				t.Errorf("called %q, want %q", obj.lastMethod, dbusNotify)
			}
			if len(obj.lastArgs) != 8 {
				t.Fatalf("Notify called with %d args, want 8", len(obj.lastArgs))
			}
			if obj.lastArgs[0] != "ordo-mount" {
				t.Errorf("app name = %v", obj.lastArgs[0])
			}
			if obj.lastArgs[3] != "Mounted work:" || obj.lastArgs[4] != "/home/u/mounts/work" {
				t.Errorf("summary/body = %v / %v", obj.lastArgs[3], obj.lastArgs[4])
			}
			if obj.lastArgs[7] != expireTimeout {
				t.Errorf("expire timeout = %v", obj.lastArgs[7])
			}
		})
	}
}

func TestDBusNotifier_Icon(t *testing.T) {
	obj := &mockBusObject{
		callResults: map[string]*dbus.Call{dbusNotify: {Body: []any{uint32(1)}}},
	}
	conn := &mockDBusConnection{
		objects: map[dbus.ObjectPath]*mockBusObject{dbus.ObjectPath(dbusObjectPath): obj},
	}

	n, err := NewDBusNotifier("ordo-mount", WithConnection(conn), WithIcon("folder-remote"))
	if err != nil {
		t.Fatalf("NewDBusNotifier() error = %v", err)
	}
	if err := n.Notify("s", "b"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if obj.lastArgs[2] != "folder-remote" {
		t.Errorf("icon = %v, want folder-remote", obj.lastArgs[2])
	}

	if err := n.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !conn.closed {
		t.Error("Close() should close the connection")
	}
}

func TestNew_Disabled(t *testing.T) {
	n := New(false, "ordo-mount")
	if _, ok := n.(Nop); !ok {
		t.Fatalf("New(false) = %T, want Nop", n)
	}
	if err := n.Notify("a", "b"); err != nil {
		t.Errorf("Nop.Notify() error = %v", err)
	}
}
