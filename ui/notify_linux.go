//go:build linux

package ui

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Notify shows a desktop notification through the freedesktop notification
// service.
func Notify(title, content string) (id int, err error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return -1, fmt.Errorf("failed to connect to the session bus: %v", err)
	}
	var r uint32
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	err = obj.Call("org.freedesktop.Notifications.Notify", 0, "ircview", uint32(0), "ircview", title, content, []string{
		"default", "Open",
	}, map[string]dbus.Variant{
		"category":      dbus.MakeVariant("im.received"),
		"desktop-entry": dbus.MakeVariant("ircview"),
		"urgency":       dbus.MakeVariant(uint8(1)), // Normal
	}, int32(-1)).Store(&r)
	if err != nil {
		return -1, fmt.Errorf("failed to send notification: %v", err)
	}
	return int(r), nil
}

// NotifyClose closes a notification previously returned by Notify.
func NotifyClose(id int) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	obj.Call("org.freedesktop.Notifications.CloseNotification", 0, uint32(id))
}
