//go:build !linux

package ui

import "errors"

func Notify(title, content string) (id int, err error) {
	return -1, errors.New("desktop notifications are not supported on this platform")
}

func NotifyClose(id int) {}
