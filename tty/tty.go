//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// Package tty binds the terminal ioctls needed to size a terminal and peek
// at its input queue.
package tty

import (
	"github.com/go-edgebit/ioctl"
	"golang.org/x/sys/unix"
)

// GetWinsize returns the window size of the terminal behind t.
func GetWinsize(t ioctl.Target) (*unix.Winsize, error) {
	ws := &unix.Winsize{}
	if _, err := TIOCGWINSZ.Ioctl(t, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func SetWinsize(t ioctl.Target, ws *unix.Winsize) error {
	_, err := TIOCSWINSZ.Ioctl(t, ws)
	return err
}

// InputQueue returns the number of bytes waiting to be read from t. It works
// on pipes and sockets as well as terminals.
func InputQueue(t ioctl.Target) (int, error) {
	var n int32
	if _, err := FIONREAD.Ioctl(t, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}
