//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package ioctl

import (
	"errors"
	"fmt"

	"github.com/go-edgebit/ioctl/ioc"
	"golang.org/x/sys/unix"
)

var (
	// ErrClosed is returned when using a Device after Close.
	ErrClosed = errors.New("ioctl: device is closed")

	// ErrSizeMismatch is returned by Buf.Ioctl when the buffer length
	// differs from the size encoded in the request, and by NewBufOf for a
	// negative length.
	ErrSizeMismatch = errors.New("ioctl: buffer size does not match request")
)

// Error is returned when the ioctl system call fails. It unwraps to the
// errno, so errors.Is(err, unix.ENOTTY) works.
type Error struct {
	Request ioc.Code
	Errno   unix.Errno
}

func (e *Error) Error() string {
	return fmt.Sprintf("ioctl %v failed: %v", e.Request, e.Errno)
}

func (e *Error) Unwrap() error {
	return e.Errno
}
