//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package ioctl

import (
	"runtime"
	"unsafe"

	"github.com/go-edgebit/ioctl/ioc"
	"golang.org/x/sys/unix"
)

// Target is anything backed by a file descriptor, such as *os.File or
// *Device.
type Target interface {
	Fd() uintptr
}

// SyscallFunc has the signature of unix.Syscall. Pointer arguments reach it
// as a uintptr; their memory stays valid until it returns.
type SyscallFunc func(trap, a1, a2, a3 uintptr) (r1, r2 uintptr, err unix.Errno)

func ioctlPtr(t Target, req ioc.Code, arg unsafe.Pointer) (int, error) {
	if d, ok := t.(*Device); ok {
		return d.ioctlPtr(req, arg)
	}

	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, t.Fd(), uintptr(req), uintptr(arg))
	runtime.KeepAlive(t)
	runtime.KeepAlive(arg)
	return result(req, r1, errno)
}

func ioctlVal(t Target, req ioc.Code, arg uintptr) (int, error) {
	if d, ok := t.(*Device); ok {
		return d.ioctlVal(req, arg)
	}

	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, t.Fd(), uintptr(req), arg)
	runtime.KeepAlive(t)
	return result(req, r1, errno)
}

func result(req ioc.Code, r1 uintptr, errno unix.Errno) (int, error) {
	if errno != 0 {
		return -1, &Error{Request: req, Errno: errno}
	}
	return int(r1), nil
}
