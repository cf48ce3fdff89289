//go:build linux && !mips && !mipsle && !mips64 && !mips64le && !ppc && !ppc64 && !ppc64le && !sparc && !sparc64

package tty

import (
	"github.com/go-edgebit/ioctl"
	"golang.org/x/sys/unix"
)

// asm-generic/ioctls.h keeps the pre-_IOC numbers.
var (
	TIOCGWINSZ = ioctl.PtrOf[unix.Winsize](ioctl.FromRaw(0x5413))
	TIOCSWINSZ = ioctl.PtrOf[unix.Winsize](ioctl.FromRaw(0x5414))
	FIONREAD   = ioctl.PtrOf[int32](ioctl.FromRaw(0x541B))
)
