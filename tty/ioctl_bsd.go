//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package tty

import (
	"github.com/go-edgebit/ioctl"
	"golang.org/x/sys/unix"
)

// From <sys/ttycom.h> and <sys/filio.h>.
var (
	TIOCGWINSZ = ioctl.IOR[unix.Winsize]('t', 104)
	TIOCSWINSZ = ioctl.IOW[unix.Winsize]('t', 103)
	FIONREAD   = ioctl.IOR[int32]('f', 127)
)
