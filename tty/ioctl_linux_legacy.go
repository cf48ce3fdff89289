//go:build linux && (mips || mipsle || mips64 || mips64le || ppc || ppc64 || ppc64le || sparc || sparc64)

package tty

import (
	"github.com/go-edgebit/ioctl"
	"golang.org/x/sys/unix"
)

var (
	TIOCGWINSZ = ioctl.IOR[unix.Winsize]('t', 104)
	TIOCSWINSZ = ioctl.IOW[unix.Winsize]('t', 103)

	// FIONREAD differs between these architectures (0x467f on mips).
	FIONREAD = ioctl.PtrOf[int32](ioctl.FromRaw(unix.TIOCINQ))
)
