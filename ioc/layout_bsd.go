//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package ioc

var native = BSD

// From <sys/ioccom.h>.
const (
	IOCPARM_SHIFT = 13
	IOCPARM_MASK  = 1<<IOCPARM_SHIFT - 1

	SizeBits = IOCPARM_SHIFT
	DirBits  = 3

	// MaxSize is the largest argument size Native can encode.
	MaxSize = IOCPARM_MASK
)
