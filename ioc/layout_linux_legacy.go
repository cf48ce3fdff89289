//go:build linux && (mips || mipsle || mips64 || mips64le || ppc || ppc64 || ppc64le || sparc || sparc64)

package ioc

var native = LinuxLegacy

const (
	SizeBits = 13
	DirBits  = 3

	// MaxSize is the largest argument size Native can encode.
	MaxSize = 1<<SizeBits - 1

	IOCPARM_MASK = MaxSize
)
