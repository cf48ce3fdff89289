//go:build linux && !mips && !mipsle && !mips64 && !mips64le && !ppc && !ppc64 && !ppc64le && !sparc && !sparc64

package ioc

var native = LinuxGeneric

const (
	SizeBits = 14
	DirBits  = 2

	// MaxSize is the largest argument size Native can encode. Being a
	// constant, it can back compile-time checks on concrete types:
	//
	//	var _ [ioc.MaxSize - unsafe.Sizeof(foo{})]struct{}
	MaxSize = 1<<SizeBits - 1

	IOCPARM_MASK = MaxSize
)
