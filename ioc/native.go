//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package ioc

import (
	"unsafe"
)

// Native returns the layout of the target being compiled for. It is fixed
// at build time; the returned value is a copy.
func Native() Layout {
	return native
}

// Encode packs a request number with the Native layout.
func Encode(dir Direction, group, nr uint8, size uintptr) (Code, error) {
	return native.Encode(dir, group, nr, size)
}

// EncodeSizeOf is Encode with the size taken from T.
func EncodeSizeOf[T any](dir Direction, group, nr uint8) (Code, error) {
	var v T
	return native.Encode(dir, group, nr, unsafe.Sizeof(v))
}

// Decode unpacks a request number with the Native layout.
func Decode(c Code) (Fields, error) {
	return native.Decode(c)
}

// Fields decodes c with the Native layout.
func (c Code) Fields() (Fields, error) {
	return native.Decode(c)
}

// Dir returns the direction of c, or 0 when c is not _IOC-encoded.
func (c Code) Dir() Direction {
	f, _ := native.Decode(c)
	return f.Dir
}

// Group is IOCGROUP / _IOC_TYPE.
func (c Code) Group() uint8 {
	return uint8(c >> groupShift & groupMask)
}

// Number is _IOC_NR.
func (c Code) Number() uint8 {
	return uint8(c >> nrShift & nrMask)
}

// Size is IOCPARM_LEN / _IOC_SIZE.
func (c Code) Size() uintptr {
	return uintptr(c >> sizeShift & IOCPARM_MASK)
}

// Base is IOCBASECMD: c with its size field cleared.
func (c Code) Base() Code {
	return native.Base(c)
}

func (c Code) String() string {
	f, err := native.Decode(c)
	if err != nil {
		return c.Hex()
	}
	return f.Format()
}
