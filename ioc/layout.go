// Package ioc packs and unpacks ioctl request numbers.
//
// Based on the C definitions in:
//   - https://github.com/torvalds/linux/blob/master/include/uapi/asm-generic/ioctl.h
//   - arch/{mips,powerpc,sparc,alpha,parisc}/include/uapi/asm/ioctl.h
//   - <sys/ioccom.h> on Darwin and the BSDs
//
// Every layout shares the same shape: number in bits 0-7, group in bits
// 8-15, size starting at bit 16, and the direction in the bits above the
// size field. Layouts differ in the width of the size field and in the bit
// values chosen for each direction.
package ioc

import (
	"fmt"

	"golang.org/x/exp/slices"
)

const (
	nrBits    = 8
	groupBits = 8

	nrShift    = 0
	groupShift = nrShift + nrBits
	sizeShift  = groupShift + groupBits

	nrMask    = 1<<nrBits - 1
	groupMask = 1<<groupBits - 1
)

// MaxPortableSize is the largest argument size every layout can encode.
const MaxPortableSize = 1<<13 - 1

// Layout is the bit layout of request numbers on one platform family.
// The zero Layout is not usable; use one of the predefined values.
type Layout struct {
	name       string
	constraint string
	sizeBits   uint
	dirBits    uint
	none       uint32
	read       uint32
	write      uint32
}

var (
	// LinuxGeneric is asm-generic/ioctl.h, used by x86, arm, arm64, riscv,
	// s390, loongarch and most other Linux ports.
	LinuxGeneric = Layout{
		name:       "linux",
		constraint: "linux && !mips && !mipsle && !mips64 && !mips64le && !ppc && !ppc64 && !ppc64le && !sparc && !sparc64",
		sizeBits:   14,
		dirBits:    2,
		none:       0,
		read:       2,
		write:      1,
	}

	// LinuxLegacy is shared by mips, powerpc, sparc and alpha, which keep a
	// three bit direction field so that "none" has a bit of its own.
	LinuxLegacy = Layout{
		name:       "linux-legacy",
		constraint: "linux && (mips || mipsle || mips64 || mips64le || ppc || ppc64 || ppc64le || sparc || sparc64)",
		sizeBits:   13,
		dirBits:    3,
		none:       1,
		read:       2,
		write:      4,
	}

	// LinuxPARISC keeps the generic widths but swaps read and write. Go has
	// no parisc port, so it is never native.
	LinuxPARISC = Layout{
		name:       "linux-parisc",
		constraint: "linux && parisc",
		sizeBits:   14,
		dirBits:    2,
		none:       0,
		read:       1,
		write:      2,
	}

	// BSD is <sys/ioccom.h> as found on Darwin, FreeBSD, NetBSD, OpenBSD and
	// DragonFly: IOC_VOID, IOC_OUT and IOC_IN occupy bits 29, 30 and 31.
	BSD = Layout{
		name:       "bsd",
		constraint: "darwin || dragonfly || freebsd || netbsd || openbsd",
		sizeBits:   13,
		dirBits:    3,
		none:       1,
		read:       2,
		write:      4,
	}
)

var layouts = []Layout{LinuxGeneric, LinuxLegacy, LinuxPARISC, BSD}

// Layouts returns every known layout.
func Layouts() []Layout {
	return slices.Clone(layouts)
}

// LayoutByName finds a layout by the name returned from Layout.Name.
func LayoutByName(name string) (Layout, bool) {
	i := slices.IndexFunc(layouts, func(l Layout) bool {
		return l.name == name
	})
	if i < 0 {
		return Layout{}, false
	}
	return layouts[i], true
}

func (l Layout) Name() string {
	return l.name
}

func (l Layout) String() string {
	return l.name
}

// BuildConstraint returns the //go:build expression of the targets using l.
func (l Layout) BuildConstraint() string {
	return l.constraint
}

func (l Layout) SizeBits() uint {
	return l.sizeBits
}

func (l Layout) DirBits() uint {
	return l.dirBits
}

// MaxSize is the largest argument size l can encode.
func (l Layout) MaxSize() uintptr {
	return 1<<l.sizeBits - 1
}

func (l Layout) dirShift() uint {
	return sizeShift + l.sizeBits
}

// Bits returns the value of d in l's direction field, before shifting.
func (l Layout) Bits(d Direction) (uint32, error) {
	switch d {
	case None:
		return l.none, nil
	case Read:
		return l.read, nil
	case Write:
		return l.write, nil
	case ReadWrite:
		return l.read | l.write, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidDirection, d)
}

// Mask returns the in-place value of d, such as 0x20000000 for IOC_VOID
// under BSD.
func (l Layout) Mask(d Direction) (uint32, error) {
	bits, err := l.Bits(d)
	if err != nil {
		return 0, err
	}
	return bits << l.dirShift(), nil
}

// Encode packs a request number, the equivalent of _IOC(dir, group, nr,
// size). A size wider than the layout's size field is an error; it is
// never truncated.
func (l Layout) Encode(dir Direction, group, nr uint8, size uintptr) (Code, error) {
	if l.sizeBits == 0 {
		return 0, fmt.Errorf("ioc: encode with zero Layout")
	}

	bits, err := l.Bits(dir)
	if err != nil {
		return 0, err
	}

	if size > l.MaxSize() {
		return 0, &FieldError{
			Layout: l.name,
			Field:  "size",
			Value:  uint64(size),
			Max:    uint64(l.MaxSize()),
		}
	}

	return Code(bits<<l.dirShift() |
		uint32(size)<<sizeShift |
		uint32(group)<<groupShift |
		uint32(nr)<<nrShift), nil
}

// EncodeFields is Encode taking its arguments from f.
func (l Layout) EncodeFields(f Fields) (Code, error) {
	return l.Encode(f.Dir, f.Group, f.Number, f.Size)
}

// Decode unpacks c. It fails with a *DecodeError when the direction bits
// are not one of l's four direction values.
func (l Layout) Decode(c Code) (Fields, error) {
	if l.sizeBits == 0 {
		return Fields{}, fmt.Errorf("ioc: decode with zero Layout")
	}

	raw := uint32(c)
	bits := raw >> l.dirShift() & (1<<l.dirBits - 1)

	for _, d := range directions {
		if b, _ := l.Bits(d); b == bits {
			return Fields{
				Dir:    d,
				Group:  uint8(raw >> groupShift & groupMask),
				Number: uint8(raw >> nrShift & nrMask),
				Size:   uintptr(raw >> sizeShift & uint32(l.MaxSize())),
			}, nil
		}
	}

	return Fields{}, &DecodeError{Layout: l.name, Code: c}
}

// Base clears the size field, like the BSD IOCBASECMD macro.
func (l Layout) Base(c Code) Code {
	return c &^ Code(uint32(l.MaxSize())<<sizeShift)
}
