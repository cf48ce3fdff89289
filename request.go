//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package ioctl

import (
	"fmt"
	"unsafe"

	"github.com/go-edgebit/ioctl/ioc"
	"golang.org/x/exp/constraints"
)

// Handle is implemented by every request type.
type Handle interface {
	Request() ioc.Code
}

// NoArg is an ioctl that takes no argument. It is built by IO, IOC and
// FromRaw.
type NoArg struct {
	req ioc.Code
}

// Request returns the request code passed to ioctl(2).
func (r NoArg) Request() ioc.Code {
	return r.req
}

func (r NoArg) String() string {
	return r.req.String()
}

// Ioctl performs the request and returns the value returned by ioctl(2).
//
// A dummy argument of 0 is passed, since some requests declared without an
// argument still insist on receiving 0 (KVM_GET_API_VERSION, for one).
func (r NoArg) Ioctl(t Target) (int, error) {
	return ioctlVal(t, r.req, 0)
}

// Ptr is an ioctl whose argument is a pointer to a T. Read, write and
// read/write requests are all Ptr; the direction lives in the code.
type Ptr[T any] struct {
	req ioc.Code
}

func (r Ptr[T]) Request() ioc.Code {
	return r.req
}

func (r Ptr[T]) String() string {
	return r.req.String()
}

// Ioctl performs the request with arg and returns the value returned by
// ioctl(2). arg must point to memory laid out the way the driver expects.
func (r Ptr[T]) Ioctl(t Target, arg *T) (int, error) {
	return ioctlPtr(t, r.req, unsafe.Pointer(arg))
}

// Arg is an ioctl whose argument is an integer passed by value rather than
// through a pointer.
type Arg[T constraints.Integer] struct {
	req ioc.Code
}

func (r Arg[T]) Request() ioc.Code {
	return r.req
}

func (r Arg[T]) String() string {
	return r.req.String()
}

func (r Arg[T]) Ioctl(t Target, v T) (int, error) {
	return ioctlVal(t, r.req, uintptr(v))
}

// Buf is an ioctl taking a byte buffer whose length is chosen when the
// request is built, as in
//
//	#define UI_GET_SYSNAME(len)	_IOC(_IOC_READ, UINPUT_IOCTL_BASE, 44, len)
type Buf struct {
	req  ioc.Code
	size uintptr
}

func (r Buf) Request() ioc.Code {
	return r.req
}

func (r Buf) String() string {
	return r.req.String()
}

// Len is the buffer length the request was built for.
func (r Buf) Len() int {
	return int(r.size)
}

// Ioctl performs the request with b, which must be exactly Len bytes long.
func (r Buf) Ioctl(t Target, b []byte) (int, error) {
	if uintptr(len(b)) != r.size {
		return -1, ErrSizeMismatch
	}
	if len(b) == 0 {
		return ioctlVal(t, r.req, 0)
	}
	return ioctlPtr(t, r.req, unsafe.Pointer(&b[0]))
}

// NewIOC builds a request from its parts, like _IOC.
func NewIOC(dir ioc.Direction, group, nr uint8, size uintptr) (NoArg, error) {
	req, err := ioc.Encode(dir, group, nr, size)
	if err != nil {
		return NoArg{}, err
	}
	return NoArg{req: req}, nil
}

// NewPtr builds a pointer request sized for T.
func NewPtr[T any](dir ioc.Direction, group, nr uint8) (Ptr[T], error) {
	req, err := ioc.EncodeSizeOf[T](dir, group, nr)
	if err != nil {
		return Ptr[T]{}, err
	}
	return Ptr[T]{req: req}, nil
}

// NewBuf builds a buffer request for size bytes.
func NewBuf(dir ioc.Direction, group, nr uint8, size uintptr) (Buf, error) {
	req, err := ioc.Encode(dir, group, nr, size)
	if err != nil {
		return Buf{}, err
	}
	return Buf{req: req, size: size}, nil
}

// IOC is NewIOC that panics on error. Passing the direction as anything but
// one of the ioc constants is an error; in particular 0 is not IOC_NONE.
func IOC(dir ioc.Direction, group, nr uint8, size uintptr) NoArg {
	return must(NewIOC(dir, group, nr, size))
}

// IO is _IO(group, nr).
func IO(group, nr uint8) NoArg {
	return IOC(ioc.None, group, nr, 0)
}

// IOR is _IOR(group, nr, T): the kernel writes a T through the pointer.
// It panics if T is too large for the size field, which usually means the
// wrong T was given.
func IOR[T any](group, nr uint8) Ptr[T] {
	return must(NewPtr[T](ioc.Read, group, nr))
}

// IOW is _IOW(group, nr, T): the kernel reads a T through the pointer.
func IOW[T any](group, nr uint8) Ptr[T] {
	return must(NewPtr[T](ioc.Write, group, nr))
}

// IOWR is _IOWR(group, nr, T).
func IOWR[T any](group, nr uint8) Ptr[T] {
	return must(NewPtr[T](ioc.ReadWrite, group, nr))
}

// IOWINT is FreeBSD's _IOWINT(group, nr): an int passed by value, with the
// size of int recorded in the code.
func IOWINT(group, nr uint8) Arg[int32] {
	var v int32
	return WithArg[int32](IOC(ioc.None, group, nr, unsafe.Sizeof(v)))
}

// IOCBuf is NewBuf that panics on error.
func IOCBuf(dir ioc.Direction, group, nr uint8, size uintptr) Buf {
	return must(NewBuf(dir, group, nr, size))
}

// FromRaw wraps a request code that was not built with the _IOC macros,
// such as FIONREAD (0x541B) on Linux. Use PtrOf or WithArg to give it an
// argument.
func FromRaw(req ioc.Code) NoArg {
	return NoArg{req: req}
}

// PtrOf reuses h's request code for a pointer-to-T argument. The code is
// not changed, so its size field need not match T.
func PtrOf[T any](h Handle) Ptr[T] {
	return Ptr[T]{req: h.Request()}
}

// NewBufOf reuses h's request code for a buffer of n bytes, for raw codes
// whose size is not encoded. n must not be negative.
func NewBufOf(h Handle, n int) (Buf, error) {
	if n < 0 {
		return Buf{}, fmt.Errorf("%w: negative buffer length %d", ErrSizeMismatch, n)
	}
	return Buf{req: h.Request(), size: uintptr(n)}, nil
}

// BufOf is NewBufOf that panics on error.
func BufOf(h Handle, n int) Buf {
	return must(NewBufOf(h, n))
}

// WithArg reuses h's request code for an integer passed by value. This is
// how requests declared with _IO or _IOW that really take a direct argument
// are bound:
//
//	#define KVM_CREATE_VM	_IO(KVMIO, 0x01)
//
//	var KVM_CREATE_VM = ioctl.WithArg[int](ioctl.IO(KVMIO, 0x01))
func WithArg[T constraints.Integer](h Handle) Arg[T] {
	return Arg[T]{req: h.Request()}
}

func must[R any](r R, err error) R {
	if err != nil {
		panic(err)
	}
	return r
}
