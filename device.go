//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package ioctl

import (
	"os"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-edgebit/ioctl/ioc"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// FileDescriptor is an open file that can be closed. *os.File conforms to
// this interface.
type FileDescriptor interface {
	Fd() uintptr
	Close() error
}

// Options for a Device.
type Options struct {
	// Syscall performs the system call. It is called with SYS_IOCTL, the
	// file descriptor, the request and the argument. nil means
	// unix.Syscall.
	Syscall SyscallFunc

	// Logger receives a debug entry for every request. nil disables
	// logging.
	Logger *zap.Logger
}

// DefaultOptions issues real system calls and does not log.
var DefaultOptions = Options{}

// Device is an open device file together with the Options used to talk to
// it. Requests may be issued from several goroutines at once, but not
// concurrently with Close.
type Device struct {
	name    string
	id      uuid.UUID
	options Options
	logger  *zap.Logger

	mu sync.RWMutex
	fd FileDescriptor
}

// Open opens the device at path with the given os.OpenFile flags.
func Open(path string, flag int, opts Options) (*Device, error) {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}

	return NewDevice(path, f, opts), nil
}

// NewDevice wraps an already open file descriptor. name is only used for
// logging.
func NewDevice(name string, fd FileDescriptor, opts Options) *Device {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New()

	return &Device{
		name:    name,
		id:      id,
		options: opts,
		logger:  logger.With(zap.String("device", name), zap.String("session", id.String())),
		fd:      fd,
	}
}

func (d *Device) Name() string {
	return d.name
}

// ID identifies this Device in log entries.
func (d *Device) ID() uuid.UUID {
	return d.id
}

// Fd returns the underlying file descriptor, or ^uintptr(0) once closed.
func (d *Device) Fd() uintptr {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.fd == nil {
		return ^uintptr(0)
	}
	return d.fd.Fd()
}

// Close closes the underlying file. Closing twice is not an error.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fd == nil {
		return nil
	}

	err := d.fd.Close()
	d.fd = nil
	d.logger.Debug("device closed", zap.Error(err))

	return err
}

func (d *Device) ioctlPtr(req ioc.Code, arg unsafe.Pointer) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.fd == nil {
		return -1, ErrClosed
	}

	var r1 uintptr
	var errno unix.Errno
	if d.options.Syscall == nil {
		r1, _, errno = unix.Syscall(unix.SYS_IOCTL, d.fd.Fd(), uintptr(req), uintptr(arg))
	} else {
		// arg escapes through the unix.Syscall call above, so it lives on
		// the heap and its address stays valid while the hook runs.
		r1, _, errno = d.options.Syscall(unix.SYS_IOCTL, d.fd.Fd(), uintptr(req), uintptr(arg))
	}
	runtime.KeepAlive(arg)

	return d.result(req, r1, errno)
}

func (d *Device) ioctlVal(req ioc.Code, arg uintptr) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.fd == nil {
		return -1, ErrClosed
	}

	sys := d.options.Syscall
	if sys == nil {
		sys = unix.Syscall
	}

	r1, _, errno := sys(unix.SYS_IOCTL, d.fd.Fd(), uintptr(req), arg)

	return d.result(req, r1, errno)
}

func (d *Device) result(req ioc.Code, r1 uintptr, errno unix.Errno) (int, error) {
	n, err := result(req, r1, errno)

	if err != nil {
		d.logger.Debug("ioctl failed",
			zap.Stringer("request", req),
			zap.String("code", req.Hex()),
			zap.Error(err))
	} else {
		d.logger.Debug("ioctl",
			zap.Stringer("request", req),
			zap.String("code", req.Hex()),
			zap.Int("result", n))
	}

	return n, err
}
