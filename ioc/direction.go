package ioc

import (
	"fmt"
	"strings"
)

// Direction describes which way data flows through an ioctl argument, seen
// from the calling process. It is a logical value: a Layout turns it into
// the bits a given platform expects. The zero Direction is not valid, so an
// untyped 0 can never stand in for None.
type Direction uint8

const (
	// Write means the kernel reads the argument (userspace writes it).
	Write Direction = 1 << iota
	// Read means the kernel fills the argument (userspace reads it).
	Read
	// None means the argument, if any, is not a pointer to transferred data.
	None

	ReadWrite = Read | Write
)

// Linux spellings.
const (
	IOC_NONE  = None
	IOC_READ  = Read
	IOC_WRITE = Write
)

// BSD spellings, from <sys/ioccom.h>. IOC_IN and IOC_OUT are named from the
// kernel's side, hence the swap relative to Read and Write.
const (
	IOC_VOID  = None
	IOC_OUT   = Read
	IOC_IN    = Write
	IOC_INOUT = IOC_IN | IOC_OUT
)

var directions = []Direction{None, Read, Write, ReadWrite}

func (d Direction) Valid() bool {
	switch d {
	case None, Read, Write, ReadWrite:
		return true
	}
	return false
}

func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read|write"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts the names printed by String as well as the C macro
// spellings used in Linux and BSD headers.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "_ioc_none", "ioc_none", "ioc_void", "void":
		return None, nil
	case "read", "r", "_ioc_read", "ioc_read", "ioc_out", "out":
		return Read, nil
	case "write", "w", "_ioc_write", "ioc_write", "ioc_in", "in":
		return Write, nil
	case "read|write", "readwrite", "rw", "wr", "_ioc_read|_ioc_write", "ioc_inout", "inout":
		return ReadWrite, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
