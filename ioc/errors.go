package ioc

import (
	"errors"
	"fmt"
)

// ErrInvalidDirection is returned for a Direction other than None, Read,
// Write or ReadWrite.
var ErrInvalidDirection = errors.New("invalid ioctl direction")

// FieldError reports a request-code field that does not fit its layout.
type FieldError struct {
	Layout string
	Field  string
	Value  uint64
	Max    uint64
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("ioc: %s: %s %d exceeds maximum %d", e.Layout, e.Field, e.Value, e.Max)
}

// DecodeError is returned when a code's direction bits do not correspond to
// any Direction under the layout, which is typical of request numbers that
// predate the _IOC scheme.
type DecodeError struct {
	Layout string
	Code   Code
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ioc: %s: %#08x is not an _IOC-encoded request", e.Layout, uint32(e.Code))
}
