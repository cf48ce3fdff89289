package ioc

import (
	"fmt"
	"strconv"
)

// Code is a packed ioctl request number, the second argument of ioctl(2).
type Code uint32

// Fields are the four components of a Code.
type Fields struct {
	Dir    Direction
	Group  uint8
	Number uint8
	Size   uintptr
}

// Format renders f as the C macro that would produce it.
func (f Fields) Format() string {
	group := fmt.Sprintf("%#02x", f.Group)
	if strconv.IsPrint(rune(f.Group)) && f.Group < 0x80 && f.Group != '\'' && f.Group != '\\' {
		group = "'" + string(rune(f.Group)) + "'"
	}

	switch f.Dir {
	case None:
		if f.Size == 0 {
			return fmt.Sprintf("_IO(%s, %#02x)", group, f.Number)
		}
		return fmt.Sprintf("_IOC(_IOC_NONE, %s, %#02x, %d)", group, f.Number, f.Size)
	case Read:
		return fmt.Sprintf("_IOR(%s, %#02x, %d)", group, f.Number, f.Size)
	case Write:
		return fmt.Sprintf("_IOW(%s, %#02x, %d)", group, f.Number, f.Size)
	case ReadWrite:
		return fmt.Sprintf("_IOWR(%s, %#02x, %d)", group, f.Number, f.Size)
	}
	return fmt.Sprintf("_IOC(%v, %s, %#02x, %d)", f.Dir, group, f.Number, f.Size)
}

func (c Code) Hex() string {
	return fmt.Sprintf("%#08x", uint32(c))
}
