package ioc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(l.Name(), func(t *testing.T) {
			for _, dir := range directions {
				for _, size := range []uintptr{0, 1, 100, MaxPortableSize, l.MaxSize()} {
					for group := 0; group <= 0xff; group++ {
						for nr := 0; nr <= 0xff; nr += 0x11 {
							want := Fields{Dir: dir, Group: uint8(group), Number: uint8(nr), Size: size}

							c, err := l.EncodeFields(want)
							require.NoError(t, err)

							got, err := l.Decode(c)
							require.NoError(t, err)
							require.Equal(t, want, got)
						}
					}
				}
			}
		})
	}
}

func TestKnownCodes(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		dir    Direction
		group  uint8
		nr     uint8
		size   uintptr
		want   Code
	}{
		// include/uapi/sound/asound.h, checked on arm64
		{"SNDRV_PCM_IOCTL_INFO", LinuxGeneric, Read, 'A', 0x01, 288, 0x81204101},
		{"TIOCGPTN", LinuxGeneric, Read, 'T', 0x30, 4, 0x80045430},
		{"TIOCSPTLCK", LinuxGeneric, Write, 'T', 0x31, 4, 0x40045431},
		{"DRM_IOCTL_MODE_CURSOR", LinuxGeneric, ReadWrite, 'd', 0xA3, 28, 0xC01C64A3},
		{"UI_DEV_CREATE", LinuxGeneric, None, 'U', 1, 0, 0x5501},
		{"TIOCGPTN", LinuxLegacy, Read, 'T', 0x30, 4, 0x40045430},
		{"TIOCSPTLCK", LinuxLegacy, Write, 'T', 0x31, 4, 0x80045431},
		{"UI_DEV_CREATE", LinuxLegacy, None, 'U', 1, 0, 0x20005501},
		{"TIOCGPTN", LinuxPARISC, Read, 'T', 0x30, 4, 0x40045430},
		{"TIOCSPTLCK", LinuxPARISC, Write, 'T', 0x31, 4, 0x80045431},
		{"TIOCGWINSZ", BSD, Read, 't', 104, 8, 0x40087468},
		{"FIONREAD", BSD, Read, 'f', 127, 4, 0x4004667f},
		{"TIOCSCTTY", BSD, None, 't', 97, 0, 0x20007461},
		{"TIOCSWINSZ", BSD, Write, 't', 103, 8, 0x80087467},
	}

	for _, tt := range tests {
		t.Run(tt.layout.Name()+"/"+tt.name, func(t *testing.T) {
			c, err := tt.layout.Encode(tt.dir, tt.group, tt.nr, tt.size)
			require.NoError(t, err)
			require.Equal(t, tt.want, c)
		})
	}
}

func TestSizeBoundary(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(l.Name(), func(t *testing.T) {
			_, err := l.Encode(Read, 'X', 1, l.MaxSize())
			require.NoError(t, err)

			_, err = l.Encode(Read, 'X', 1, l.MaxSize()+1)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, "size", fe.Field)
			require.Equal(t, uint64(l.MaxSize()+1), fe.Value)
			require.Equal(t, uint64(l.MaxSize()), fe.Max)
		})
	}

	_, err := LinuxGeneric.Encode(Read, 'X', 1, 16384)
	require.Error(t, err)
	_, err = BSD.Encode(Read, 'X', 1, 8192)
	require.Error(t, err)
}

func TestNoneEncoding(t *testing.T) {
	c, err := LinuxGeneric.Encode(None, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, Code(0), c)

	for _, l := range []Layout{LinuxLegacy, BSD} {
		c, err := l.Encode(None, 0, 0, 0)
		require.NoError(t, err)
		require.NotEqual(t, Code(0), c, l.Name())
		require.Equal(t, Code(0x20000000), c, l.Name())
	}
}

func TestLayoutsDiffer(t *testing.T) {
	for _, dir := range []Direction{None, Read, Write, ReadWrite} {
		linux, err := LinuxGeneric.Encode(dir, 'U', 1, 100)
		require.NoError(t, err)

		bsd, err := BSD.Encode(dir, 'U', 1, 100)
		require.NoError(t, err)

		require.NotEqual(t, linux, bsd, dir.String())
	}
}

func TestInvalidDirection(t *testing.T) {
	for _, l := range Layouts() {
		_, err := l.Encode(0, 'U', 1, 0)
		require.True(t, errors.Is(err, ErrInvalidDirection))

		_, err = l.Encode(None|Read, 'U', 1, 0)
		require.ErrorIs(t, err, ErrInvalidDirection)
	}

	_, err := Layout{}.Encode(None, 'U', 1, 0)
	require.Error(t, err)
}

func TestDecodeLegacyCodes(t *testing.T) {
	// TIOCGWINSZ predates _IOC on Linux.
	f, err := LinuxGeneric.Decode(0x5413)
	require.NoError(t, err)
	require.Equal(t, Fields{Dir: None, Group: 'T', Number: 0x13}, f)

	for _, l := range []Layout{LinuxLegacy, BSD} {
		_, err := l.Decode(0x5413)
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		require.Equal(t, Code(0x5413), de.Code)
	}

	// IOC_VOID|IOC_IN is not a direction.
	_, err = BSD.Decode(0xa0007400)
	require.Error(t, err)
}

func TestMask(t *testing.T) {
	tests := []struct {
		dir  Direction
		want uint32
	}{
		{IOC_VOID, 0x20000000},
		{IOC_OUT, 0x40000000},
		{IOC_IN, 0x80000000},
		{IOC_INOUT, 0xc0000000},
	}

	for _, tt := range tests {
		got, err := BSD.Mask(tt.dir)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.dir.String())
	}

	got, err := LinuxGeneric.Mask(IOC_READ | IOC_WRITE)
	require.NoError(t, err)
	require.Equal(t, uint32(0xc0000000), got)
}

func TestBase(t *testing.T) {
	require.Equal(t, Code(0x40007468), BSD.Base(0x40087468))
	require.Equal(t, Code(0x80005430), LinuxGeneric.Base(0x80045430))
}

func TestLayoutByName(t *testing.T) {
	for _, l := range Layouts() {
		got, ok := LayoutByName(l.Name())
		require.True(t, ok)
		require.Equal(t, l, got)
	}

	_, ok := LayoutByName("plan9")
	require.False(t, ok)
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"none":      None,
		"IOC_VOID":  None,
		"read":      Read,
		"_IOC_READ": Read,
		"IOC_OUT":   Read,
		"write":     Write,
		"IOC_IN":    Write,
		"rw":        ReadWrite,
		"IOC_INOUT": ReadWrite,
	}

	for in, want := range tests {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseDirection("sideways")
	require.ErrorIs(t, err, ErrInvalidDirection)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		f    Fields
		want string
	}{
		{Fields{Dir: None, Group: 'U', Number: 1}, "_IO('U', 0x01)"},
		{Fields{Dir: Read, Group: 'A', Number: 1, Size: 288}, "_IOR('A', 0x01, 288)"},
		{Fields{Dir: Write, Group: 'T', Number: 0x31, Size: 4}, "_IOW('T', 0x31, 4)"},
		{Fields{Dir: ReadWrite, Group: 0xae, Number: 0x10, Size: 8}, "_IOWR(0xae, 0x10, 8)"},
		{Fields{Dir: None, Group: 'f', Number: 1, Size: 4}, "_IOC(_IOC_NONE, 'f', 0x01, 4)"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.f.Format())
	}
}
