//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-edgebit/ioctl"
	"github.com/go-edgebit/ioctl/ioc"
	"github.com/go-edgebit/ioctl/table"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type echoFD struct{}

func (echoFD) Fd() uintptr  { return 3 }
func (echoFD) Close() error { return nil }

func writeTable(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "probe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: v1
name: probe
group: "P"
ioctls:
  - {name: P_RESET, macro: IO, nr: 1}
  - {name: P_GET, macro: IOR, nr: 2, size: 4}
  - {name: P_SET, macro: IOW, nr: 3, size: 4}
  - {name: P_LEGACY, raw: 0x5401}
  - {name: P_HUGE, macro: IOR, nr: 4, size: 20Ki}
`), 0o644))
	return path
}

func resolve(t *testing.T, name string) *table.Resolved {
	tbl, err := table.LoadTable(writeTable(t))
	require.NoError(t, err)

	r, err := tbl.ResolveEntry(ioc.Native(), name)
	require.NoError(t, err)
	return &r
}

func TestProbe(t *testing.T) {
	var got []uintptr
	dev := ioctl.NewDevice("echo", echoFD{}, ioctl.Options{
		Syscall: func(trap, a1, a2, a3 uintptr) (uintptr, uintptr, unix.Errno) {
			got = append(got, a2, a3)
			return 9, 0, 0
		},
	})
	defer dev.Close()

	n, buf, err := probe(dev, resolve(t, "P_RESET"), &probeOptions{})
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Nil(t, buf)
	require.Equal(t, uintptr(0), got[1])

	_, buf, err = probe(dev, resolve(t, "P_SET"), &probeOptions{data: "01020304"})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, buf)

	_, _, err = probe(dev, resolve(t, "P_SET"), &probeOptions{data: "0102030405"})
	require.Error(t, err)

	_, _, err = probe(dev, resolve(t, "P_GET"), &probeOptions{arg: 5, hasArg: true})
	require.NoError(t, err)
	require.Equal(t, uintptr(5), got[len(got)-1])

	_, buf, err = probe(dev, resolve(t, "P_LEGACY"), &probeOptions{size: 8})
	require.NoError(t, err)
	require.Len(t, buf, 8)
	require.Equal(t, uintptr(0x5401), got[len(got)-2])

	calls := len(got)
	_, _, err = probe(dev, resolve(t, "P_LEGACY"), &probeOptions{size: -1})
	require.Error(t, err)
	require.Len(t, got, calls)
}

func TestProbeCommand(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := newRootCommand(out)
	cmd.SetArgs([]string{"-f", writeTable(t), "-d", os.DevNull, "P_GET"})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	if runtime.GOOS == "linux" {
		// /dev/null answers every ioctl with ENOTTY.
		require.ErrorIs(t, err, unix.ENOTTY)
		var ioctlErr *ioctl.Error
		require.ErrorAs(t, err, &ioctlErr)
	}

	cmd = newRootCommand(out)
	cmd.SetArgs([]string{"-f", writeTable(t), "-d", os.DevNull, "P_HUGE"})
	cmd.SetErr(&bytes.Buffer{})
	var fe *ioc.FieldError
	require.ErrorAs(t, cmd.Execute(), &fe)

	cmd = newRootCommand(out)
	cmd.SetArgs([]string{"-f", writeTable(t), "-d", os.DevNull, "P_MISSING"})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
