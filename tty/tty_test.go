//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package tty

import (
	"os"
	"testing"

	"github.com/go-edgebit/ioctl/ioc"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestMatchesSystemHeaders(t *testing.T) {
	require.Equal(t, ioc.Code(unix.TIOCGWINSZ), TIOCGWINSZ.Request())
	require.Equal(t, ioc.Code(unix.TIOCSWINSZ), TIOCSWINSZ.Request())
	require.Equal(t, ioc.Code(unix.TIOCINQ), FIONREAD.Request())
}

func TestInputQueue(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	n, err := InputQueue(r)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)

	n, err = InputQueue(r)
	require.NoError(t, err)
	require.Equal(t, 10, n)
}

func TestWinsizeOnPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, err = GetWinsize(r)
	require.ErrorIs(t, err, unix.ENOTTY)

	err = SetWinsize(w, &unix.Winsize{Row: 24, Col: 80})
	require.ErrorIs(t, err, unix.ENOTTY)
}
