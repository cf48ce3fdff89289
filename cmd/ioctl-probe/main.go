//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-edgebit/ioctl"
	"github.com/go-edgebit/ioctl/ioc"
	"github.com/go-edgebit/ioctl/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type probeOptions struct {
	tablePath string
	device    string
	writable  bool
	arg       int64
	hasArg    bool
	size      int
	data      string
	debug     bool
}

func main() {
	rootCmd := newRootCommand(os.Stdout)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &probeOptions{}

	rootCmd := &cobra.Command{
		Use:   "ioctl-probe NAME",
		Short: "Issue an ioctl from an ioctl table against a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasArg = cmd.Flags().Changed("arg")

			logger, err := newLogger(opts.debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runProbe(logger, out, opts, args[0])
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.tablePath, "file", "f", "", "ioctl table is defined in `FILE`")
	flags.StringVarP(&opts.device, "device", "d", "", "device `PATH` to open")
	flags.BoolVarP(&opts.writable, "write", "w", false, "open the device read-write")
	flags.Int64Var(&opts.arg, "arg", 0, "pass `N` by value instead of a buffer")
	flags.IntVar(&opts.size, "size", 0, "buffer size for raw codes")
	flags.StringVar(&opts.data, "data", "", "initial buffer contents as `HEX`")
	flags.BoolVar(&opts.debug, "debug", false, "log each request")
	_ = rootCmd.MarkFlagRequired("file")
	_ = rootCmd.MarkFlagRequired("device")

	return rootCmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runProbe(logger *zap.Logger, out io.Writer, opts *probeOptions, name string) error {
	tbl, err := table.LoadTable(opts.tablePath)
	if err != nil {
		return err
	}

	target, err := tbl.ResolveEntry(ioc.Native(), name)
	if err != nil {
		return err
	}

	flag := os.O_RDONLY
	if opts.writable {
		flag = os.O_RDWR
	}

	dev, err := ioctl.Open(opts.device, flag, ioctl.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer dev.Close()

	logger.Debug("probing",
		zap.String("ioctl", name),
		zap.Stringer("request", target.Code),
		zap.String("device", opts.device))

	n, buf, err := probe(dev, &target, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s = %d\n", name, target.Code.Hex(), n)
	if buf != nil {
		fmt.Fprint(out, spew.Sdump(buf))
	}

	return nil
}

func probe(t ioctl.Target, r *table.Resolved, opts *probeOptions) (int, []byte, error) {
	if opts.hasArg {
		n, err := ioctl.WithArg[int64](ioctl.FromRaw(r.Code)).Ioctl(t, opts.arg)
		return n, nil, err
	}

	if opts.size < 0 {
		return -1, nil, fmt.Errorf("invalid --size %d: must not be negative", opts.size)
	}

	var req ioctl.Buf
	switch {
	case r.Raw && opts.size == 0:
		n, err := ioctl.FromRaw(r.Code).Ioctl(t)
		return n, nil, err
	case r.Raw:
		var err error
		req, err = ioctl.NewBufOf(ioctl.FromRaw(r.Code), opts.size)
		if err != nil {
			return -1, nil, fmt.Errorf("invalid --size: %w", err)
		}
	case r.Fields.Size == 0:
		n, err := ioctl.FromRaw(r.Code).Ioctl(t)
		return n, nil, err
	default:
		var err error
		req, err = ioctl.NewBuf(r.Fields.Dir, r.Fields.Group, r.Fields.Number, r.Fields.Size)
		if err != nil {
			return -1, nil, err
		}
	}

	buf := make([]byte, req.Len())
	if opts.data != "" {
		data, err := hex.DecodeString(opts.data)
		if err != nil {
			return -1, nil, fmt.Errorf("invalid --data: %w", err)
		}
		if len(data) > len(buf) {
			return -1, nil, fmt.Errorf("--data is %d bytes, the argument is only %d", len(data), len(buf))
		}
		copy(buf, data)
	}

	n, err := req.Ioctl(t, buf)
	return n, buf, err
}
