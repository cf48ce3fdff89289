package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-edgebit/ioctl/ioc"
	"github.com/go-edgebit/ioctl/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func layoutFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "layout",
		Aliases: []string{"l"},
		Usage:   "use the bit layout named `LAYOUT` (see the layouts command)",
		Value:   defaultLayout,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ioc",
		Usage: "encode, decode and generate ioctl request codes",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log debugging information to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "print the request code of a macro",
				ArgsUsage: "IO|IOR|IOW|IOWR GROUP NR [SIZE]  or  IOC DIR GROUP NR SIZE",
				Flags:     []cli.Flag{layoutFlag()},
				Action:    ExecuteEncode,
			},
			{
				Name:      "decode",
				Usage:     "split request codes into their fields",
				ArgsUsage: "CODE...",
				Flags: []cli.Flag{
					layoutFlag(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "decode with every layout",
					},
					&cli.StringFlag{
						Name:    "table",
						Aliases: []string{"t"},
						Usage:   "name codes using the ioctl table in `FILE`",
					},
				},
				Action: ExecuteDecode,
			},
			{
				Name:   "layouts",
				Usage:  "list the known layouts",
				Action: ExecuteLayouts,
			},
			{
				Name:  "gen",
				Usage: "generate Go constants from an ioctl table",
				Flags: []cli.Flag{
					layoutFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "ioctl table is defined in `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write to `FILE` instead of stdout",
					},
				},
				Action: ExecuteGen,
			},
		},
	}
}

func newLogger(cliContext *cli.Context) (*zap.Logger, error) {
	if cliContext.Bool("debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func layoutFromFlag(cliContext *cli.Context) (ioc.Layout, error) {
	name := cliContext.String("layout")

	layout, ok := ioc.LayoutByName(name)
	if !ok {
		return ioc.Layout{}, fmt.Errorf("unknown layout %q", name)
	}

	return layout, nil
}

func ExecuteEncode(cliContext *cli.Context) error {
	layout, err := layoutFromFlag(cliContext)
	if err != nil {
		return err
	}

	f, err := parseMacro(cliContext.Args().Slice())
	if err != nil {
		return err
	}

	code, err := layout.EncodeFields(f)
	if err != nil {
		return err
	}

	fmt.Fprintf(cliContext.App.Writer, "%s\t%s\n", code.Hex(), f.Format())

	return nil
}

func parseMacro(args []string) (ioc.Fields, error) {
	if len(args) == 0 {
		return ioc.Fields{}, fmt.Errorf("missing macro")
	}

	macro := strings.TrimPrefix(strings.ToUpper(args[0]), "_")
	args = args[1:]

	f := ioc.Fields{}

	switch macro {
	case "IO":
		f.Dir = ioc.None
	case "IOR":
		f.Dir = ioc.Read
	case "IOW":
		f.Dir = ioc.Write
	case "IOWR":
		f.Dir = ioc.ReadWrite
	case "IOC":
		if len(args) != 4 {
			return f, fmt.Errorf("IOC takes DIR GROUP NR SIZE")
		}
		dir, err := ioc.ParseDirection(args[0])
		if err != nil {
			return f, err
		}
		f.Dir = dir
		args = args[1:]
	default:
		return f, fmt.Errorf("unknown macro %q", args[0])
	}

	switch {
	case macro == "IO" && len(args) != 2:
		return f, fmt.Errorf("IO takes GROUP NR")
	case macro != "IO" && len(args) != 3:
		return f, fmt.Errorf("%s takes GROUP NR SIZE", macro)
	}

	group, err := table.ParseGroup(args[0])
	if err != nil {
		return f, err
	}
	f.Group = group

	nr, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		return f, fmt.Errorf("invalid number %q: %w", args[1], err)
	}
	f.Number = uint8(nr)

	if len(args) == 3 {
		size, err := strconv.ParseUint(args[2], 0, 32)
		if err != nil {
			return f, fmt.Errorf("invalid size %q: %w", args[2], err)
		}
		f.Size = uintptr(size)
	}

	return f, nil
}

func ExecuteDecode(cliContext *cli.Context) error {
	logger, err := newLogger(cliContext)
	if err != nil {
		return err
	}
	defer logger.Sync()

	layouts := ioc.Layouts()
	if !cliContext.Bool("all") {
		layout, err := layoutFromFlag(cliContext)
		if err != nil {
			return err
		}
		layouts = []ioc.Layout{layout}
	}

	var tbl *table.Table
	if path := cliContext.String("table"); path != "" {
		tbl, err = table.LoadTable(path)
		if err != nil {
			return err
		}
		logger.Debug("loaded ioctl table",
			zap.String("path", path),
			zap.Int("ioctls", len(tbl.Parsed().Ioctls)))
	}

	if cliContext.NArg() == 0 {
		return fmt.Errorf("no codes given")
	}

	w := cliContext.App.Writer

	for _, arg := range cliContext.Args().Slice() {
		v, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid code %q: %w", arg, err)
		}
		code := ioc.Code(v)

		for _, layout := range layouts {
			line := fmt.Sprintf("%s\t%s\t", code.Hex(), layout.Name())

			f, err := layout.Decode(code)
			if err != nil {
				logger.Debug("not an _IOC code", zap.String("code", code.Hex()), zap.Error(err))
				line += "-"
			} else {
				line += fmt.Sprintf("dir=%v group=%#02x nr=%#02x size=%d\t%s", f.Dir, f.Group, f.Number, f.Size, f.Format())
			}

			if tbl != nil {
				if names := tbl.Lookup(layout, code); len(names) > 0 {
					line += "\t" + strings.Join(names, ",")
				}
			}

			fmt.Fprintln(w, line)
		}
	}

	return nil
}

func ExecuteLayouts(cliContext *cli.Context) error {
	w := cliContext.App.Writer

	for _, layout := range ioc.Layouts() {
		none, _ := layout.Mask(ioc.None)
		read, _ := layout.Mask(ioc.Read)
		write, _ := layout.Mask(ioc.Write)

		fmt.Fprintf(w, "%s\tsize=%d bits\tdir=%d bits\tnone=%#08x read=%#08x write=%#08x\t%s\n",
			layout.Name(), layout.SizeBits(), layout.DirBits(), none, read, write, layout.BuildConstraint())
	}

	return nil
}

func ExecuteGen(cliContext *cli.Context) error {
	logger, err := newLogger(cliContext)
	if err != nil {
		return err
	}
	defer logger.Sync()

	layout, err := layoutFromFlag(cliContext)
	if err != nil {
		return err
	}

	tbl, err := table.LoadTable(cliContext.String("file"))
	if err != nil {
		return err
	}

	out := cliContext.String("output")
	if out == "" {
		return tbl.WriteGo(cliContext.App.Writer, layout)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tbl.WriteGo(f, layout)
	if err != nil {
		return err
	}

	logger.Info("generated ioctl constants",
		zap.String("table", tbl.SourcePath()),
		zap.String("layout", layout.Name()),
		zap.String("output", out))

	return f.Close()
}
