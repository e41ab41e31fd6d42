package main

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bodgit/rasterlink"
	"github.com/bodgit/rasterlink/frame"
	"github.com/bodgit/rasterlink/link"
	"github.com/bodgit/rasterlink/packet"
	"github.com/bodgit/rasterlink/preview"
	"github.com/urfave/cli/v2"
)

const defaultDB = "frames.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func frameDelayFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:    "delay",
		EnvVars: []string{"RASTERLINK_DELAY"},
		Value:   rasterlink.DefaultOptions.FrameDelay,
		Usage:   "delay after each frame written",
	}
}

func options(c *cli.Context) rasterlink.Options {
	opts := rasterlink.DefaultOptions
	if c.IsSet("delay") {
		opts.FrameDelay = c.Duration("delay")
	}
	if c.IsSet("packet-delay") {
		opts.PacketDelay = c.Duration("packet-delay")
	}
	if c.IsSet("flush-delay") {
		opts.FlushDelay = c.Duration("flush-delay")
	}
	return opts
}

func openInput(c *cli.Context) (io.ReadCloser, error) {
	return link.OpenInput(c.String("input"), c.Int("baud"))
}

func openOutput(c *cli.Context) (io.WriteCloser, error) {
	return link.OpenOutput(c.String("output"), c.Int("baud"))
}

// filter runs fn with the input and output channels opened
func filter(fn func(context.Context, *rasterlink.RasterLink, io.Reader, io.Writer) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := openInput(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer r.Close()

		w, err := openOutput(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer w.Close()

		rl := rasterlink.New(newLogger(c), options(c))
		if err := fn(c.Context, rl, r, w); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}
}

func formatFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   value,
		Usage:   "pixel format, one of y8, gray4 or rgb565",
	}
}

func dbFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		EnvVars: []string{"RASTERLINK_DB"},
		Value:   value,
		Usage:   "path to frame database",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "rasterlink"
	app.Usage = "128x160 video stream filters for narrow byte channels"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	dbPath := filepath.Join(cwd, defaultDB)

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			EnvVars: []string{"RASTERLINK_INPUT"},
			Value:   link.Stdio,
			Usage:   "input file, pipe or serial device",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			EnvVars: []string{"RASTERLINK_OUTPUT"},
			Value:   link.Stdio,
			Usage:   "output file, pipe or serial device",
		},
		&cli.IntFlag{
			Name:    "baud",
			EnvVars: []string{"RASTERLINK_BAUD"},
			Usage:   "baud rate when input or output is a serial device",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "extract",
			Usage: "Extract the luma plane from YUV 4:2:0 frames",
			Flags: []cli.Flag{frameDelayFlag()},
			Action: filter(func(ctx context.Context, rl *rasterlink.RasterLink, r io.Reader, w io.Writer) error {
				return rl.Extract(ctx, r, w)
			}),
		},
		{
			Name:  "pack",
			Usage: "Pack 8-bit grayscale frames to 4-bit grayscale",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "yuv",
					Usage: "read YUV 4:2:0 frames and pack their luma plane",
				},
			},
			Action: func(c *cli.Context) error {
				return filter(func(ctx context.Context, rl *rasterlink.RasterLink, r io.Reader, w io.Writer) error {
					if c.Bool("yuv") {
						return rl.PackYUV420(ctx, r, w)
					}
					return rl.Pack(ctx, r, w)
				})(c)
			},
		},
		{
			Name:  "fragment",
			Usage: "Split 8-bit grayscale frames into 32 byte packets",
			Flags: []cli.Flag{frameDelayFlag()},
			Action: filter(func(ctx context.Context, rl *rasterlink.RasterLink, r io.Reader, w io.Writer) error {
				return rl.Fragment(ctx, r, w)
			}),
		},
		{
			Name:  "defragment",
			Usage: "Rebuild RGB565 frames from 32 byte packets",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:    "packet-delay",
					EnvVars: []string{"RASTERLINK_PACKET_DELAY"},
					Value:   rasterlink.DefaultOptions.PacketDelay,
					Usage:   "delay after each packet read",
				},
				&cli.DurationFlag{
					Name:    "flush-delay",
					EnvVars: []string{"RASTERLINK_FLUSH_DELAY"},
					Value:   rasterlink.DefaultOptions.FlushDelay,
					Usage:   "delay after each frame written",
				},
				&cli.UintFlag{
					Name:  "fill",
					Usage: "initial RGB565 value of every framebuffer pixel",
				},
			},
			Action: func(c *cli.Context) error {
				if c.Uint("fill") > 0xffff {
					return cli.Exit("fill must be a 16-bit value", 1)
				}
				d := packet.NewDefragmenterFill(uint16(c.Uint("fill")))
				return filter(func(ctx context.Context, rl *rasterlink.RasterLink, r io.Reader, w io.Writer) error {
					return rl.Defragment(ctx, r, w, d)
				})(c)
			},
		},
		{
			Name:      "still",
			Usage:     "Repeat a still image as 8-bit grayscale frames",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				frameDelayFlag(),
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"n"},
					Usage:   "number of frames to write, 0 repeats forever",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.Exit(err, 1)
				}

				still, err := frame.FromImage(m)
				if err != nil {
					return cli.Exit(err, 1)
				}

				w, err := openOutput(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer w.Close()

				rl := rasterlink.New(newLogger(c), options(c))
				if err := rl.Still(c.Context, still, w, c.Int("count")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "record",
			Usage: "Store frames read from the input in a database",
			Flags: []cli.Flag{dbFlag(dbPath), formatFlag("y8")},
			Action: func(c *cli.Context) error {
				format, err := frame.ParseFormat(c.String("format"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := rasterlink.NewFrameDB(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				r, err := openInput(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer r.Close()

				rl := rasterlink.New(newLogger(c), options(c))
				if err := rl.Record(c.Context, r, format, db); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "replay",
			Usage: "Write frames stored in a database to the output",
			Flags: []cli.Flag{dbFlag(dbPath), formatFlag("y8"), frameDelayFlag()},
			Action: func(c *cli.Context) error {
				format, err := frame.ParseFormat(c.String("format"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := rasterlink.NewFrameDB(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				w, err := openOutput(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer w.Close()

				rl := rasterlink.New(newLogger(c), options(c))
				if err := rl.Replay(c.Context, db, format, w); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "snapshot",
			Usage: "Write a single frame from the input as a PNG",
			Flags: []cli.Flag{
				formatFlag("rgb565"),
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce the image to at most this many colors",
				},
			},
			Action: func(c *cli.Context) error {
				format, err := frame.ParseFormat(c.String("format"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				switch colors := c.Int("colors"); {
				case colors < 0:
					return cli.Exit("colors must not be negative", 1)
				case colors > preview.MaxColors:
					return cli.Exit("too many colors", 1)
				}

				return filter(func(_ context.Context, rl *rasterlink.RasterLink, r io.Reader, w io.Writer) error {
					return rl.Snapshot(r, format, w, c.Int("colors"))
				})(c)
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
