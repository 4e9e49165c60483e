package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/gfx"
	"github.com/BeatGlow/gfx/conn"
	"github.com/BeatGlow/gfx/framebuffer"
)

var rootCmd = &cobra.Command{
	Use:          filepath.Base(os.Args[0]),
	Short:        "draw a test pattern on a 320x200 palette surface",
	Long:         "draw a test pattern on a 320x200 palette surface and optionally save it as BMP",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var (
	backendFlag    string
	deviceFlag     string
	portDeviceFlag string
	outFlag        string
	imageFlag      string
	fontFlag       string
	fontSizeFlag   float64
	debugFlag      bool
)

func init() {
	rootCmd.Flags().StringVarP(&backendFlag, `backend`, `b`, `memory`, `surface backend: memory, mem or fbdev`)
	rootCmd.Flags().StringVar(&deviceFlag, `device`, ``, `surface device (default depends on backend)`)
	rootCmd.Flags().StringVar(&portDeviceFlag, `port-device`, conn.DefaultPortConfig.Device, `I/O port device used to program the DAC`)
	rootCmd.Flags().StringVarP(&outFlag, `out`, `o`, ``, `save the surface as BMP`)
	rootCmd.Flags().StringVar(&imageFlag, `image`, ``, `image scaled into the lower right quarter`)
	rootCmd.Flags().StringVar(&fontFlag, `font`, ``, `TrueType font (default: 7x13 bitmap font)`)
	rootCmd.Flags().Float64Var(&fontSizeFlag, `font-size`, 12, `font size in points`)
	rootCmd.Flags().BoolVarP(&debugFlag, `debug`, `d`, false, `debug logging and error stacks`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debugFlag && ok {
			fmt.Fprintln(os.Stderr, stackFramer.ErrorStack())
		}
		os.Exit(1)
	}
}

func run() error {
	level := slog.LevelInfo
	if debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	surface, ports, err := open(logger)
	if err != nil {
		return err
	}

	config := gfx.DefaultConfig
	config.Logger = logger
	if fontFlag != "" {
		if config.Font, err = gfx.LoadFont(fontFlag, fontSizeFlag); err != nil {
			return err
		}
	}

	dev, err := gfx.New(surface, ports, &config)
	if err != nil {
		_ = surface.Close()
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("close", "error", err)
		}
	}()

	if err = pattern(dev); err != nil {
		return err
	}
	if imageFlag != "" {
		if err = drawImage(surface, imageFlag); err != nil {
			return err
		}
	}
	if r, ok := ports.(*conn.Recorder); ok {
		logger.Info("palette programmed", "writes", len(r.Writes()))
	}
	if outFlag != "" {
		if err = save(surface, outFlag); err != nil {
			return err
		}
		logger.Info("saved", "file", outFlag)
	}
	return nil
}

func open(logger *slog.Logger) (*framebuffer.Surface, conn.PortWriter, error) {
	var (
		surface *framebuffer.Surface
		err     error
	)
	switch backendFlag {
	case "memory":
		surface = framebuffer.New()
		logger.Info("using surface", "surface", surface)
		return surface, new(conn.Recorder), nil
	case "mem":
		config := framebuffer.DefaultMemConfig
		if deviceFlag != "" {
			config.Device = deviceFlag
		}
		if _, err = host.Init(); err != nil {
			return nil, nil, err
		}
		surface, err = framebuffer.OpenMem(&config)
	case "fbdev":
		config := framebuffer.DefaultDeviceConfig
		if deviceFlag != "" {
			config.Device = deviceFlag
		}
		if _, err = host.Init(); err != nil {
			return nil, nil, err
		}
		surface, err = framebuffer.OpenDevice(&config)
	default:
		return nil, nil, errors.Errorf("unsupported backend %q", backendFlag)
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using surface", "surface", surface)

	ports, err := conn.OpenPort(&conn.PortConfig{Device: portDeviceFlag})
	if err != nil {
		_ = surface.Close()
		return nil, nil, err
	}
	logger.Info("using ports", "ports", ports)
	return surface, ports, nil
}

// pattern draws a palette ramp, a line fan and a caption.
func pattern(dev *gfx.Device) error {
	h, err := dev.AcquireContext()
	if err != nil {
		return err
	}
	defer dev.ReleaseContext(h)

	// Entries 16 to 79 become a red to blue ramp.
	for i := 0; i < 64; i++ {
		if err = dev.SetPaletteEntry(gfx.MinPen+i, 63-i, 0, i); err != nil {
			return err
		}
	}

	const bar = gfx.Width / 64
	for i := 0; i < 64; i++ {
		if err = dev.SelectPen(h, gfx.MinPen+i); err != nil {
			return err
		}
		r := gfx.Rect{Left: i * bar, Top: 0, Right: i*bar + bar - 1, Bottom: 19}
		if err = dev.FillRect(h, r); err != nil {
			return err
		}
	}

	if err = dev.SelectPen(h, 231); err != nil { // white in the color cube
		return err
	}
	if err = dev.FrameRect(h, gfx.Rect{Left: 0, Top: 24, Right: gfx.Width - 1, Bottom: gfx.Height - 1}); err != nil {
		return err
	}
	for x := 0; x < gfx.Width/2; x += 10 {
		if err = dev.SelectPen(h, gfx.MinPen+x*63/(gfx.Width/2)); err != nil {
			return err
		}
		if err = dev.MoveTo(h, 0, gfx.Height-1); err != nil {
			return err
		}
		if err = dev.LineTo(h, x, 24); err != nil {
			return err
		}
	}

	if err = dev.SelectPen(h, 231); err != nil {
		return err
	}
	if err = dev.MoveTo(h, 8, 30); err != nil {
		return err
	}
	return dev.TextOut(h, "320x200 / 256 colors")
}

func drawImage(surface *framebuffer.Surface, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return errors.WrapPrefix(err, name, 0)
	}
	return surface.DrawScaled(image.Rect(gfx.Width/2, gfx.Height/2, gfx.Width-1, gfx.Height-1), src)
}

func save(surface *framebuffer.Surface, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err = bmp.Encode(f, surface.Paletted()); err != nil {
		_ = f.Close()
		return errors.Wrap(err, 0)
	}
	return f.Close()
}
