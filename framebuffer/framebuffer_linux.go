package framebuffer

import (
	"image"
	"os"
	"unsafe"

	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"

	"github.com/BeatGlow/gfx/internal/ioctl"
	"github.com/BeatGlow/gfx/pixel"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioGetFScreenInfo ioctl.Command = 0x4602
)

// OpenMem maps the VGA window at config.Base from a physical memory device, typically
// /dev/mem. The adapter must already be in the 320x200 256 color mode.
func OpenMem(config *Config) (*Surface, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultMemConfig
	}

	f, err := os.OpenFile(config.Device, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, errors.WrapPrefix(err, "framebuffer: open", 0)
	}

	mem, err := unix.Mmap(int(f.Fd()), config.Base, Width*Height, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, errors.WrapPrefix(err, "framebuffer: mmap", 0)
	}

	return &Surface{
		Indexed8Image: pixel.WrapIndexed8Image(mem, Width, Height),
		name:          config.Device,
		unmap:         unmapper(f, mem),
	}, nil
}

// OpenDevice opens a Linux framebuffer device (fbdev) by name, typically /dev/fb[0..x].
// The device must be configured for 320x200 with 8 bits per pixel.
func OpenDevice(config *Config) (*Surface, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultDeviceConfig
	}

	f, err := os.OpenFile(config.Device, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.WrapPrefix(err, "framebuffer: open", 0)
	}

	var (
		fd     = f.Fd()
		info   linuxFrameBufferInfo
		screen linuxVarScreenInfo
	)
	if err = ioctl.Get(fd, fbioGetFScreenInfo, unsafe.Pointer(&info)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Get(fd, fbioGetVScreenInfo, unsafe.Pointer(&screen)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if screen.Xres != Width || screen.Yres != Height || screen.BitsPerPixel != 8 || info.LineLength < Width {
		_ = f.Close()
		return nil, ErrSurfaceSize
	}

	mem, err := unix.Mmap(int(fd), 0, int(info.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, errors.WrapPrefix(err, "framebuffer: mmap", 0)
	}

	// Start at the visible offset of the virtual screen.
	var (
		stride = int(info.LineLength)
		offset = int(screen.Yoffset)*stride + int(screen.Xoffset)
		size   = (Height-1)*stride + Width
	)
	if offset+size > len(mem) {
		_ = unix.Munmap(mem)
		_ = f.Close()
		return nil, ErrSurfaceSize
	}

	palette := pixel.DefaultPalette()
	return &Surface{
		Indexed8Image: &pixel.Indexed8Image{
			Buffer: pixel.Buffer{
				Rect:   image.Rect(0, 0, Width, Height),
				Pix:    mem[offset : offset+size],
				Stride: stride,
			},
			Palette: palette.Colors(),
		},
		name:  config.Device,
		unmap: unmapper(f, mem),
	}, nil
}

func unmapper(f *os.File, mem []byte) func() error {
	return func() error {
		if err := unix.Munmap(mem); err != nil {
			_ = f.Close()
			return errors.WrapPrefix(err, "framebuffer: munmap", 0)
		}
		return f.Close()
	}
}

type linuxFrameBufferInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// linuxBitField for the color
type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
