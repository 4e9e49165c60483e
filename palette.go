package gfx

import (
	"fmt"
	"sync"

	"github.com/go-errors/errors"

	"github.com/BeatGlow/gfx/conn"
	"github.com/BeatGlow/gfx/pixel"
)

// DAC ports.
const (
	dacWriteIndex uint16 = 0x3c8
	dacData       uint16 = 0x3c9
)

// paletteProgrammer writes palette entries to the DAC and keeps a shadow copy,
// the DAC registers can't be read back reliably.
type paletteProgrammer struct {
	mu     sync.Mutex
	ports  conn.PortWriter
	shadow pixel.Palette
}

func newPaletteProgrammer(ports conn.PortWriter) *paletteProgrammer {
	return &paletteProgrammer{
		ports:  ports,
		shadow: pixel.DefaultPalette(),
	}
}

// set programs entry index. Components are clamped to 6 bits.
func (p *paletteProgrammer) set(index, r, g, b int) (pixel.DAC, error) {
	if index < MinPen || index > MaxPen {
		return pixel.DAC{}, ErrInvalidArgument
	}
	c := pixel.DAC{
		R: pixel.Clamp6(r),
		G: pixel.Clamp6(g),
		B: pixel.Clamp6(b),
	}

	// An interleaved write from another caller would land in the wrong register.
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, w := range [...]conn.Write{
		{Port: dacWriteIndex, Value: uint8(index)},
		{Port: dacData, Value: c.R},
		{Port: dacData, Value: c.G},
		{Port: dacData, Value: c.B},
	} {
		if err := p.ports.Outb(w.Port, w.Value); err != nil {
			return pixel.DAC{}, errors.WrapPrefix(err, fmt.Sprintf("gfx: palette entry %d", index), 0)
		}
	}
	p.shadow[index] = c
	return c, nil
}

func (p *paletteProgrammer) entry(index uint8) pixel.DAC {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shadow[index]
}
