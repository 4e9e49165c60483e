package gfx

import (
	"image"
	"math/bits"
)

// Handle identifies an acquired device context.
type Handle int

// InvalidHandle is returned when no context could be acquired.
const InvalidHandle Handle = -1

const allContexts = 1<<MaxContexts - 1

type deviceContext struct {
	cursor image.Point
	pen    uint8
}

func (c *deviceContext) reset() {
	c.cursor = image.Point{}
	c.pen = DefaultPen
}

// contextPool is a fixed table of contexts with an in-use bitmap.
type contextPool struct {
	inUse    uint32
	contexts [MaxContexts]deviceContext
}

// acquire takes the lowest free slot.
func (p *contextPool) acquire() (Handle, bool) {
	free := ^p.inUse & allContexts
	if free == 0 {
		return InvalidHandle, false
	}
	i := bits.TrailingZeros32(free)
	p.inUse |= 1 << i
	p.contexts[i].reset()
	return Handle(i), true
}

func (p *contextPool) release(h Handle) bool {
	c := p.get(h)
	if c == nil {
		return false
	}
	c.reset()
	p.inUse &^= 1 << uint(h)
	return true
}

// get returns the context for h, or nil if h is out of range or not in use.
func (p *contextPool) get(h Handle) *deviceContext {
	if h < 0 || h >= MaxContexts || p.inUse&(1<<uint(h)) == 0 {
		return nil
	}
	return &p.contexts[h]
}

func (p *contextPool) count() int {
	return bits.OnesCount32(p.inUse)
}
