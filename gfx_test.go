package gfx

import (
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/gfx/conn"
	"github.com/BeatGlow/gfx/framebuffer"
	"github.com/BeatGlow/gfx/pixel"
)

type testDevice struct {
	*Device
	surface *framebuffer.Surface
	ports   *conn.Recorder
}

func newTestDevice(t *testing.T) *testDevice {
	t.Helper()
	surface := framebuffer.New()
	ports := new(conn.Recorder)
	d, err := New(surface, ports, &Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ClearOnInit: true,
	})
	require.NoError(t, err)
	return &testDevice{Device: d, surface: surface, ports: ports}
}

func (d *testDevice) acquire(t *testing.T) Handle {
	t.Helper()
	h, err := d.AcquireContext()
	require.NoError(t, err)
	return h
}

// painted returns every pixel that is not black.
func (d *testDevice) painted() map[image.Point]uint8 {
	out := make(map[image.Point]uint8)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if v := d.surface.ColorIndexAt(x, y); v != pixel.Black {
				out[image.Pt(x, y)] = v
			}
		}
	}
	return out
}

func TestPoolExhaustion(t *testing.T) {
	d := newTestDevice(t)

	for i := 0; i < MaxContexts; i++ {
		h, err := d.AcquireContext()
		require.NoError(t, err)
		assert.Equal(t, Handle(i), h, "contexts are handed out lowest first")
	}
	assert.Equal(t, MaxContexts, d.InUse())

	h, err := d.AcquireContext()
	assert.ErrorIs(t, err, ErrNoFreeContext)
	assert.Equal(t, InvalidHandle, h)

	require.NoError(t, d.ReleaseContext(7))
	h, err = d.AcquireContext()
	require.NoError(t, err)
	assert.Equal(t, Handle(7), h)

	_, err = d.AcquireContext()
	assert.ErrorIs(t, err, ErrNoFreeContext)
}

func TestAcquireResetsContext(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)

	require.NoError(t, d.MoveTo(h, 100, 50))
	require.NoError(t, d.SelectPen(h, 99))
	require.NoError(t, d.ReleaseContext(h))

	h = d.acquire(t)
	cursor, err := d.Cursor(h)
	require.NoError(t, err)
	assert.Equal(t, image.Point{}, cursor)

	pen, err := d.Pen(h)
	require.NoError(t, err)
	assert.Equal(t, uint8(DefaultPen), pen)
}

func TestReleaseInvalid(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)

	for _, bad := range []Handle{InvalidHandle, -100, MaxContexts, 1000, h + 1} {
		assert.ErrorIs(t, d.ReleaseContext(bad), ErrInvalidHandle, "handle %d", bad)
	}
	assert.Equal(t, 1, d.InUse())

	require.NoError(t, d.ReleaseContext(h))
	assert.ErrorIs(t, d.ReleaseContext(h), ErrInvalidHandle)
	assert.Equal(t, 0, d.InUse())
}

func TestReleasedHandleRejected(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)
	require.NoError(t, d.ReleaseContext(h))

	assert.ErrorIs(t, d.SetPixel(h, 1, 1), ErrInvalidHandle)
	assert.ErrorIs(t, d.MoveTo(h, 1, 1), ErrInvalidHandle)
	assert.ErrorIs(t, d.LineTo(h, 10, 10), ErrInvalidHandle)
	assert.ErrorIs(t, d.SelectPen(h, 20), ErrInvalidHandle)
	assert.ErrorIs(t, d.FillRect(h, Rect{0, 0, 10, 10}), ErrInvalidHandle)
	assert.ErrorIs(t, d.FrameRect(h, Rect{0, 0, 10, 10}), ErrInvalidHandle)
	assert.ErrorIs(t, d.TextOut(h, "x"), ErrInvalidHandle)
	_, err := d.Cursor(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = d.Pen(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	assert.Empty(t, d.painted())
}

func TestMoveToClamp(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)

	require.NoError(t, d.MoveTo(h, -5, 500))
	cursor, _ := d.Cursor(h)
	assert.Equal(t, image.Pt(0, 199), cursor)

	require.NoError(t, d.MoveTo(h, cursor.X, cursor.Y))
	again, _ := d.Cursor(h)
	assert.Equal(t, cursor, again)

	require.NoError(t, d.MoveTo(h, 320, 0))
	cursor, _ = d.Cursor(h)
	assert.Equal(t, image.Pt(319, 0), cursor)

	assert.Empty(t, d.painted(), "moving draws nothing")
}

func TestSetPixel(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)
	require.NoError(t, d.SelectPen(h, 40))
	require.NoError(t, d.MoveTo(h, 3, 4))

	for _, pt := range []image.Point{{320, 0}, {-1, 0}, {0, 200}, {0, -1}} {
		assert.ErrorIs(t, d.SetPixel(h, pt.X, pt.Y), ErrOutOfBounds, "point %s", pt)
	}
	assert.Empty(t, d.painted())

	require.NoError(t, d.SetPixel(h, 10, 20))
	require.NoError(t, d.SetPixel(h, 319, 199))
	assert.Equal(t, map[image.Point]uint8{
		{10, 20}:   Foreground,
		{319, 199}: Foreground,
	}, d.painted(), "set pixel ignores the pen")

	cursor, _ := d.Cursor(h)
	assert.Equal(t, image.Pt(3, 4), cursor)
}

func TestLineTo(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		require.NoError(t, d.SelectPen(h, 33))
		require.NoError(t, d.MoveTo(h, 0, 0))
		require.NoError(t, d.LineTo(h, 5, 0))

		want := make(map[image.Point]uint8)
		for x := 0; x <= 5; x++ {
			want[image.Pt(x, 0)] = 33
		}
		assert.Equal(t, want, d.painted())

		cursor, _ := d.Cursor(h)
		assert.Equal(t, image.Pt(5, 0), cursor)
	})

	t.Run("diagonal", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		require.NoError(t, d.LineTo(h, 3, 3))
		assert.Equal(t, map[image.Point]uint8{
			{0, 0}: DefaultPen,
			{1, 1}: DefaultPen,
			{2, 2}: DefaultPen,
			{3, 3}: DefaultPen,
		}, d.painted())
	})

	t.Run("clamped", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		require.NoError(t, d.MoveTo(h, 0, 10))
		require.NoError(t, d.LineTo(h, 1000, 10))

		assert.Len(t, d.painted(), Width)
		cursor, _ := d.Cursor(h)
		assert.Equal(t, image.Pt(Width-1, 10), cursor)
	})

	t.Run("chained", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		require.NoError(t, d.LineTo(h, 2, 0))
		require.NoError(t, d.LineTo(h, 2, 2))
		assert.Len(t, d.painted(), 5, "shared corner is drawn once")
	})
}

func TestSelectPen(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)

	for _, index := range []int{-1, 0, 15, 256, 1000} {
		assert.ErrorIs(t, d.SelectPen(h, index), ErrInvalidArgument, "index %d", index)
	}
	pen, _ := d.Pen(h)
	assert.Equal(t, uint8(DefaultPen), pen, "rejected pens leave the context alone")

	for _, index := range []int{MinPen, 100, MaxPen} {
		require.NoError(t, d.SelectPen(h, index))
		pen, _ = d.Pen(h)
		assert.Equal(t, uint8(index), pen)
	}
}

func TestFillRect(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		for _, r := range []Rect{
			{Left: 10, Top: 10, Right: 5, Bottom: 20},
			{Left: 0, Top: 30, Right: 10, Bottom: 20},
			{Left: 400, Top: 0, Right: 500, Bottom: 10}, // left is never lowered
			{Left: 0, Top: 0, Right: -1, Bottom: 10},    // right is never raised
			{Left: 0, Top: 250, Right: 10, Bottom: 300},
		} {
			assert.ErrorIs(t, d.FillRect(h, r), ErrInvalidRect, "rect %+v", r)
		}
		assert.Empty(t, d.painted())
	})

	t.Run("inclusive", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		require.NoError(t, d.SelectPen(h, 50))
		require.NoError(t, d.FillRect(h, Rect{Left: 2, Top: 3, Right: 4, Bottom: 3}))
		assert.Equal(t, map[image.Point]uint8{
			{2, 3}: 50,
			{3, 3}: 50,
			{4, 3}: 50,
		}, d.painted())
	})

	t.Run("clipped", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		require.NoError(t, d.FillRect(h, Rect{Left: -5, Top: -5, Right: 2, Bottom: 1}))
		assert.Len(t, d.painted(), 6)

		require.NoError(t, d.FillRect(h, Rect{Left: 310, Top: 190, Right: 400, Bottom: 400}))
		assert.Len(t, d.painted(), 6+10*10)
		assert.Equal(t, uint8(DefaultPen), d.surface.ColorIndexAt(Width-1, Height-1))
	})

	t.Run("cursor", func(t *testing.T) {
		d := newTestDevice(t)
		h := d.acquire(t)
		require.NoError(t, d.MoveTo(h, 9, 9))
		require.NoError(t, d.FillRect(h, Rect{0, 0, 1, 1}))
		cursor, _ := d.Cursor(h)
		assert.Equal(t, image.Pt(9, 9), cursor)
	})
}

func TestFrameRect(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)
	require.NoError(t, d.FrameRect(h, Rect{Left: 1, Top: 1, Right: 3, Bottom: 3}))

	painted := d.painted()
	assert.Len(t, painted, 8)
	assert.NotContains(t, painted, image.Pt(2, 2))

	assert.ErrorIs(t, d.FrameRect(h, Rect{Left: 5, Top: 0, Right: 1, Bottom: 1}), ErrInvalidRect)
}

func TestSetPaletteEntry(t *testing.T) {
	d := newTestDevice(t)

	for _, index := range []int{5, 15, -1, 256} {
		assert.ErrorIs(t, d.SetPaletteEntry(index, 10, 10, 10), ErrInvalidArgument, "index %d", index)
	}
	assert.Empty(t, d.ports.Writes(), "rejected entries touch no port")

	require.NoError(t, d.SetPaletteEntry(20, 100, -5, 30))
	assert.Equal(t, []conn.Write{
		{Port: 0x3c8, Value: 20},
		{Port: 0x3c9, Value: 63},
		{Port: 0x3c9, Value: 0},
		{Port: 0x3c9, Value: 30},
	}, d.ports.Writes())

	want := pixel.DAC{R: 63, G: 0, B: 30}
	assert.Equal(t, want, d.PaletteEntry(20))
	assert.Equal(t, want, d.surface.Palette[20], "surface palette follows the DAC")
}

func TestSetPaletteEntryPortFailure(t *testing.T) {
	d := newTestDevice(t)
	before := d.PaletteEntry(30)

	d.ports.Err = io.ErrClosedPipe
	err := d.SetPaletteEntry(30, 1, 2, 3)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, before, d.PaletteEntry(30))
}

func TestConcurrentPaletteSequences(t *testing.T) {
	d := newTestDevice(t)

	var wg sync.WaitGroup
	for i := MinPen; i < MinPen+32; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			assert.NoError(t, d.SetPaletteEntry(index, index, index, index))
		}(i)
	}
	wg.Wait()

	writes := d.ports.Writes()
	require.Len(t, writes, 32*4)
	for i := 0; i < len(writes); i += 4 {
		require.Equal(t, dacWriteIndex, writes[i].Port)
		index := writes[i].Value
		for _, w := range writes[i+1 : i+4] {
			assert.Equal(t, conn.Write{Port: dacData, Value: pixel.Clamp6(int(index))}, w)
		}
	}
}

func TestConcurrentAcquire(t *testing.T) {
	d := newTestDevice(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		handles = make(map[Handle]bool)
		failed  int
	)
	for i := 0; i < 3*MaxContexts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := d.AcquireContext()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			handles[h] = true
		}()
	}
	wg.Wait()

	assert.Len(t, handles, MaxContexts)
	assert.Equal(t, 2*MaxContexts, failed)
}

func TestClearSurface(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)
	require.NoError(t, d.FillRect(h, Rect{0, 0, Width, Height}))
	assert.Len(t, d.painted(), Width*Height)

	d.ClearSurface()
	assert.Empty(t, d.painted())
}

func TestNew(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("clear on init", func(t *testing.T) {
		s := framebuffer.New()
		s.FillIndex(7)
		_, err := New(s, new(conn.Recorder), &Config{Logger: quiet, ClearOnInit: true})
		require.NoError(t, err)
		assert.Equal(t, uint8(pixel.Black), s.ColorIndexAt(100, 100))
	})

	t.Run("keep contents", func(t *testing.T) {
		s := framebuffer.New()
		s.FillIndex(7)
		_, err := New(s, new(conn.Recorder), &Config{Logger: quiet})
		require.NoError(t, err)
		assert.Equal(t, uint8(7), s.ColorIndexAt(100, 100))
	})

	t.Run("wrong size", func(t *testing.T) {
		_, err := New(&framebuffer.Surface{Indexed8Image: pixel.NewIndexed8Image(64, 64)}, new(conn.Recorder), nil)
		assert.ErrorIs(t, err, framebuffer.ErrSurfaceSize)
	})

	t.Run("missing ports", func(t *testing.T) {
		_, err := New(framebuffer.New(), nil, nil)
		assert.Error(t, err)
	})
}

func TestClose(t *testing.T) {
	d := newTestDevice(t)
	assert.NoError(t, d.Close())
}

func TestTextOut(t *testing.T) {
	d := newTestDevice(t)
	h := d.acquire(t)
	require.NoError(t, d.SelectPen(h, 44))
	require.NoError(t, d.MoveTo(h, 10, 10))
	require.NoError(t, d.TextOut(h, "Hi"))

	painted := d.painted()
	require.NotEmpty(t, painted)
	box := image.Rect(10, 10, 10+2*7, 10+13)
	for pt, v := range painted {
		assert.Equal(t, uint8(44), v)
		assert.True(t, pt.In(box), "glyph pixel %s outside %s", pt, box)
	}

	cursor, _ := d.Cursor(h)
	assert.Equal(t, image.Pt(10, 10), cursor)

	// Text running off the surface is clipped.
	require.NoError(t, d.MoveTo(h, Width-3, Height-3))
	require.NoError(t, d.TextOut(h, "WWW"))
}

func TestLoadFont(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFont(filepath.Join(dir, "missing.ttf"), 12)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font"), 0o644))
	_, err = LoadFont(garbage, 12)
	assert.Error(t, err)

	name := filepath.Join(dir, "regular.ttf")
	require.NoError(t, os.WriteFile(name, goregular.TTF, 0o644))
	face, err := LoadFont(name, 16)
	require.NoError(t, err)

	surface := framebuffer.New()
	d, err := New(surface, new(conn.Recorder), &Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Font:   face,
	})
	require.NoError(t, err)
	h, err := d.AcquireContext()
	require.NoError(t, err)
	require.NoError(t, d.TextOut(h, "gfx"))
	assert.NotEqual(t, uint8(pixel.Black), maxIndex(surface))
}

func maxIndex(s *framebuffer.Surface) uint8 {
	var v uint8
	for _, p := range s.Pix {
		if p > v {
			v = p
		}
	}
	return v
}
