package gfx

import (
	"log/slog"
	"os"

	"golang.org/x/image/font"
)

var debug bool

func init() {
	debug = os.Getenv("GFX_DEBUG") != ""
}

// Config is the device configuration.
type Config struct {
	// Logger receives debug records, nil logs warnings to stderr (or everything if
	// GFX_DEBUG is set).
	Logger *slog.Logger

	// Font used by TextOut, nil uses a 7x13 bitmap font.
	Font font.Face

	// ClearOnInit blanks the surface to black when the device is created.
	ClearOnInit bool
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	ClearOnInit: true,
}

func defaultLogger() *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
