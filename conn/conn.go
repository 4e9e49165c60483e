// Package conn provides access to I/O ports.
//
// The palette of a VGA compatible adapter is programmed through I/O ports. On Linux the
// ports are reachable through /dev/port ([OpenPort]); tests and in-memory surfaces use a
// [Recorder].
package conn

import (
	"github.com/go-errors/errors"
	periph "periph.io/x/conn/v3"
)

// Errors
var (
	ErrNotSupported = errors.New("conn: port I/O not supported")
)

// PortWriter writes single bytes to I/O ports.
type PortWriter interface {
	// Outb writes value to port.
	Outb(port uint16, value uint8) error
}

// Port is an opened port device.
type Port interface {
	PortWriter
	periph.Resource

	// Close the port device.
	Close() error
}

// PortConfig describes the port device.
type PortConfig struct {
	// Device is the path of the port device.
	Device string
}

// DefaultPortConfig are the default configuration values.
var DefaultPortConfig = PortConfig{
	Device: "/dev/port",
}
