//go:build !linux

package conn

// OpenPort is not supported on this platform.
func OpenPort(_ *PortConfig) (Port, error) {
	return nil, ErrNotSupported
}
