//go:build !linux

package framebuffer

// OpenMem is not supported on this platform.
func OpenMem(_ *Config) (*Surface, error) {
	return nil, ErrNotSupported
}

// OpenDevice is not supported on this platform.
func OpenDevice(_ *Config) (*Surface, error) {
	return nil, ErrNotSupported
}
