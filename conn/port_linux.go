package conn

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"
)

type devPort struct {
	f  *os.File
	fd int
}

// OpenPort opens the port device, the file offset selects the port number.
// Access requires CAP_SYS_RAWIO.
func OpenPort(config *PortConfig) (Port, error) {
	if config == nil {
		config = new(PortConfig)
		*config = DefaultPortConfig
	}

	f, err := os.OpenFile(config.Device, os.O_WRONLY, 0)
	if err != nil {
		return nil, errors.WrapPrefix(err, "conn: open", 0)
	}
	return &devPort{
		f:  f,
		fd: int(f.Fd()),
	}, nil
}

func (p *devPort) String() string {
	return fmt.Sprintf("ports %s", p.f.Name())
}

func (p *devPort) Halt() error {
	return nil
}

func (p *devPort) Close() error {
	return p.f.Close()
}

func (p *devPort) Outb(port uint16, value uint8) error {
	n, err := unix.Pwrite(p.fd, []byte{value}, int64(port))
	if err != nil {
		return errors.WrapPrefix(err, fmt.Sprintf("conn: outb 0x%x", port), 0)
	}
	if n != 1 {
		return errors.Errorf("conn: outb 0x%x: short write", port)
	}
	return nil
}
