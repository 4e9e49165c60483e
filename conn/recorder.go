package conn

import (
	"fmt"
	"sync"
)

// Write is one recorded port write.
type Write struct {
	Port  uint16
	Value uint8
}

func (w Write) String() string {
	return fmt.Sprintf("outb 0x%x, 0x%02x", w.Port, w.Value)
}

// Recorder is a [PortWriter] that records every write in memory.
type Recorder struct {
	mu     sync.Mutex
	writes []Write

	// Err is returned by Outb when set, the write is not recorded.
	Err error
}

func (r *Recorder) Outb(port uint16, value uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.writes = append(r.writes, Write{Port: port, Value: value})
	return nil
}

// Writes returns a copy of the recorded writes.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// Reset forgets all recorded writes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.writes = nil
	r.mu.Unlock()
}
