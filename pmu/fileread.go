package pmu

import (
	"encoding/binary"

	"github.com/wesleyorama2/perfstamp/internal/diag"
)

// readRecordSize is value, time_enabled, time_running.
const readRecordSize = 24

// fileCounter is a counter read with read(2).
type fileCounter struct {
	fd  int
	cpu int // AnyCPU for process-scoped counters

	kernel Kernel
	log    *diag.Logger
	name   string
	buf    [readRecordSize]byte
}

// read returns the counter value scaled for multiplexing. A failed or short
// read is reported and yields zero for this sample only.
func (c *fileCounter) read() uint64 {
	n, err := c.kernel.Read(c.fd, c.buf[:])
	if err != nil || n != readRecordSize {
		c.log.Warnf("read(2) of counter %s failed: %d bytes, %v", c.name, n, err)
		return 0
	}
	value := binary.NativeEndian.Uint64(c.buf[0:8])
	enabled := binary.NativeEndian.Uint64(c.buf[8:16])
	running := binary.NativeEndian.Uint64(c.buf[16:24])
	return scaleMultiplexed(value, enabled, running)
}

// scaleMultiplexed extrapolates a count to the full enabled time when the
// kernel only let the counter run part of it.
func scaleMultiplexed(value, enabled, running uint64) uint64 {
	if enabled == running {
		return value
	}
	if running == 0 {
		return 0
	}
	return uint64(float64(value) * float64(enabled) / float64(running))
}
