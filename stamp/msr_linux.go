package stamp

import (
	"encoding/binary"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"

	"github.com/wesleyorama2/perfstamp/pmu"
)

// devMSR reads /dev/cpu/N/msr, keeping one descriptor per CPU.
type devMSR struct {
	kernel pmu.Kernel
	files  map[int]*os.File
}

// DefaultMSRReader reads MSRs through the msr driver. It needs root or
// CAP_SYS_RAWIO.
func DefaultMSRReader() MSRReader {
	return &devMSR{kernel: pmu.DefaultKernel(), files: map[int]*os.File{}}
}

func (d *devMSR) ReadMSR(id uint32) (uint64, error) {
	cpu, err := d.kernel.CurrentCPU()
	if err != nil {
		return 0, err
	}
	f, ok := d.files[cpu]
	if !ok {
		f, err = os.Open(fmt.Sprintf("/dev/cpu/%d/msr", cpu))
		if err != nil {
			return 0, err
		}
		d.files[cpu] = f
	}

	var buf [8]byte
	n, err := unix.Pread(int(f.Fd()), buf[:], int64(id))
	if err != nil {
		return 0, fmt.Errorf("pread msr: %w", err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("pread msr: short read of %d bytes", n)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (d *devMSR) Close() error {
	var err error
	for cpu, f := range d.files {
		err = multierr.Append(err, f.Close())
		delete(d.files, cpu)
	}
	return err
}
