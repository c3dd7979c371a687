package pmu

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// LinuxKernel programs counters with perf_event_open(2).
type LinuxKernel struct{}

// DefaultKernel returns the host kernel interface.
func DefaultKernel() Kernel { return LinuxKernel{} }

func (LinuxKernel) Open(a Attr, pid, cpu int) (int, error) {
	attr := unix.PerfEventAttr{
		Type:   a.Type,
		Config: a.Config,
		Ext1:   a.Config1,
		Ext2:   a.Config2,
	}
	attr.Size = uint32(unsafe.Sizeof(attr))
	attr.Read_format = unix.PERF_FORMAT_TOTAL_TIME_ENABLED | unix.PERF_FORMAT_TOTAL_TIME_RUNNING
	if a.Pinned {
		attr.Bits |= unix.PerfBitPinned
	}
	if a.ExcludeUser {
		attr.Bits |= unix.PerfBitExcludeUser
	}
	if a.ExcludeKernel {
		attr.Bits |= unix.PerfBitExcludeKernel
	}
	if a.ExcludeHV {
		attr.Bits |= unix.PerfBitExcludeHv
	}

	fd, err := unix.PerfEventOpen(&attr, pid, cpu, -1, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		return -1, fmt.Errorf("perf_event_open: %w", err)
	}
	return fd, nil
}

func (LinuxKernel) MapControlPage(fd int) (*ControlPage, error) {
	ptr, err := unix.MmapPtr(fd, 0, nil, uintptr(unix.Getpagesize()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap control page: %w", err)
	}
	return (*ControlPage)(ptr), nil
}

func (LinuxKernel) UnmapControlPage(page *ControlPage) error {
	return unix.MunmapPtr(unsafe.Pointer(page), uintptr(unix.Getpagesize()))
}

func (LinuxKernel) Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

func (LinuxKernel) Close(fd int) error {
	return unix.Close(fd)
}

func (LinuxKernel) CurrentCPU() (int, error) {
	var cpu, node uint32
	_, _, errno := unix.RawSyscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return -1, fmt.Errorf("getcpu: %w", errno)
	}
	return int(cpu), nil
}
