package pmu

import (
	"fmt"

	"go.uber.org/multierr"
)

// Mode is how a counter is read. It is set once by Prepare.
type Mode uint8

const (
	ModeUnprogrammed Mode = iota
	ModeFastRead
	ModeSyscallRead
	ModeFailed
)

func (m Mode) String() string {
	switch m {
	case ModeUnprogrammed:
		return "unprogrammed"
	case ModeFastRead:
		return "rdpmc"
	case ModeSyscallRead:
		return "read(2)"
	case ModeFailed:
		return "failed"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Context is one registered counter. Exactly one of the payloads is set,
// selected by the mode: fast for ModeFastRead, file for ModeSyscallRead.
type Context struct {
	Event  Event
	Config HardwareConfig

	mode   Mode
	fast   *fastCounter
	file   *fileCounter
	closed bool
}

// Mode returns the read mode.
func (c *Context) Mode() Mode { return c.mode }

// Closed reports whether the counter has been released. The mode is kept.
func (c *Context) Closed() bool { return c.closed }

// OK reports whether the counter was programmed.
func (c *Context) OK() bool {
	return c.mode == ModeFastRead || c.mode == ModeSyscallRead
}

// Read returns the current counter value. Unprogrammed, failed and closed
// contexts read as zero.
func (c *Context) Read() uint64 {
	if c.closed {
		return 0
	}
	switch c.mode {
	case ModeFastRead:
		return c.fast.read()
	case ModeSyscallRead:
		return c.file.read()
	}
	return 0
}

// ModeString describes the mode, including the CPU for whole-CPU counters.
func (c *Context) ModeString() string {
	if c.mode == ModeSyscallRead && !c.closed {
		if c.file.cpu == AnyCPU {
			return "read(2) process"
		}
		return fmt.Sprintf("read(2) cpu %d", c.file.cpu)
	}
	return c.mode.String()
}

// Caps describes the control page of a fast-read context.
func (c *Context) Caps() string {
	if c.mode != ModeFastRead || c.closed {
		return ""
	}
	return c.fast.page.Caps()
}

func (c *Context) close(k Kernel) error {
	if c.closed {
		return nil
	}
	var err error
	switch c.mode {
	case ModeFastRead:
		err = multierr.Append(k.UnmapControlPage(c.fast.page), k.Close(c.fast.fd))
		c.fast = nil
	case ModeSyscallRead:
		err = k.Close(c.file.fd)
		c.file = nil
	default:
		return nil
	}
	c.closed = true
	if err != nil {
		return fmt.Errorf("close %s: %w", c.Event.Name, err)
	}
	return nil
}
