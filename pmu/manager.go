package pmu

import (
	"io/fs"
	"os"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/wesleyorama2/perfstamp/internal/diag"
)

const (
	// MaxCounters is the number of event slots.
	MaxCounters = 8

	// Unavailable is the slot returned for registered events that could not
	// be programmed.
	Unavailable = -1

	// NoRDPMCEnv disables the fast read path when set to anything but "0".
	NoRDPMCEnv = "PERFSTAMP_NO_RDPMC"
)

// FastPathDisabled reports whether the environment disables direct reads.
func FastPathDisabled() bool {
	v, ok := os.LookupEnv(NoRDPMCEnv)
	return ok && v != "0"
}

// ManagerConfig configures an EventManager.
type ManagerConfig struct {
	Kernel   Kernel
	Resolver EventResolver

	// DisableFastPath forces every counter through read(2).
	DisableFastPath bool

	Log *diag.Logger
}

// DefaultManagerConfig returns a config for the host: the host kernel,
// literal encodings from sysfs, built-in event names, and the fast path
// unless disabled by the environment.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Kernel:          DefaultKernel(),
		Resolver:        NewResolver(SysFS(), nil),
		DisableFastPath: FastPathDisabled(),
	}
}

// NewResolver builds the standard resolver: literal encodings over sysfs,
// then built-in names, then the optional event table.
func NewResolver(sysfs fs.FS, table *TableResolver) EventResolver {
	symbolic := FirstOf{BuiltinResolver{}}
	if table != nil {
		symbolic = append(symbolic, table)
	}
	return EventResolver{
		Literal:  NewLiteralResolver(sysfs),
		Symbolic: symbolic,
	}
}

// EventManager assigns registered events to slots and programs them.
//
// Slot indices follow registration order and never change. An EventManager
// and its counters belong to the OS thread that prepared them.
type EventManager struct {
	cfg      ManagerConfig
	contexts []Context
}

// NewEventManager creates an empty manager.
func NewEventManager(cfg ManagerConfig) *EventManager {
	if cfg.Kernel == nil {
		cfg.Kernel = DefaultKernel()
	}
	return &EventManager{cfg: cfg, contexts: make([]Context, 0, MaxCounters)}
}

// AddEvent registers e and reports whether it has a slot. Pseudo events and
// events already registered succeed without taking a new slot; registering
// past MaxCounters fails.
func (m *EventManager) AddEvent(e Event) bool {
	if e.IsPseudo() {
		return true
	}
	if m.find(e) >= 0 {
		return true
	}
	if len(m.contexts) == MaxCounters {
		m.cfg.Log.Warnf("unable to register event %s: all %d counter slots in use", e.Name, MaxCounters)
		return false
	}
	m.cfg.Log.Verbosef("adding event %s", e)
	m.contexts = append(m.contexts, Context{Event: e})
	return true
}

func (m *EventManager) find(e Event) int {
	for i := range m.contexts {
		if m.contexts[i].Event.Equal(e) {
			return i
		}
	}
	return -1
}

// Prepare programs every slot not programmed yet and returns the success of
// each slot, in slot order. Failures are absorbed per slot.
func (m *EventManager) Prepare() []bool {
	for i := range m.contexts {
		if m.contexts[i].mode == ModeUnprogrammed {
			m.program(&m.contexts[i])
		}
	}

	// Later events with constraints can move the index of earlier ones, so
	// describe them only once all are programmed.
	if m.cfg.Log.IsVerbose() {
		for i := range m.contexts {
			c := &m.contexts[i]
			if !c.OK() {
				continue
			}
			m.cfg.Log.Verbosef("resolved and programmed event '%s' to %s\n    mode: %s", c.Event.Name, c.Config, c.ModeString())
			if caps := c.Caps(); caps != "" {
				m.cfg.Log.Verbosef("    caps: %s", caps)
			}
		}
	}

	ok := make([]bool, len(m.contexts))
	failures := 0
	for i := range m.contexts {
		ok[i] = m.contexts[i].OK()
		if !ok[i] {
			failures++
		}
	}
	if failures > 0 {
		m.cfg.Log.Warnf("%d events failed to be configured", failures)
	}
	m.cfg.Log.Verbosef("event manager configured %d events", len(ok)-failures)
	return ok
}

func (m *EventManager) program(c *Context) {
	log := m.cfg.Log

	cfg, err := m.cfg.Resolver.Resolve(c.Event)
	if err != nil {
		log.Warnf("unable to resolve event '%s': %v", c.Event.Name, err)
		c.mode = ModeFailed
		return
	}
	log.Verbosef(">> %s (multi-pmu: %t): %s", c.Event.Name, cfg.MultiPMU, cfg.Decoded)
	c.Config = cfg

	if cfg.MultiPMU {
		log.Warnf("event '%s' failed as it needs multiple PMUs (not supported)", c.Event.Name)
		c.mode = ModeFailed
		return
	}

	attr := Attr{HardwareConfig: cfg, Pinned: true}
	if m.openFast(c, attr) || m.openFile(c, attr, false) || m.openFile(c, attr, true) {
		return
	}
	c.mode = ModeFailed
}

// openFast opens a pinned, thread-scoped counter and keeps it only if the
// kernel grants direct reads. Failures are silent.
func (m *EventManager) openFast(c *Context, attr Attr) bool {
	if m.cfg.DisableFastPath || !fastPathSupported {
		return false
	}
	k := m.cfg.Kernel

	fd, err := k.Open(attr, CurrentProcess, AnyCPU)
	if err != nil {
		return false
	}
	page, err := k.MapControlPage(fd)
	if err != nil {
		k.Close(fd)
		return false
	}
	if !page.CanReadDirect() || atomic.LoadUint32(&page.Index) == 0 {
		k.UnmapControlPage(page)
		k.Close(fd)
		return false
	}

	c.mode = ModeFastRead
	c.fast = &fastCounter{fd: fd, page: page, rdpmc: readHardwareCounter}
	return true
}

// openFile opens an unpinned counter read with read(2), scoped to the
// calling thread or, for events that cannot count per process, to the whole
// CPU the thread runs on. Only the whole-CPU attempt reports failure.
func (m *EventManager) openFile(c *Context, attr Attr, wholeCPU bool) bool {
	k := m.cfg.Kernel
	attr.Pinned = false

	pid, cpu := CurrentProcess, AnyCPU
	if wholeCPU {
		cur, err := k.CurrentCPU()
		if err != nil {
			m.cfg.Log.Warnf("failed to program event '%s' (reason: %v)\n\tresolved to: %s", c.Event.Name, err, attr.HardwareConfig)
			return false
		}
		pid, cpu = AnyProcess, cur
	}

	fd, err := k.Open(attr, pid, cpu)
	if err != nil {
		if wholeCPU {
			m.cfg.Log.Warnf("failed to program event '%s' (reason: %v)\n\tresolved to: %s", c.Event.Name, err, attr.HardwareConfig)
		}
		return false
	}

	c.mode = ModeSyscallRead
	c.file = &fileCounter{fd: fd, cpu: cpu, kernel: k, log: m.cfg.Log, name: c.Event.Name}
	return true
}

// Mapping returns the slot of e, or Unavailable if e was registered but
// could not be programmed. It fails with *NonExistentCounterError for an
// event never registered and ErrNotPrepared before Prepare.
func (m *EventManager) Mapping(e Event) (int, error) {
	i := m.find(e)
	if i < 0 {
		return Unavailable, &NonExistentCounterError{Event: e}
	}
	switch m.contexts[i].mode {
	case ModeUnprogrammed:
		return Unavailable, ErrNotPrepared
	case ModeFailed:
		return Unavailable, nil
	}
	return i, nil
}

// Count returns the number of registered events.
func (m *EventManager) Count() int { return len(m.contexts) }

// Events returns the registered events in slot order.
func (m *EventManager) Events() []Event {
	out := make([]Event, len(m.contexts))
	for i := range m.contexts {
		out[i] = m.contexts[i].Event
	}
	return out
}

// Contexts returns the slot contexts.
func (m *EventManager) Contexts() []*Context {
	out := make([]*Context, len(m.contexts))
	for i := range m.contexts {
		out[i] = &m.contexts[i]
	}
	return out
}

// ReadAll reads every slot into dst. Slots that are not programmed read as
// zero.
func (m *EventManager) ReadAll(dst *[MaxCounters]uint64) {
	serializingFence()
	for i := range m.contexts {
		dst[i] = m.contexts[i].Read()
	}
}

// Close releases every programmed counter. Afterwards every slot reads as
// zero, while modes and Mapping are unchanged so deltas taken earlier keep
// their values.
func (m *EventManager) Close() error {
	var err error
	for i := range m.contexts {
		c := &m.contexts[i]
		if c.mode == ModeFastRead && !c.closed && c.fast.revoked > 0 {
			m.cfg.Log.Warnf("event '%s' lost direct reads on %d samples (%d during a page update); those read as zero",
				c.Event.Name, c.fast.revoked, c.fast.unstable)
		}
		err = multierr.Append(err, c.close(m.cfg.Kernel))
	}
	return err
}
