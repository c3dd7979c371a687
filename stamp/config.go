package stamp

import (
	"errors"
	"runtime"

	"go.uber.org/multierr"

	"github.com/wesleyorama2/perfstamp/clock"
	"github.com/wesleyorama2/perfstamp/internal/diag"
	"github.com/wesleyorama2/perfstamp/pmu"
)

// ErrAlreadyPrepared is returned by a second Prepare.
var ErrAlreadyPrepared = errors.New("stamp: config already prepared")

// ConfigOptions configures a Config.
type ConfigOptions struct {
	// Clock defaults to a portable clock.
	Clock clock.Clock

	// Events configures the event manager. Nil means
	// pmu.DefaultManagerConfig.
	Events *pmu.ManagerConfig

	// MSR defaults to DefaultMSRReader. It is only used if MSRs are added.
	MSR MSRReader

	Log *diag.Logger
}

// Config is the factory for Stamps and Deltas. It is used from a single
// goroutine.
type Config struct {
	clock  clock.Clock
	events *pmu.EventManager
	msrs   *MSRManager
	log    *diag.Logger

	prepared bool
	locked   bool
}

// NewConfig creates an unprepared Config.
func NewConfig(opts ConfigOptions) *Config {
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewPortable()
	}
	var mcfg pmu.ManagerConfig
	if opts.Events != nil {
		mcfg = *opts.Events
	} else {
		mcfg = pmu.DefaultManagerConfig()
	}
	if mcfg.Log == nil {
		mcfg.Log = opts.Log
	}
	msr := opts.MSR
	if msr == nil {
		msr = DefaultMSRReader()
	}
	return &Config{
		clock:  clk,
		events: pmu.NewEventManager(mcfg),
		msrs:   NewMSRManager(msr),
		log:    opts.Log,
	}
}

// AddEvent registers an event to count. It fails once the config is
// prepared or all counter slots are taken.
func (c *Config) AddEvent(e pmu.Event) bool {
	if c.prepared {
		c.log.Warnf("event %s added after prepare, ignored", e.Name)
		return false
	}
	return c.events.AddEvent(e)
}

// AddMSR registers an MSR to read with every stamp.
func (c *Config) AddMSR(id uint32) bool {
	if c.prepared {
		c.log.Warnf("MSR %#x added after prepare, ignored", id)
		return false
	}
	c.msrs.Add(id)
	return true
}

// Prepare locks the calling goroutine to its OS thread and programs every
// registered event. It returns per-slot success; failed slots are tolerated.
// The error reports lifecycle misuse or an unreadable MSR.
func (c *Config) Prepare() ([]bool, error) {
	if c.prepared {
		return nil, ErrAlreadyPrepared
	}

	runtime.LockOSThread()
	c.locked = true

	if err := c.msrs.Prepare(); err != nil {
		runtime.UnlockOSThread()
		c.locked = false
		return nil, err
	}

	ok := c.events.Prepare()
	c.prepared = true
	return ok, nil
}

// Prepared reports whether Prepare succeeded.
func (c *Config) Prepared() bool { return c.prepared }

// Stamp snapshots the clock and every counter slot. It panics if the config
// is not prepared.
func (c *Config) Stamp() Stamp {
	if !c.prepared {
		panic("stamp: Stamp before Prepare")
	}
	var s Stamp
	s.TSCBefore = c.clock.Now()
	c.events.ReadAll((*[pmu.MaxCounters]uint64)(&s.Counters))
	s.TSC = c.clock.Now()
	if !c.msrs.Empty() {
		c.msrs.read(&s)
	}
	s.config = c
	return s
}

// Delta returns after - before. Both stamps must come from c.
func (c *Config) Delta(before, after Stamp) Delta {
	if before.config != c || after.config != c {
		panic("stamp: Delta of stamps from a different config")
	}
	return Delta{
		config:   c,
		tsc:      after.TSC - before.TSC,
		counters: after.Counters.Sub(before.Counters),
	}
}

// MSRValue returns MSR id as read into s.
func (c *Config) MSRValue(id uint32, s Stamp) (uint64, error) {
	return c.msrs.Value(id, s)
}

// Clock returns the clock stamps are taken with.
func (c *Config) Clock() clock.Clock { return c.clock }

// Events returns the registered events in slot order.
func (c *Config) Events() []pmu.Event { return c.events.Events() }

// Manager returns the underlying event manager.
func (c *Config) Manager() *pmu.EventManager { return c.events }

// Close releases every counter and unlocks the OS thread. It must be called
// from the goroutine that called Prepare.
func (c *Config) Close() error {
	err := multierr.Combine(c.events.Close(), c.msrs.Close())
	if c.locked {
		runtime.UnlockOSThread()
		c.locked = false
	}
	return err
}
