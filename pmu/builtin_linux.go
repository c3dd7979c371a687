package pmu

import (
	"sort"
	"strings"

	"github.com/aclements/go-perfevent/events"
	"golang.org/x/sys/unix"
)

var builtinEvents = []events.Event{
	events.EventCPUCycles,
	events.EventInstructions,
	events.EventCacheReferences,
	events.EventCacheMisses,
	events.EventBranches,
	events.EventBranchesMisses,
	events.EventBusCycles,
	events.EventCPUClock,
	events.EventTaskClock,
	events.EventPageFaults,
	events.EventContextSwitches,
	events.EventCPUMigrations,
	events.EventMajorFaults,
	events.EventMinorFaults,
	events.EventAlignmentFaults,
	events.EventEmulationFaults,
}

var builtinAliases = map[string]string{
	"cycles":              "cpu-cycles",
	"branch-instructions": "branches",
	"faults":              "page-faults",
	"cs":                  "context-switches",
	"migrations":          "cpu-migrations",
}

// BuiltinResolver resolves the kernel's generic hardware and software event
// names (instructions, cpu-cycles, page-faults, ...).
type BuiltinResolver struct{}

func (BuiltinResolver) Resolve(spec string) (HardwareConfig, error) {
	name, mods, err := splitModifiers(strings.TrimSpace(spec))
	if err != nil {
		return HardwareConfig{}, err
	}
	if alias, ok := builtinAliases[name]; ok {
		name = alias
	}
	for _, ev := range builtinEvents {
		if ev.String() != name {
			continue
		}
		var attr unix.PerfEventAttr
		if err := ev.SetAttrs(&attr); err != nil {
			return HardwareConfig{}, resolveErrorf(spec, ErrKindUnknownEvent, "%v", err)
		}
		cfg := HardwareConfig{
			Type:    attr.Type,
			Config:  attr.Config,
			Config1: attr.Ext1,
			Config2: attr.Ext2,
			PMU:     typeName(attr.Type),
			Decoded: ev.String(),
		}
		applyModifiers(&cfg, mods)
		return cfg, nil
	}
	return HardwareConfig{}, resolveErrorf(spec, ErrKindUnknownEvent, "not a built-in event")
}

// Names lists the built-in event names.
func (BuiltinResolver) Names() []string {
	names := make([]string, 0, len(builtinEvents))
	for _, ev := range builtinEvents {
		names = append(names, ev.String())
	}
	sort.Strings(names)
	return names
}
