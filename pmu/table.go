package pmu

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// TableResolver resolves symbolic event names from a perfmon-style JSON event
// table: either a bare array of event objects or an object with an "Events"
// array. Core events become raw cpu events; events with a Unit are mapped to
// the matching uncore PMU found in sysfs.
type TableResolver struct {
	events gjson.Result
	sysfs  fs.FS
}

// NewTableResolver parses an event table. sysfs is used to find uncore PMU
// types and may be nil when only core events are needed.
func NewTableResolver(data []byte, sysfs fs.FS) (*TableResolver, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("event table: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if ev := root.Get("Events"); ev.IsArray() {
		root = ev
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("event table: expected an array of events")
	}
	return &TableResolver{events: root, sysfs: sysfs}, nil
}

// LoadTableResolver reads an event table from path.
func LoadTableResolver(path string, sysfs fs.FS) (*TableResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event table: %w", err)
	}
	t, err := NewTableResolver(data, sysfs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *TableResolver) lookup(name string) (gjson.Result, bool) {
	var found gjson.Result
	t.events.ForEach(func(_, ev gjson.Result) bool {
		if strings.EqualFold(ev.Get("EventName").String(), name) {
			found = ev
			return false
		}
		return true
	})
	return found, found.Exists()
}

func (t *TableResolver) Resolve(spec string) (HardwareConfig, error) {
	name, mods, err := splitModifiers(strings.TrimSpace(spec))
	if err != nil {
		return HardwareConfig{}, err
	}
	ev, ok := t.lookup(name)
	if !ok {
		return HardwareConfig{}, resolveErrorf(spec, ErrKindUnknownEvent, "not in event table")
	}

	fields := map[string]uint64{}
	for _, key := range []string{"EventCode", "UMask", "CounterMask", "Invert", "EdgeDetect", "AnyThread", "MSRIndex", "MSRValue"} {
		v, err := tableNumber(ev.Get(key))
		if err != nil {
			return HardwareConfig{}, resolveErrorf(spec, ErrKindSyntax, "%s: %v", key, err)
		}
		fields[key] = v
	}

	code := fields["EventCode"]
	cfg := HardwareConfig{
		Config: code&0xff |
			fields["UMask"]<<8 |
			fields["EdgeDetect"]<<18 |
			fields["AnyThread"]<<21 |
			fields["Invert"]<<23 |
			fields["CounterMask"]<<24 |
			(code>>8)<<32,
	}
	if fields["MSRIndex"] != 0 {
		cfg.Config1 = fields["MSRValue"]
	}

	unit := ev.Get("Unit").String()
	if unit == "" || strings.EqualFold(unit, "cpu") {
		cfg.Type = TypeRaw
		cfg.PMU = "cpu"
	} else {
		dev, err := lookupPMU(t.sysfs, uncorePMU(unit))
		if err != nil {
			return HardwareConfig{}, resolveErrorf(spec, ErrKindUnknownPMU, "unit %s: %v", unit, err)
		}
		cfg.Type = dev.typ
		cfg.PMU = dev.name
		cfg.MultiPMU = dev.instances > 1
	}
	cfg.Decoded = decodeTableEvent(cfg.PMU, fields)
	applyModifiers(&cfg, mods)
	return cfg, nil
}

func decodeTableEvent(pmu string, f map[string]uint64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/event=%#x,umask=%#x", pmu, f["EventCode"], f["UMask"])
	if f["CounterMask"] != 0 {
		fmt.Fprintf(&b, ",cmask=%#x", f["CounterMask"])
	}
	if f["EdgeDetect"] != 0 {
		b.WriteString(",edge")
	}
	if f["Invert"] != 0 {
		b.WriteString(",inv")
	}
	if f["AnyThread"] != 0 {
		b.WriteString(",any")
	}
	if f["MSRIndex"] != 0 {
		fmt.Fprintf(&b, ",offcore_rsp=%#x", f["MSRValue"])
	}
	b.WriteByte('/')
	return b.String()
}

// tableNumber parses perfmon numeric fields: "0x3C", "2", numbers, or a
// comma separated list of which the first entry counts.
func tableNumber(r gjson.Result) (uint64, error) {
	if !r.Exists() {
		return 0, nil
	}
	if r.Type == gjson.Number {
		return r.Uint(), nil
	}
	s := strings.TrimSpace(r.String())
	if first, _, ok := strings.Cut(s, ","); ok {
		s = strings.TrimSpace(first)
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 0, 64)
}

func uncorePMU(unit string) string {
	u := strings.ToLower(unit)
	if strings.HasPrefix(u, "uncore_") {
		return u
	}
	switch u {
	case "cbo":
		u = "cbox"
	case "qpi ll", "qpi":
		u = "qpi"
	}
	return "uncore_" + strings.ReplaceAll(u, " ", "_")
}

// Names lists every event name in the table.
func (t *TableResolver) Names() []string {
	var names []string
	t.events.ForEach(func(_, ev gjson.Result) bool {
		if n := ev.Get("EventName").String(); n != "" {
			names = append(names, n)
		}
		return true
	})
	sort.Strings(names)
	return names
}
