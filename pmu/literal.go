package pmu

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

const sysfsDevices = "bus/event_source/devices"

// SysFS returns the host sysfs tree.
func SysFS() fs.FS {
	return os.DirFS("/sys")
}

// LiteralResolver decodes explicit encodings: raw rNNNN codes and
// pmu/term=value,.../ groups whose terms are looked up in the PMU's sysfs
// format and events directories. The FS is rooted at /sys.
type LiteralResolver struct {
	FS fs.FS
}

// NewLiteralResolver creates a LiteralResolver over sysfs.
func NewLiteralResolver(sysfs fs.FS) *LiteralResolver {
	return &LiteralResolver{FS: sysfs}
}

func (r *LiteralResolver) Resolve(spec string) (HardwareConfig, error) {
	body, mods, err := splitModifiers(strings.TrimSpace(spec))
	if err != nil {
		return HardwareConfig{}, err
	}

	var cfg HardwareConfig
	switch {
	case isRawCode(body):
		v, _ := strconv.ParseUint(body[1:], 16, 64)
		cfg = HardwareConfig{Type: TypeRaw, Config: v, PMU: "cpu", Decoded: body}
	case strings.Contains(body, "/"):
		cfg, err = r.resolveGroup(spec, body)
		if err != nil {
			return HardwareConfig{}, err
		}
	default:
		return HardwareConfig{}, resolveErrorf(spec, ErrKindUnknownEvent, "not a literal encoding")
	}
	applyModifiers(&cfg, mods)
	return cfg, nil
}

func isRawCode(s string) bool {
	if len(s) < 2 || s[0] != 'r' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 64)
	return err == nil
}

func (r *LiteralResolver) resolveGroup(spec, body string) (HardwareConfig, error) {
	slash := strings.IndexByte(body, '/')
	if slash <= 0 || !strings.HasSuffix(body, "/") || slash == len(body)-1 {
		return HardwareConfig{}, resolveErrorf(spec, ErrKindSyntax, "expected pmu/terms/")
	}
	pmu, terms := body[:slash], body[slash+1:len(body)-1]
	if strings.Contains(terms, "/") {
		return HardwareConfig{}, resolveErrorf(spec, ErrKindSyntax, "unexpected '/' in terms")
	}

	dev, err := lookupPMU(r.FS, pmu)
	if err != nil {
		return HardwareConfig{}, resolveErrorf(spec, ErrKindUnknownPMU, "%v", err)
	}
	cfg := HardwareConfig{
		Type:     dev.typ,
		PMU:      dev.name,
		MultiPMU: dev.instances > 1,
		Decoded:  body,
	}
	if err := r.applyTerms(&cfg, dev.dir, terms, 0); err != nil {
		return HardwareConfig{}, resolveErrorf(spec, ErrKindSyntax, "%v", err)
	}
	return cfg, nil
}

func (r *LiteralResolver) applyTerms(cfg *HardwareConfig, dir, terms string, depth int) error {
	for _, term := range strings.Split(terms, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key, val, hasVal := strings.Cut(term, "=")
		key = strings.TrimSpace(key)

		if !hasVal {
			// A bare term is either a named event alias or a flag format
			// term meaning 1.
			if alias, err := fs.ReadFile(r.FS, path.Join(dir, "events", key)); err == nil {
				if depth > 0 {
					return fmt.Errorf("nested event alias %q", key)
				}
				if err := r.applyTerms(cfg, dir, strings.TrimSpace(string(alias)), depth+1); err != nil {
					return fmt.Errorf("event %s: %w", key, err)
				}
				continue
			}
			val = "1"
		}

		v, err := strconv.ParseUint(strings.TrimSpace(val), 0, 64)
		if err != nil {
			return fmt.Errorf("term %s: invalid value %q", key, val)
		}

		switch key {
		case "config":
			cfg.Config = v
		case "config1":
			cfg.Config1 = v
		case "config2":
			cfg.Config2 = v
		case "period", "freq", "name":
			// Sampling terms do not affect counting.
		default:
			format, err := fs.ReadFile(r.FS, path.Join(dir, "format", key))
			if err != nil {
				return fmt.Errorf("unknown term %q", key)
			}
			if err := applyFormat(cfg, strings.TrimSpace(string(format)), v); err != nil {
				return fmt.Errorf("term %s: %w", key, err)
			}
		}
	}
	return nil
}

// applyFormat scatters value into the bits described by a sysfs format
// string such as "config:0-7" or "config1:0-15,32-47".
func applyFormat(cfg *HardwareConfig, format string, value uint64) error {
	field, bits, ok := strings.Cut(format, ":")
	if !ok {
		return fmt.Errorf("malformed format %q", format)
	}
	var target *uint64
	switch field {
	case "config":
		target = &cfg.Config
	case "config1":
		target = &cfg.Config1
	case "config2":
		target = &cfg.Config2
	default:
		return fmt.Errorf("unsupported format field %q", field)
	}

	mask, err := parseBitRanges(bits)
	if err != nil {
		return err
	}

	var out uint64
	n := 0
	for b := 0; b < 64; b++ {
		if mask&(1<<b) == 0 {
			continue
		}
		if value&(1<<n) != 0 {
			out |= 1 << b
		}
		n++
	}
	if n < 64 && value>>n != 0 {
		return fmt.Errorf("value %#x does not fit in %d bits", value, n)
	}
	*target = (*target &^ mask) | out
	return nil
}

func parseBitRanges(s string) (uint64, error) {
	var mask uint64
	for _, r := range strings.Split(s, ",") {
		lo, hi, isRange := strings.Cut(strings.TrimSpace(r), "-")
		l, err := strconv.Atoi(lo)
		if err != nil {
			return 0, fmt.Errorf("malformed bit range %q", r)
		}
		h := l
		if isRange {
			if h, err = strconv.Atoi(hi); err != nil {
				return 0, fmt.Errorf("malformed bit range %q", r)
			}
		}
		if l < 0 || h > 63 || l > h {
			return 0, fmt.Errorf("bit range %q out of bounds", r)
		}
		for b := l; b <= h; b++ {
			mask |= 1 << b
		}
	}
	return mask, nil
}

type pmuDevice struct {
	name      string
	dir       string
	typ       uint32
	instances int
}

// lookupPMU finds a PMU by exact name, or by prefix for numbered uncore
// instances (uncore_imc matches uncore_imc_0, uncore_imc_1, ...).
func lookupPMU(fsys fs.FS, name string) (pmuDevice, error) {
	if fsys == nil {
		return pmuDevice{}, fmt.Errorf("no sysfs to look up pmu %q", name)
	}
	dir := path.Join(sysfsDevices, name)
	if typ, err := readPMUType(fsys, dir); err == nil {
		return pmuDevice{name: name, dir: dir, typ: typ, instances: 1}, nil
	}

	matches, _ := fs.Glob(fsys, path.Join(sysfsDevices, name+"_*"))
	sort.Strings(matches)
	var found []pmuDevice
	for _, m := range matches {
		if typ, err := readPMUType(fsys, m); err == nil {
			found = append(found, pmuDevice{name: path.Base(m), dir: m, typ: typ})
		}
	}
	if len(found) == 0 {
		return pmuDevice{}, fmt.Errorf("pmu %q not found", name)
	}
	dev := found[0]
	dev.instances = len(found)
	return dev, nil
}

func readPMUType(fsys fs.FS, dir string) (uint32, error) {
	b, err := fs.ReadFile(fsys, path.Join(dir, "type"))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 32)
	return uint32(v), err
}

// Names lists the named events sysfs exposes, as pmu/name/.
func (r *LiteralResolver) Names() []string {
	if r.FS == nil {
		return nil
	}
	devs, err := fs.ReadDir(r.FS, sysfsDevices)
	if err != nil {
		return nil
	}
	var names []string
	for _, d := range devs {
		evs, err := fs.ReadDir(r.FS, path.Join(sysfsDevices, d.Name(), "events"))
		if err != nil {
			continue
		}
		for _, e := range evs {
			n := e.Name()
			if strings.Contains(n, ".") {
				continue // .scale, .unit, .per-pkg
			}
			names = append(names, d.Name()+"/"+n+"/")
		}
	}
	sort.Strings(names)
	return names
}
