//go:build !linux

package pmu

// BuiltinResolver resolves generic kernel event names. It only knows them on
// linux.
type BuiltinResolver struct{}

func (BuiltinResolver) Resolve(spec string) (HardwareConfig, error) {
	return HardwareConfig{}, resolveErrorf(spec, ErrKindUnknownEvent, "built-in events require linux")
}

func (BuiltinResolver) Names() []string { return nil }
