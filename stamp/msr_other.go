//go:build !linux

package stamp

type noMSR struct{}

// DefaultMSRReader returns a reader that always fails off linux.
func DefaultMSRReader() MSRReader { return noMSR{} }

func (noMSR) ReadMSR(uint32) (uint64, error) { return 0, errMSRUnsupported }

func (noMSR) Close() error { return nil }
