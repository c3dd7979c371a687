//go:build !linux

package pmu

// unsupportedKernel fails every operation with ErrUnsupported.
type unsupportedKernel struct{}

// DefaultKernel returns the host kernel interface.
func DefaultKernel() Kernel { return unsupportedKernel{} }

func (unsupportedKernel) Open(Attr, int, int) (int, error)         { return -1, ErrUnsupported }
func (unsupportedKernel) MapControlPage(int) (*ControlPage, error) { return nil, ErrUnsupported }
func (unsupportedKernel) UnmapControlPage(*ControlPage) error      { return ErrUnsupported }
func (unsupportedKernel) Read(int, []byte) (int, error)            { return 0, ErrUnsupported }
func (unsupportedKernel) Close(int) error                          { return ErrUnsupported }
func (unsupportedKernel) CurrentCPU() (int, error)                 { return -1, ErrUnsupported }
