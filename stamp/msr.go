package stamp

import (
	"errors"
	"fmt"
)

// MaxSecondary is the number of MSRs a Stamp can carry.
const MaxSecondary = 1

// MSRReader reads model specific registers of the CPU the caller runs on.
type MSRReader interface {
	ReadMSR(id uint32) (uint64, error)
	Close() error
}

// MSRManager reads the configured MSRs into each Stamp. With no MSRs
// configured it costs nothing per stamp.
type MSRManager struct {
	ids    []uint32
	reader MSRReader
}

// NewMSRManager creates a manager reading through r.
func NewMSRManager(r MSRReader) *MSRManager {
	return &MSRManager{reader: r}
}

// Add registers an MSR. Duplicates are ignored.
func (m *MSRManager) Add(id uint32) {
	for _, have := range m.ids {
		if have == id {
			return
		}
	}
	m.ids = append(m.ids, id)
}

// Empty reports whether no MSRs are configured.
func (m *MSRManager) Empty() bool { return len(m.ids) == 0 }

// Prepare checks the configuration and reads every MSR once, so that
// missing permissions fail here rather than mid-run.
func (m *MSRManager) Prepare() error {
	if len(m.ids) > MaxSecondary {
		return fmt.Errorf("%d MSRs configured, at most %d supported", len(m.ids), MaxSecondary)
	}
	for _, id := range m.ids {
		if m.reader == nil {
			return fmt.Errorf("MSR %#x: no MSR reader", id)
		}
		if _, err := m.reader.ReadMSR(id); err != nil {
			return fmt.Errorf("MSR %#x read failed: %w", id, err)
		}
	}
	return nil
}

// read fills the secondary values of s, stopping at the first failure.
func (m *MSRManager) read(s *Stamp) {
	n := 0
	for _, id := range m.ids {
		v, err := m.reader.ReadMSR(id)
		if err != nil {
			break
		}
		s.Secondary[n] = v
		n++
	}
	s.SecondaryRead = n
}

// Value returns MSR id as read into s.
func (m *MSRManager) Value(id uint32, s Stamp) (uint64, error) {
	for i, have := range m.ids {
		if have != id {
			continue
		}
		if i >= s.SecondaryRead {
			return 0, fmt.Errorf("MSR %#x was not read for this stamp", id)
		}
		return s.Secondary[i], nil
	}
	return 0, fmt.Errorf("MSR %#x not configured", id)
}

// Close releases the reader.
func (m *MSRManager) Close() error {
	if m.reader == nil {
		return nil
	}
	return m.reader.Close()
}

var errMSRUnsupported = errors.New("MSR access is only supported on linux")
