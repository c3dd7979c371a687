package pmu

import "sync/atomic"

// fastCounter is a counter read in user space through its control page.
type fastCounter struct {
	fd   int
	page *ControlPage

	// rdpmc is readHardwareCounter outside of tests.
	rdpmc func(idx uint32) uint64

	// revoked counts reads that found no hardware index; unstable counts
	// those where the lock word also moved during the read.
	revoked  uint64
	unstable uint64
}

func (c *fastCounter) read() uint64 {
	v, status := readControlPage(c.page, c.rdpmc)
	if status != readOK {
		c.revoked++
		if status == readRevokedUnstable {
			c.unstable++
		}
	}
	return v
}

// readStatus is the outcome of one control page read.
type readStatus uint8

const (
	readOK readStatus = iota
	// readRevoked: the index was zero and the page did not change.
	readRevoked
	// readRevokedUnstable: the index was zero while the kernel was
	// updating the page.
	readRevokedUnstable
)

// readControlPage reads a counter with the kernel's seqlock protocol: the
// page fields and the hardware register are sampled between two reads of the
// lock word, and the whole sample is retried if the kernel updated the page
// in between. An index of zero means direct reads are currently revoked and
// yields zero without retrying; the lock word is checked once more so the
// caller can tell a stable revocation from one seen mid-update.
//
// The atomic loads order the plain page reads against the lock reads.
func readControlPage(page *ControlPage, rdpmc func(uint32) uint64) (uint64, readStatus) {
	for {
		seq := atomic.LoadUint32(&page.Lock)
		idx := atomic.LoadUint32(&page.Index)
		offset := atomic.LoadInt64(&page.Offset)
		width := page.PmcWidth

		if idx == 0 {
			if atomic.LoadUint32(&page.Lock) != seq {
				return 0, readRevokedUnstable
			}
			return 0, readRevoked
		}

		raw := rdpmc(idx - 1)

		if atomic.LoadUint32(&page.Lock) == seq {
			return signExtend(raw+uint64(offset), width), readOK
		}
	}
}

// signExtend sign-extends v from width bits. A zero width means 64.
func signExtend(v uint64, width uint16) uint64 {
	if width == 0 || width >= 64 {
		return v
	}
	shift := 64 - width
	return uint64(int64(v<<shift) >> shift)
}
