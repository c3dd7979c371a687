package pmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadControlPage(t *testing.T) {
	page := &ControlPage{Lock: 2, Index: 3, Offset: 1000, PmcWidth: 48, Capabilities: capabilityRDPMC}
	var sawIdx uint32
	got, status := readControlPage(page, func(idx uint32) uint64 {
		sawIdx = idx
		return 234
	})
	assert.Equal(t, uint32(2), sawIdx, "hardware counter is index-1")
	assert.Equal(t, uint64(1234), got)
	assert.Equal(t, readOK, status)
}

// The kernel rewrites the page between the first lock read and the register
// read. The reader must discard the torn sample and return the values of the
// second, consistent snapshot.
func TestReadControlPage_RetriesOnConcurrentUpdate(t *testing.T) {
	page := &ControlPage{Lock: 10, Index: 1, Offset: 100, PmcWidth: 64}

	calls := 0
	got, _ := readControlPage(page, func(uint32) uint64 {
		calls++
		if calls == 1 {
			// Simulated kernel update mid-read.
			page.Lock++
			page.Offset = 5000
			page.Lock++
			return 7
		}
		return 9
	})

	assert.Equal(t, 2, calls)
	assert.Equal(t, uint64(5009), got, "value must come from a single snapshot")
}

func TestReadControlPage_IndexZero(t *testing.T) {
	page := &ControlPage{Lock: 4, Index: 0, Offset: 77}
	got, status := readControlPage(page, func(uint32) uint64 {
		t.Fatal("register must not be read without an index")
		return 0
	})
	assert.Zero(t, got)
	assert.Equal(t, readRevoked, status)
}

func TestFastCounter_CountsRevokedReads(t *testing.T) {
	page := &ControlPage{Lock: 4, Index: 1}
	c := &fastCounter{page: page, rdpmc: func(uint32) uint64 { return 7 }}

	assert.Equal(t, uint64(7), c.read())
	assert.Zero(t, c.revoked)

	page.Index = 0
	assert.Zero(t, c.read())
	assert.Zero(t, c.read())
	assert.Equal(t, uint64(2), c.revoked)
	assert.Zero(t, c.unstable, "the lock word did not move")
}

func TestReadControlPage_NegativeOffset(t *testing.T) {
	// The kernel stores offset as count minus the register value, which is
	// routinely negative.
	page := &ControlPage{Lock: 0, Index: 1, Offset: -0x1000, PmcWidth: 48}
	got, _ := readControlPage(page, func(uint32) uint64 { return 0x1500 })
	assert.Equal(t, uint64(0x500), got)
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		v     uint64
		width uint16
		want  uint64
	}{
		{0x1234, 48, 0x1234},
		{1 << 47, 48, 0xffff_8000_0000_0000},
		{0xffff_ffff_ffff, 48, ^uint64(0)},
		{1 << 47, 0, 1 << 47},
		{1 << 63, 64, 1 << 63},
		{0x80, 8, 0xffff_ffff_ffff_ff80},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, signExtend(tt.v, tt.width), "signExtend(%#x, %d)", tt.v, tt.width)
	}
}

func TestControlPage_Caps(t *testing.T) {
	p := &ControlPage{Capabilities: capabilityRDPMC | capabilityUserTime, Index: 2, PmcWidth: 48}
	assert.True(t, p.CanReadDirect())
	assert.Contains(t, p.Caps(), "R1 UT1 ZT0 index: 0x2")

	p.Capabilities = 0
	assert.False(t, p.CanReadDirect())
}
