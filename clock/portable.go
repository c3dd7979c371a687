package clock

import "time"

// Portable is a Clock backed by the runtime monotonic clock. Instants are
// nanoseconds since the Portable was created.
type Portable struct {
	epoch time.Time
}

// NewPortable creates a Portable clock.
func NewPortable() *Portable {
	return &Portable{epoch: time.Now()}
}

// Name implements Clock.
func (p *Portable) Name() string { return string(KindPortable) }

// Now implements Clock.
func (p *Portable) Now() uint64 {
	return uint64(time.Since(p.epoch))
}

// ToNanos implements Clock. Portable instants are already nanoseconds.
func (p *Portable) ToNanos(delta uint64) uint64 {
	return delta
}
