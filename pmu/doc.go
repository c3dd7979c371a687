// Package pmu resolves hardware event names and programs them as counters.
//
// An [EventManager] owns up to [MaxCounters] slots. Events are registered with
// AddEvent and programmed in one batch by Prepare. Each slot is opened through
// a fallback chain, first success wins:
//
//  1. a pinned, thread-scoped counter read in user space through its mapped
//     control page (rdpmc), used only when the kernel grants direct reads;
//  2. an unpinned, thread-scoped counter read with read(2);
//  3. a counter scoped to the whole CPU the caller runs on, for events such
//     as uncore traffic that cannot count per thread.
//
// Only the last attempt reports failure. A slot that cannot be resolved or
// opened is marked failed and the rest of the batch proceeds.
//
// Counters are tied to the OS thread that prepared them. Callers lock their
// goroutine to its thread (runtime.LockOSThread) before Prepare and read only
// from that goroutine.
//
// Setting PERFSTAMP_NO_RDPMC to anything but "0" disables the direct read
// path.
package pmu
