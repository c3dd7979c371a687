// Package clock provides the timestamp sources used to bracket measured code.
//
// Two interchangeable backends implement [Clock]:
//
//   - [Portable] wraps the runtime's monotonic clock; instants are already
//     nanoseconds, so conversion is exact.
//   - [TSC] reads the processor's cycle counter directly, fenced on both
//     sides to bound out-of-order skew. Converting ticks to nanoseconds needs
//     the counter frequency, which is taken from the hardware when it reports
//     one and otherwise measured with a busy-wait calibration loop.
//
// # Quick Start
//
//	clk, err := clock.New(clock.Default(), clock.CalibrationOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t0 := clk.Now()
//	work()
//	fmt.Println(clk.ToNanos(clk.Now() - t0), "ns")
//
// Both backends are allocation-free on Now and ToNanos. The only shared state
// is the calibration cache, written once per process.
package clock
