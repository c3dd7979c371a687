// Package stamp takes before/after snapshots of the clock and every
// programmed counter and turns pairs of them into attributable deltas.
//
// A [Config] collects the events to count, is prepared once, and then stamps:
//
//	cfg := stamp.NewConfig(stamp.ConfigOptions{Clock: clk})
//	cfg.AddEvent(pmu.NewEvent("instructions"))
//	if _, err := cfg.Prepare(); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	before := cfg.Stamp()
//	work()
//	d := cfg.Delta(before, cfg.Stamp())
//	n, err := d.Counter(pmu.NewEvent("instructions"))
//
// Prepare locks the calling goroutine to its OS thread, since counters are
// per thread. Stamp, Delta and Close must be called from that goroutine.
package stamp
