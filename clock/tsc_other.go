//go:build !amd64 && !arm64

package clock

const tscSupported = false

func readCounterFenced() uint64 { return 0 }

func hardwareFrequency() (uint64, string, bool) { return 0, "", false }
