//go:build !amd64

package pmu

const fastPathSupported = false

func readHardwareCounter(uint32) uint64 { return 0 }

func serializingFence() {}
