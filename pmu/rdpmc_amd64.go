package pmu

const fastPathSupported = true

// readHardwareCounter executes RDPMC for counter idx.
//
//go:noescape
func readHardwareCounter(idx uint32) uint64

// serializingFence executes LFENCE.
//
//go:noescape
func serializingFence()
