//go:build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// No-op pinning for platforms without a usable affinity API.

package affinity

const platformSupported = false

func setAffinityPlatform(cpuID int) error { return nil }
