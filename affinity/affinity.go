// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Best-effort CPU pinning for runtime worker threads. Platforms without an
// affinity facility skip the optimization instead of failing.

package affinity

// Pin binds the calling OS thread to the given CPU. The caller must already
// hold the thread via runtime.LockOSThread.
func Pin(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// Supported reports whether pinning has any effect on this platform.
func Supported() bool {
	return platformSupported
}
