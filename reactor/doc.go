// Package reactor implements the single-threaded event loop owned by each
// runtime worker. One loop iteration first runs the owner's pump hook
// (message-hub drain), then services readiness on watched descriptors.
// Wake is the only operation safe to call from other threads.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package reactor
