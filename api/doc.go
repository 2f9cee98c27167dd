// Package api defines the public contracts of the hioload runtime: the
// cross-thread message, the per-worker event loop, and the delivery surface
// handed to embedding layers such as a storage engine.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package api
