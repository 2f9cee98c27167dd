// File: concurrency/fault.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Terminal fault boundary around each worker's loop. The Go runtime cannot
// hand a SIGSEGV to user code on an alternate stack the way a C runtime can;
// memory faults in pure Go surface as runtime.Error panics, and genuine
// goroutine stack exhaustion aborts the process with its own diagnostic.
// The boundary therefore classifies terminal panics at the loop edge, logs
// a diagnostic and exits the process. Nothing is ever resumed.

package concurrency

import (
	"errors"
	"fmt"
	"os"
	goruntime "runtime"
	"runtime/debug"
	"strings"

	"github.com/momentics/hioload-runtime/logging"
)

const (
	faultMemory = "memory fault"
	faultStack  = "callstack overflow"
	faultOther  = "unrecoverable panic"
)

// guard runs fn and converts any panic escaping it into process termination
// with a classified diagnostic.
func guard(log logging.Logger, worker int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			crash(log, worker, r)
		}
	}()
	fn()
}

func crash(log logging.Logger, worker int, r any) {
	log.Error("worker crashed",
		"worker", worker,
		"kind", classifyFault(r),
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
	os.Exit(1)
}

// classifyFault distinguishes memory faults from other terminal panics to
// aid diagnosis. Best effort only.
func classifyFault(r any) string {
	err, ok := r.(error)
	if !ok {
		return faultOther
	}
	var re goruntime.Error
	if !errors.As(err, &re) {
		return faultOther
	}
	msg := re.Error()
	switch {
	case strings.Contains(msg, "invalid memory address"),
		strings.Contains(msg, "nil pointer dereference"),
		strings.Contains(msg, "segmentation"):
		return faultMemory
	case strings.Contains(msg, "stack exceeded"):
		return faultStack
	default:
		return faultOther
	}
}
