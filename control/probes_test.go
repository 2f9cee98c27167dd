// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/hioload-runtime/control"
)

func TestProbesRegisterDumpUnregister(t *testing.T) {
	p := control.NewProbes()
	p.Register("loop.pending", func() any { return 7 })

	state := p.DumpState()
	assert.Equal(t, 7, state["loop.pending"])

	p.Unregister("loop.pending")
	assert.Empty(t, p.DumpState())
}
