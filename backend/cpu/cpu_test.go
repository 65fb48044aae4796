// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu_test

import (
	"strings"
	"testing"

	"github.com/fringelab/chambolle/backend/cpu"
	"github.com/fringelab/chambolle/tensor"
)

func TestNew(t *testing.T) {
	seq := cpu.New()
	if !strings.HasPrefix(seq.Name(), "CPU (sequential") {
		t.Errorf("Name() = %q, want sequential CPU", seq.Name())
	}
	if seq.DType() != tensor.Float64 {
		t.Errorf("DType() = %v, want float64", seq.DType())
	}

	par := cpu.New(cpu.WithParallel(cpu.ParallelConfig{Enabled: true, NumWorkers: 4, MinChunkSize: 1}))
	if !strings.HasPrefix(par.Name(), "CPU (parallel x4") {
		t.Errorf("Name() = %q, want parallel x4", par.Name())
	}
}

func TestFeaturesAppearInName(t *testing.T) {
	name := cpu.New().Name()
	for _, f := range cpu.Features() {
		if !strings.Contains(name, f) {
			t.Errorf("Name() = %q does not mention feature %s", name, f)
		}
	}
}
