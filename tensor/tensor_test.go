// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/fringelab/chambolle/internal/backend/cpu"
	"github.com/fringelab/chambolle/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.FromFloat64([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("FromFloat64 failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Float64 {
		t.Errorf("DType() = %v, want float64", raw.DType())
	}
	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 48 {
		t.Errorf("ByteSize() = %d, want 48", raw.ByteSize())
	}

	clone := raw.Clone()
	clone.AsFloat64()[0] = 100
	if raw.AsFloat64()[0] != 1 {
		t.Error("Clone shares storage with the original")
	}
}

func TestFullAndNewRaw(t *testing.T) {
	full, err := tensor.Full(tensor.Shape{2, 2}, 0.5, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("Full failed: %v", err)
	}
	for i, v := range full.Float64s() {
		if v != 0.5 {
			t.Errorf("Full[%d] = %v, want 0.5", i, v)
		}
	}

	zero, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	for i, v := range zero.Float64s() {
		if v != 0 {
			t.Errorf("NewRaw[%d] = %v, want 0", i, v)
		}
	}

	if _, err := tensor.NewRaw(tensor.Shape{0, 2}, tensor.Float64, tensor.CPU); err == nil {
		t.Error("NewRaw accepted a zero dimension")
	}
}

func TestDeviceAndDataTypeConstants(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{tensor.CPU.String(), "CPU"},
		{tensor.WebGPU.String(), "WebGPU"},
		{tensor.Float32.String(), "float32"},
		{tensor.Float64.String(), "float64"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
	if tensor.Float32.Size() != 4 || tensor.Float64.Size() != 8 {
		t.Error("unexpected DataType sizes")
	}
}
