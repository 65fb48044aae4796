// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package webgpu_test

import (
	"errors"
	"testing"

	"github.com/fringelab/chambolle/backend/webgpu"
)

func TestNewMatchesIsAvailable(t *testing.T) {
	gpu, err := webgpu.New()
	if !webgpu.IsAvailable() {
		if !errors.Is(err, webgpu.ErrUnavailable) {
			t.Fatalf("New() error = %v, want ErrUnavailable", err)
		}
		t.Skip("WebGPU not available on this system")
	}
	if err != nil {
		t.Fatalf("New() failed although IsAvailable is true: %v", err)
	}
	defer gpu.Release()

	if gpu.Name() == "" {
		t.Error("Name() is empty")
	}
}
