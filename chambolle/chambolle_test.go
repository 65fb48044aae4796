// Copyright 2025 Fringelab. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package chambolle_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/fringelab/chambolle/backend/cpu"
	"github.com/fringelab/chambolle/chambolle"
)

func fringes(rows, cols int) chambolle.Grid {
	g := chambolle.NewGrid(rows, cols)
	for i := range rows {
		for j := range cols {
			g.Set(i, j, 0.5+
				0.25*math.Cos(math.Pi*16*(float64(i)+0.5)/float64(rows))+
				0.25*math.Cos(math.Pi*16*(float64(j)+0.5)/float64(cols)))
		}
	}
	return g
}

func TestSolveReference(t *testing.T) {
	f := fringes(64, 64)

	res, err := chambolle.SolveReference(context.Background(), cpu.New(), f, f, chambolle.DefaultConfig())
	if err != nil {
		t.Fatalf("SolveReference failed: %v", err)
	}
	if res.Outcome != chambolle.Converged {
		t.Errorf("Outcome = %v, want converged", res.Outcome)
	}

	bg, err := chambolle.Background(f, res.Reconstruction)
	if err != nil {
		t.Fatalf("Background failed: %v", err)
	}
	if bg.Rows != 64 || bg.Cols != 64 {
		t.Errorf("Background shape = %dx%d, want 64x64", bg.Rows, bg.Cols)
	}
}

func TestSolveSelf_ShapeMismatch(t *testing.T) {
	_, err := chambolle.SolveSelf(context.Background(), cpu.New(), chambolle.NewGrid(0, 0), chambolle.DefaultConfig())
	if !errors.Is(err, chambolle.ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}
}
