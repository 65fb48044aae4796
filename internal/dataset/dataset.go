// Package dataset runs the decomposition over a numbered training set and
// records iteration counts as labels.
//
// A training set lives under a root directory:
//
//	<root>/Training/Interferogram/<N>.bmp   corrupted fringe images
//	<root>/Training/Fringes/<N>.bmp         background-free references
//
// Each processed image appends one `filename,iterations,error` row to a CSV
// log, in image order whatever the number of workers.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fringelab/chambolle/internal/chambolle"
	"github.com/fringelab/chambolle/internal/fringe"
	"github.com/fringelab/chambolle/internal/imageio"
	"github.com/fringelab/chambolle/internal/tensor"
	"golang.org/x/sync/errgroup"
)

// Directory layout relative to the dataset root.
var (
	InterferogramDir = filepath.Join("Training", "Interferogram")
	FringesDir       = filepath.Join("Training", "Fringes")
)

// Stopping criteria selectable per run.
const (
	VersionSelf      = 0 // self-convergence, no reference needed
	VersionReference = 1 // RMS against the fringe reference
)

// Header is the first row of a new label log.
var Header = []string{"filename", "iterations", "error"}

// Options configures a labelling run.
type Options struct {
	Root    string
	Version int
	Start   int // First image number
	Count   int // Number of consecutive images
	Workers int // Images solved concurrently
	Solver  chambolle.Config

	// OnStep, if set, receives every solver step of every image. It is
	// called from worker goroutines, concurrently when Workers > 1, and
	// takes precedence over Solver.OnStep.
	OnStep func(filename string, s chambolle.StepInfo)
}

// Label is the outcome for one image. Err is set when the image could not
// be labelled; such images are skipped in the log.
type Label struct {
	Filename   string
	Iterations int
	Steps      int
	Error      float64
	Outcome    chambolle.Outcome
	Elapsed    time.Duration
	Err        error
}

// Summary counts the images of a run.
type Summary struct {
	Labelled int
	Failed   int
}

// Filename returns the file name of image n.
func Filename(n int) string {
	return strconv.Itoa(n) + ".bmp"
}

// Labeler solves every image of a run on one backend.
type Labeler struct {
	backend tensor.Backend
	opts    Options
}

// NewLabeler validates opts and creates a labeler.
func NewLabeler(backend tensor.Backend, opts Options) (*Labeler, error) {
	if opts.Version != VersionSelf && opts.Version != VersionReference {
		return nil, fmt.Errorf("dataset: unknown version %d", opts.Version)
	}
	if opts.Count < 0 || opts.Start < 0 {
		return nil, fmt.Errorf("dataset: negative range start=%d count=%d", opts.Start, opts.Count)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if err := opts.Solver.Validate(); err != nil {
		return nil, err
	}
	return &Labeler{backend: backend, opts: opts}, nil
}

// Run labels images Start..Start+Count−1, appending a row to log for each
// success. onLabel, if set, receives every Label, failed ones included; it
// is called from worker goroutines but never concurrently.
//
// Labels are released in image order: a worker that finishes ahead of a
// lower-numbered image parks its label until the gap is filled. When ctx is
// cancelled, labels parked behind an unfinished image are discarded, so the
// log always ends at a contiguous prefix of the range.
//
// A failing image does not stop the run. Run returns early only when ctx
// is cancelled or the log cannot be written.
func (l *Labeler) Run(ctx context.Context, log io.Writer, onLabel func(Label)) (Summary, error) {
	var (
		mu      sync.Mutex
		summary Summary
		w       = csv.NewWriter(log)
		pending = make(map[int]Label)
		next    = l.opts.Start
	)

	// release emits the labels that are ready, in order. Callers hold mu.
	release := func() error {
		for {
			label, ok := pending[next]
			if !ok {
				return nil
			}
			delete(pending, next)
			next++

			if onLabel != nil {
				onLabel(label)
			}
			if label.Err != nil {
				summary.Failed++
				continue
			}
			summary.Labelled++
			if err := w.Write(label.record()); err != nil {
				return fmt.Errorf("dataset: write log: %w", err)
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return fmt.Errorf("dataset: write log: %w", err)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)

	for n := l.opts.Start; n < l.opts.Start+l.opts.Count; n++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			label := l.labelOne(gctx, n)
			if errors.Is(label.Err, context.Canceled) || errors.Is(label.Err, context.DeadlineExceeded) {
				return label.Err
			}

			mu.Lock()
			defer mu.Unlock()
			pending[n] = label
			return release()
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// labelOne loads, normalises and solves image n.
func (l *Labeler) labelOne(ctx context.Context, n int) Label {
	label := Label{Filename: Filename(n)}

	f, err := imageio.ReadGray(filepath.Join(l.opts.Root, InterferogramDir, label.Filename))
	if err != nil {
		label.Err = err
		return label
	}
	f = imageio.Normalize(f)

	cfg := l.opts.Solver
	if l.opts.OnStep != nil {
		cfg.OnStep = func(s chambolle.StepInfo) { l.opts.OnStep(label.Filename, s) }
	}

	var result chambolle.Result
	if l.opts.Version == VersionReference {
		ref, err := imageio.ReadGray(filepath.Join(l.opts.Root, FringesDir, label.Filename))
		if err != nil {
			label.Err = err
			return label
		}
		result, err = chambolle.SolveReference(ctx, l.backend, f, imageio.Normalize(ref), cfg)
		label.Err = err
	} else {
		result, err = chambolle.SolveSelf(ctx, l.backend, f, cfg)
		label.Err = err
	}

	label.Iterations = result.Iterations
	label.Steps = result.Steps
	label.Error = result.Error
	label.Outcome = result.Outcome
	label.Elapsed = result.Elapsed
	return label
}

func (lb Label) record() []string {
	return []string{
		lb.Filename,
		strconv.Itoa(lb.Iterations),
		strconv.FormatFloat(lb.Error, 'g', -1, 64),
	}
}

// OpenLog opens path for appending, creating it with a header row when it
// does not exist or is empty.
func OpenLog(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		w := csv.NewWriter(f)
		w.Write(Header) //nolint:errcheck // reported by Flush/Error
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteSample stores s as image n of the training set under root.
func WriteSample(root string, n int, s fringe.Sample) error {
	for _, out := range []struct {
		dir  string
		grid chambolle.Grid
	}{
		{InterferogramDir, s.Interferogram},
		{FringesDir, s.Fringes},
	} {
		dir := filepath.Join(root, out.dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := imageio.WriteSymmetricBMP(filepath.Join(dir, Filename(n)), out.grid); err != nil {
			return err
		}
	}
	return nil
}

// Generate writes count samples from gen as images start..start+count−1.
func Generate(ctx context.Context, root string, gen *fringe.Generator, start, count int, onSample func(n int, s fringe.Sample)) error {
	for n := start; n < start+count; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := gen.Next()
		if err := WriteSample(root, n, s); err != nil {
			return fmt.Errorf("dataset: sample %d: %w", n, err)
		}
		if onSample != nil {
			onSample(n, s)
		}
	}
	return nil
}
