package chambolle

import (
	"fmt"
	"math"

	"github.com/fringelab/chambolle/internal/tensor"
)

// Outcome is the terminal state of a solve.
type Outcome int

// Outcomes.
const (
	// Unfinished marks a solve interrupted by its context or by divergence.
	Unfinished Outcome = iota
	// Converged means the policy's tolerance test passed.
	Converged
	// Stagnated means the stagnation window or MaxIterations ran out; the
	// best reconstruction found so far is returned.
	Stagnated
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Converged:
		return "converged"
	case Stagnated:
		return "stagnated"
	default:
		return "unfinished"
	}
}

// Verdict is a monitor's assessment of one step.
type Verdict struct {
	Error   float64 // Error metric of this step
	Best    float64 // Best error metric so far
	Done    bool
	Outcome Outcome // Meaningful when Done
}

// Policy decides when a solve stops. A Policy is a stateless description;
// each solve gets its own Monitor.
type Policy interface {
	// Name identifies the policy in logs.
	Name() string
	// NewMonitor prepares per-solve state for image f.
	NewMonitor(backend tensor.Backend, f *tensor.RawTensor, cfg Config) (Monitor, error)
}

// Monitor holds the convergence state of one solve.
type Monitor interface {
	// Observe inspects the reconstruction produced by step (1-based).
	Observe(step int, x *tensor.RawTensor) Verdict
	// Reconstruction returns the reconstruction to report, the step that
	// produced it and its error metric. Nil before the first Observe.
	Reconstruction() (x *tensor.RawTensor, step int, err float64)
}

// ReferencePolicy measures each reconstruction against a known fringe
// reference: rms = sqrt(popvar(x − reference)).
//
// The best RMS seen is tracked together with a window of its last 100
// values. A new best ends the solve as Converged when it improves by less
// than Tolerance and the best has moved by less than 10·Tolerance across
// the window. StagnationWindow steps without a new best end it as
// Stagnated. The best reconstruction is returned.
type ReferencePolicy struct {
	Reference Grid
}

// Name returns "reference".
func (ReferencePolicy) Name() string { return "reference" }

// NewMonitor uploads the reference and validates its shape against f.
func (p ReferencePolicy) NewMonitor(backend tensor.Backend, f *tensor.RawTensor, cfg Config) (Monitor, error) {
	if err := p.Reference.validate(); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if !p.Reference.Shape().Equal(f.Shape()) {
		return nil, fmt.Errorf("%w: reference %v, image %v", ErrShapeMismatch, p.Reference.Shape(), f.Shape())
	}
	reference, err := p.Reference.upload(backend)
	if err != nil {
		return nil, err
	}
	return &referenceMonitor{
		backend:   backend,
		reference: reference,
		tolerance: cfg.Tolerance,
		window:    cfg.StagnationWindow,
		history:   newHistory(historySize),
		rmsMin:    math.Inf(1),
	}, nil
}

type referenceMonitor struct {
	backend   tensor.Backend
	reference *tensor.RawTensor
	tolerance float64
	window    int
	history   *history

	rmsMin float64
	itMin  int
	best   *tensor.RawTensor
}

func (m *referenceMonitor) Observe(step int, x *tensor.RawTensor) Verdict {
	rms := math.Sqrt(m.backend.Variance(m.backend.Sub(x, m.reference)))

	m.history.Push(m.rmsMin)
	if rms < m.rmsMin {
		plateauGap := m.history.Oldest() - m.history.Newest()
		localGap := m.rmsMin - rms
		m.rmsMin, m.itMin, m.best = rms, step, x
		if plateauGap < 10*m.tolerance && localGap < m.tolerance {
			return Verdict{Error: rms, Best: rms, Done: true, Outcome: Converged}
		}
	}
	if step-m.itMin >= m.window {
		return Verdict{Error: rms, Best: m.rmsMin, Done: true, Outcome: Stagnated}
	}
	return Verdict{Error: rms, Best: m.rmsMin}
}

func (m *referenceMonitor) Reconstruction() (*tensor.RawTensor, int, float64) {
	return m.best, m.itMin, m.rmsMin
}

// SelfPolicy needs no reference. It measures the relative change between
// successive reconstructions, err_i = ‖x_i − x_{i−1}‖ / ‖f‖ with Frobenius
// norms, and stops as Converged once |err_{i−1} − err_i| / 2, normalized by
// err_0, drops below Tolerance. The reported error is the unnormalized half-difference and
// the latest reconstruction is returned.
type SelfPolicy struct{}

// Name returns "self".
func (SelfPolicy) Name() string { return "self" }

// NewMonitor prepares the change tracker for f.
func (SelfPolicy) NewMonitor(backend tensor.Backend, f *tensor.RawTensor, cfg Config) (Monitor, error) {
	fNorm := backend.Norm(f)
	if fNorm == 0 {
		fNorm = 1
	}
	return &selfMonitor{
		backend:   backend,
		fNorm:     fNorm,
		tolerance: cfg.Tolerance,
		previous:  backend.Zeros(f.Shape()),
	}, nil
}

type selfMonitor struct {
	backend   tensor.Backend
	fNorm     float64
	tolerance float64

	previous *tensor.RawTensor
	prevErr  float64
	err0     float64
	step     int
	change   float64
}

func (m *selfMonitor) Observe(step int, x *tensor.RawTensor) Verdict {
	e := m.backend.Norm(m.backend.Sub(x, m.previous)) / m.fNorm
	m.change = math.Abs(m.prevErr-e) / 2
	m.prevErr, m.previous, m.step = e, x, step

	if step == 1 {
		m.err0 = e
		if e == 0 {
			// f is a fixed point.
			m.change = 0
			return Verdict{Error: 0, Best: 0, Done: true, Outcome: Converged}
		}
	}
	if m.change/m.err0 < m.tolerance {
		return Verdict{Error: m.change, Best: m.change, Done: true, Outcome: Converged}
	}
	return Verdict{Error: m.change, Best: m.change}
}

func (m *selfMonitor) Reconstruction() (*tensor.RawTensor, int, float64) {
	if m.step == 0 {
		return nil, 0, 0
	}
	return m.previous, m.step, m.change
}
