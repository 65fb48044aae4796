// Package chambolle implements Chambolle's dual projection for total
// variation image decomposition.
//
// A corrupted fringe image f is split into an oscillating fringe component
// x = mi·div(p) and a smooth residual f − x by iterating a projected dual
// ascent on the field p = (p_x, p_y). Every array operation runs on a
// tensor.Backend, so the same algorithm drives the CPU and WebGPU backends.
//
// Two stopping policies are provided:
//
//   - ReferencePolicy tracks the RMS error against a known fringe reference
//     and returns the best reconstruction seen.
//   - SelfPolicy watches the relative change between successive
//     reconstructions and returns the latest one.
//
// Every solve is bounded by Config.MaxIterations, checks its context once
// per step and fails with ErrNumericalDivergence when the iteration blows up.
package chambolle
