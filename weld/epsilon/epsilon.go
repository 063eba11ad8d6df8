// Package epsilon implements the epsilon-search driver: given a target
// reduction rate, it treats the welder as a black-box oracle and searches
// for an epsilon that achieves it, first bracketing linearly then refining
// by bisection.
package epsilon

import (
	"fmt"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
	"github.com/nimaft97/parallel-vertex-clustering/weld/forward"
	"github.com/nimaft97/parallel-vertex-clustering/weld/kdindex"
)

// Config carries the finder's tunable constants, each defaulted exactly as
// the original describes; implementations that built these in as literals
// would lose the ability to adapt the search to datasets whose natural
// vertex spacing differs from the one the cap was tuned against.
type Config struct {
	// EpsilonStep is the linear bracket phase's step size. Default 0.01.
	EpsilonStep float64
	// EpsilonSearchCap is the hard upper bound on the linear bracket walk.
	// Default 10.0.
	EpsilonSearchCap float64
	// EpsilonMinRange is the binary refinement phase's stopping width on
	// the epsilon interval. Default 1e-7.
	EpsilonMinRange float64
	// ReductionRateMinError is the acceptable error on the reduction rate.
	// Default 1e-5.
	ReductionRateMinError float64
	// Variant selects which welder the finder probes with.
	Variant Variant
	// Workers is forwarded to each welder probe.
	Workers int
}

// Variant identifies which welding algorithm the finder probes reduction
// rates with; both must agree per spec.md's variant-equivalence law, so the
// choice only affects probe cost, not the result.
type Variant int

const (
	VariantForward Variant = iota
	VariantForwardAsync
)

// DefaultConfig returns a Config populated with the defaults.
func DefaultConfig() Config {
	return Config{
		EpsilonStep:           0.01,
		EpsilonSearchCap:      10.0,
		EpsilonMinRange:       1e-7,
		ReductionRateMinError: 1e-5,
		Variant:               VariantForward,
	}
}

// Sample is one (epsilon, reduction rate) probe recorded during a search,
// kept around for diagnostics and for PlotTrace.
type Sample struct {
	Epsilon       float64
	ReductionRate float64
}

// Finder runs the epsilon search over a fixed mesh.
type Finder struct {
	cfg   Config
	mesh  *weld.Mesh
	trace []Sample
}

// NewFinder returns a Finder that searches for epsilon values against mesh.
// mesh is never mutated; every probe runs against a clone.
func NewFinder(mesh *weld.Mesh, cfg Config) *Finder {
	return &Finder{cfg: cfg, mesh: mesh}
}

// Trace returns every (epsilon, reduction rate) sample probed during the
// most recent Find call, in probe order.
func (f *Finder) Trace() []Sample { return f.trace }

// reduction runs one welder probe at eps against a fresh clone of the
// finder's mesh and returns the resulting reduction rate.
func (f *Finder) reduction(eps float64) (float64, error) {
	probe := f.mesh.Clone()
	index, err := kdindex.Build(probe.Vertices)
	if err != nil {
		return 0, err
	}
	cfg := forward.Config{Workers: f.cfg.Workers}
	var welded *weld.Mesh
	switch f.cfg.Variant {
	case VariantForwardAsync:
		welded, err = forward.WeldAsync(probe, index, eps, cfg)
	default:
		welded, err = forward.Weld(probe, index, eps, cfg)
	}
	if err != nil {
		return 0, err
	}
	n := f.mesh.NumVertices()
	rate := 1 - float64(welded.NumVertices())/float64(n)
	f.trace = append(f.trace, Sample{Epsilon: eps, ReductionRate: rate})
	return rate, nil
}

// Find searches for an epsilon achieving target reduction rate, a value in
// (0, 1). It returns weld.ErrEpsilonOutOfRange if the linear bracket phase
// exhausts EpsilonSearchCap without bracketing target.
func (f *Finder) Find(target float64) (float64, error) {
	if f.mesh.NumVertices() == 0 {
		return 0, weld.ErrEmptyIndex
	}
	f.trace = nil

	epsLo, epsHi := 0.0, 0.0
	rateLo, rateHi := 0.0, 0.0
	found := false

	for eps := f.cfg.EpsilonStep; eps <= f.cfg.EpsilonSearchCap; eps += f.cfg.EpsilonStep {
		rate, err := f.reduction(eps)
		if err != nil {
			return 0, err
		}
		if rate >= target {
			epsHi, rateHi = eps, rate
			rateLo = rateLoAt(f, epsLo)
			found = true
			break
		}
		epsLo, rateLo = eps, rate
	}
	if !found {
		return 0, fmt.Errorf("epsilon: searched to cap %.6g: %w", f.cfg.EpsilonSearchCap, weld.ErrEpsilonOutOfRange)
	}

	return f.refine(epsLo, epsHi, rateLo, rateHi, target)
}

// rateLoAt re-derives the reduction rate at the lower bracket endpoint,
// which is either 0 (epsLo == 0, no probe was ever run there) or the rate
// of the immediately preceding linear-bracket probe already in the trace.
func rateLoAt(f *Finder, epsLo float64) float64 {
	if epsLo <= 0 {
		return 0
	}
	for i := len(f.trace) - 1; i >= 0; i-- {
		if f.trace[i].Epsilon == epsLo {
			return f.trace[i].ReductionRate
		}
	}
	return 0
}

// refine performs binary refinement over [epsLo, epsHi] per spec.md §4.5.
func (f *Finder) refine(epsLo, epsHi, rateLo, rateHi, target float64) (float64, error) {
	for {
		if epsHi-epsLo <= f.cfg.EpsilonMinRange || rateHi-rateLo < f.cfg.ReductionRateMinError {
			return (epsLo + epsHi) / 2, nil
		}
		mid := (epsLo + epsHi) / 2
		rateMid, err := f.reduction(mid)
		if err != nil {
			return 0, err
		}
		if rateMid <= target && target-rateMid < f.cfg.ReductionRateMinError {
			return mid, nil
		}
		if rateMid < target {
			epsLo, rateLo = mid, rateMid
		} else {
			epsHi, rateHi = mid, rateMid
		}
	}
}
