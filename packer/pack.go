/*
NAME
  pack.go

DESCRIPTION
  pack.go is the packer's public entry point: it normalizes the input,
  builds the constraint model, and runs the two-stage lexicographic
  solve (maximize utilization, freeze it, minimize peak end).

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import (
	"github.com/pkg/errors"

	"github.com/joeyjohn/formatpacker/packer/config"
	"github.com/joeyjohn/formatpacker/packer/solve"
)

// Packer owns one packing run: an input item list plus the
// configuration to normalize, model, and solve it. Not safe for
// concurrent method calls; independent Packers are fully independent.
type Packer struct {
	cfg   config.Config
	items []Item
}

// New returns a Packer for items under cfg. cfg.Logger must be set.
func New(cfg config.Config, items []Item) *Packer {
	return &Packer{cfg: cfg, items: items}
}

// Pack runs normalization, model construction, and the two-stage
// solve, returning the five result tables. All packing errors are
// returned synchronously; no partial Result is returned on error.
func (pk *Packer) Pack() (*Result, error) {
	log := pk.cfg.Logger

	if a := pk.cfg.Alignment; a < 0 || a&(a-1) != 0 {
		return nil, &ValidationError{Object: "config", Rule: "Alignment must be 0 or a power of two"}
	}

	norm, err := Normalize(pk.items, pk.cfg.FrameSizeBytes, pk.cfg.NumFrames)
	if err != nil {
		return nil, err
	}

	bm, err := buildModel(norm)
	if err != nil {
		return nil, errors.Wrap(err, "packer: building model")
	}

	solver := solve.NewSolver(pk.cfg.Seed, pk.cfg.Workers, pk.cfg.SolveTimeLimit, log)

	status1 := solver.Solve(bm.model)
	switch status1 {
	case solve.StatusOptimal:
		// continue
	case solve.StatusFeasible:
		log.Warning("packer: stage 1 feasible but not proven optimal within time limit")
	default:
		return nil, &PackingError{Stage: 1, Reason: "no feasible packing at maximum utilization", Err: ErrStage1Infeasible}
	}

	// Freeze stage 1's assignment as hints for stage 2: every start_unit
	// and phase boolean. Total utilization is a constant given the input
	// (see model.go), so there is no separate equality constraint to add;
	// the hints alone carry stage 1's placement choice forward.
	for _, pl := range bm.placements {
		bm.model.AddHint(pl.anchor, pl.anchor.Value())
		for _, b := range pl.phaseVars {
			bm.model.AddBoolHint(b, b.Value())
		}
	}

	status2, maxEnd := solver.Minimize(bm.model, bm.ends)
	switch status2 {
	case solve.StatusOptimal:
		// continue
	case solve.StatusFeasible:
		log.Warning("packer: stage 2 feasible but not proven optimal within time limit")
	default:
		return nil, &PackingError{Stage: 2, Reason: "no feasible packing after freezing utilization", Err: ErrStage2Infeasible}
	}

	return buildResult(bm, maxEnd), nil
}
