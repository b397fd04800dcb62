/*
NAME
  model.go

DESCRIPTION
  model.go builds a solve.Model from a normalized point/group table:
  decision variables, pinning, phase-selection booleans, per-frame
  interval sets, and the objective auxiliaries (total_util, max_end).

  Group contiguity is expressed by fusing every group's
  members into one combined interval -- sized as the sum of member
  sizes, anchored at the first member's start_unit -- rather than by
  adding a generic equality/precedence constraint type to solve.Model.
  Each member's own start_unit is then start(anchor) + a fixed
  cumulative offset, reconstructed once the anchor is solved (see
  result.go). This keeps solve.Model's constraint vocabulary small
  (IntVar, BoolVar, exactly-one, optional interval) while still
  producing byte-for-byte the same placements an explicit per-pair
  start-equality constraint would.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/joeyjohn/formatpacker/packer/solve"
)

// placement records how to recover one point's start_unit from its
// anchor variable once the anchor is solved: start_unit(p) =
// anchor.Value() + unitOffset.
type placement struct {
	point      *PointObject
	anchor     *solve.IntVar
	unitOffset int
	phaseVars  []*solve.BoolVar // nil when deterministic (pinned start_frame, or period == 1).
}

// builtModel is everything the two-stage driver (pack.go) needs after
// the model is built: the solve.Model itself, per-point placement
// bookkeeping, and the objective auxiliaries.
type builtModel struct {
	model      *solve.Model
	norm       *normalized
	placements []*placement
	byPoint    map[*PointObject]*placement
	totalUtil  int
	ends       []solve.EndSpec
}

// buildModel emits decision variables, group fusion, per-frame
// no-overlap, and objective auxiliaries for norm.
func buildModel(norm *normalized) (*builtModel, error) {
	m := solve.NewModel()
	bm := &builtModel{model: m, norm: norm, byPoint: make(map[*PointObject]*placement)}

	grouped := make([]bool, len(norm.points))
	for _, g := range norm.groups {
		for i := g.firstIndex; i < g.firstIndex+g.length; i++ {
			grouped[i] = true
		}
	}

	// Anchors: one per group (fused) plus one per ungrouped point.
	type anchor struct {
		owner      string
		sizeUnits  int
		startVar   *solve.IntVar
		phaseVars  []*solve.BoolVar
		period     int
		startFrame *int
	}
	var anchors []anchor

	for _, g := range norm.groups {
		members := norm.points[g.firstIndex : g.firstIndex+g.length]
		sumBits := 0
		for _, p := range members {
			sumBits += p.SizeBits
		}
		if sumBits%norm.unit != 0 {
			return nil, errors.Errorf("packer: group %q combined size not a multiple of UNIT", g.name)
		}
		sumUnits := sumBits / norm.unit
		first := members[0]
		startVar := m.NewIntVar(0, norm.cap-sumUnits, "group_"+g.name+"_start")
		if first.OffsetBits != nil {
			if *first.OffsetBits%norm.unit != 0 {
				return nil, errors.Errorf("packer: object %q offset_bits not a multiple of UNIT", first.Name)
			}
			m.Pin(startVar, *first.OffsetBits/norm.unit)
		}
		var phaseVars []*solve.BoolVar
		if first.StartFrame == nil && first.Period > 1 {
			phaseVars = make([]*solve.BoolVar, first.Period)
			for s := range phaseVars {
				phaseVars[s] = m.NewBoolVar("phase_group_" + g.name + "_" + strconv.Itoa(s))
			}
			m.AddExactlyOne(phaseVars)
		}

		offset := 0
		for _, p := range members {
			bm.placements = append(bm.placements, &placement{point: p, anchor: startVar, unitOffset: offset, phaseVars: phaseVars})
			offset += p.SizeBits / norm.unit
		}
		anchors = append(anchors, anchor{
			owner:      g.name,
			sizeUnits:  sumUnits,
			startVar:   startVar,
			phaseVars:  phaseVars,
			period:     first.Period,
			startFrame: first.StartFrame,
		})
	}

	for i, p := range norm.points {
		if grouped[i] {
			continue
		}
		sizeUnits := p.SizeBits / norm.unit
		startVar := m.NewIntVar(0, norm.cap-sizeUnits, "point_"+p.Name+"_start")
		if p.OffsetBits != nil {
			if *p.OffsetBits%norm.unit != 0 {
				return nil, errors.Errorf("packer: object %q offset_bits not a multiple of UNIT", p.Name)
			}
			m.Pin(startVar, *p.OffsetBits/norm.unit)
		}
		var phaseVars []*solve.BoolVar
		if p.StartFrame == nil && p.Period > 1 {
			phaseVars = make([]*solve.BoolVar, p.Period)
			for s := range phaseVars {
				phaseVars[s] = m.NewBoolVar("phase_" + p.Name + "_" + strconv.Itoa(s))
			}
			m.AddExactlyOne(phaseVars)
		}
		bm.placements = append(bm.placements, &placement{point: p, anchor: startVar, unitOffset: 0, phaseVars: phaseVars})
		anchors = append(anchors, anchor{
			owner:      p.Name,
			sizeUnits:  sizeUnits,
			startVar:   startVar,
			phaseVars:  phaseVars,
			period:     p.Period,
			startFrame: p.StartFrame,
		})
	}

	for _, pl := range bm.placements {
		bm.byPoint[pl.point] = pl
	}

	for f := 0; f < norm.numFrames; f++ {
		for _, a := range anchors {
			if a.startFrame != nil || a.period == 1 {
				eff := 0
				if a.startFrame != nil {
					eff = *a.startFrame
				}
				if f >= eff && (f-eff)%a.period == 0 {
					m.AddInterval(f, a.owner, a.startVar, a.sizeUnits, nil)
				}
				continue
			}
			s := f % a.period
			m.AddInterval(f, a.owner, a.startVar, a.sizeUnits, a.phaseVars[s])
		}
	}

	bm.totalUtil = 0
	for _, p := range norm.points {
		bm.totalUtil += p.SizeBits * (norm.numFrames / p.Period)
	}

	for _, pl := range bm.placements {
		bm.ends = append(bm.ends, solve.EndSpec{Var: pl.anchor, Size: pl.unitOffset + pl.point.SizeBits/norm.unit})
	}

	return bm, nil
}
