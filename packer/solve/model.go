/*
NAME
  model.go

DESCRIPTION
  model.go defines the small finite-domain constraint model used by the
  packer's two-stage solve: integer variables with bounded domains,
  boolean phase-selection variables, exactly-one constraints, and
  per-frame optional/mandatory intervals feeding a no-overlap check.

  The shape mirrors a CP-SAT model (NewIntVar, NewBoolVar, AddExactlyOne,
  NewOptionalIntervalVar, AddNoOverlap) directly. The model is solved by
  this package's own Solver rather than delegated to an external engine:
  the search is small and its domains are bounded by the frame capacity.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package solve implements a bounded finite-domain search tailored to the
// packer's constraint shape: integer start-position variables, boolean
// phase-selection variables constrained exactly-one, and per-frame
// no-overlap over mandatory and presence-gated intervals.
package solve

import "fmt"

// IntVar is an integer decision variable with domain [Lo, Hi].
type IntVar struct {
	Name     string
	Lo, Hi   int
	value    int
	assigned bool
}

// Value returns the variable's value after a successful Solve/Minimize
// call. Panics if called before the variable has been assigned.
func (v *IntVar) Value() int {
	if !v.assigned {
		panic(fmt.Sprintf("solve: IntVar %q read before being solved", v.Name))
	}
	return v.value
}

// BoolVar is a boolean decision variable, used here exclusively for
// phase selection (see AddExactlyOne) and interval presence literals.
type BoolVar struct {
	Name     string
	value    bool
	assigned bool
}

// Value returns the variable's value after a successful Solve/Minimize
// call.
func (b *BoolVar) Value() bool {
	if !b.assigned {
		panic(fmt.Sprintf("solve: BoolVar %q read before being solved", b.Name))
	}
	return b.value
}

// interval is one entry in a frame's occupancy set: a mandatory interval
// has Presence == nil; an optional interval is only occupied when
// Presence evaluates true.
type interval struct {
	owner    string // object name, for diagnostics.
	Frame    int
	Start    *IntVar
	Size     int
	Presence *BoolVar
}

// Model accumulates variables and constraints for one packing problem.
// It is built once by packer's model builder (C3) and handed to a
// Solver (C4); it is not safe for concurrent use.
type Model struct {
	ints  []*IntVar
	bools []*BoolVar

	exactlyOnes [][]*BoolVar
	frames      map[int][]*interval

	intHints  map[*IntVar]int
	boolHints map[*BoolVar]bool
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{
		frames:    make(map[int][]*interval),
		intHints:  make(map[*IntVar]int),
		boolHints: make(map[*BoolVar]bool),
	}
}

// NewIntVar creates an integer variable with domain [lo, hi] and adds it
// to the model.
func (m *Model) NewIntVar(lo, hi int, name string) *IntVar {
	v := &IntVar{Name: name, Lo: lo, Hi: hi}
	m.ints = append(m.ints, v)
	return v
}

// NewBoolVar creates a boolean variable and adds it to the model.
func (m *Model) NewBoolVar(name string) *BoolVar {
	b := &BoolVar{Name: name}
	m.bools = append(m.bools, b)
	return b
}

// Pin constrains v to the single value k, equivalent to
// model.Add(v == k) in a CP-SAT model.
func (m *Model) Pin(v *IntVar, k int) {
	v.Lo, v.Hi = k, k
}

// AddExactlyOne requires exactly one of bs to be true, equivalent to
// model.AddExactlyOne(bs).
func (m *Model) AddExactlyOne(bs []*BoolVar) {
	if len(bs) == 0 {
		return
	}
	m.exactlyOnes = append(m.exactlyOnes, bs)
}

// AddInterval registers an interval of width size starting at start in
// frame. If presence is nil the interval is mandatory (always occupies
// the frame); otherwise it only occupies the frame when presence
// evaluates true, equivalent to
// model.NewOptionalIntervalVar(start, size, start+size, presence).
// AddNoOverlap is implicit: every interval registered for a frame via
// this method participates in that frame's no-overlap check.
func (m *Model) AddInterval(frame int, owner string, start *IntVar, size int, presence *BoolVar) {
	m.frames[frame] = append(m.frames[frame], &interval{owner: owner, Frame: frame, Start: start, Size: size, Presence: presence})
}

// AddHint seeds the search with a preferred value for v, equivalent to
// model.AddHint(v, val). Used to carry stage 1's assignment into stage 2.
func (m *Model) AddHint(v *IntVar, val int) { m.intHints[v] = val }

// AddBoolHint seeds the search with a preferred value for b.
func (m *Model) AddBoolHint(b *BoolVar, val bool) { m.boolHints[b] = val }
