/*
NAME
  solver.go

DESCRIPTION
  solver.go implements the two-stage lexicographic search: Solve finds
  any feasible assignment (total utilization is fully determined by the
  input, so maximizing it reduces to a feasibility check); Minimize
  performs a branch-and-bound search for the assignment with the
  smallest peak end address among feasible assignments.

  Determinism comes from always iterating variables in a fixed order
  derived from Seed and domain values in a fixed order (hinted value
  first, then ascending), never from map iteration.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package solve

import (
	"math/rand"
	"sort"
	"time"

	"github.com/ausocean/utils/logging"
)

// Status classifies the outcome of a Solve/Minimize call.
type Status int

const (
	StatusInfeasible Status = iota
	StatusUnknown
	StatusFeasible // A solution was found but the search was not exhausted.
	StatusOptimal  // A solution was found and proven optimal (or feasibility-only, for Solve).
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Solver runs a bounded search over a Model. A Solver keeps no state
// between calls: Solve and Minimize may each be called against the same
// Model, e.g. once to freeze utilization and again to minimize peak end,
// as the two-stage driver in packer/pack.go does.
type Solver struct {
	Seed      int64
	Workers   int
	TimeLimit time.Duration
	Logger    logging.Logger
}

// NewSolver returns a Solver with a fixed search seed and a bounded
// wall-clock budget per call.
func NewSolver(seed int64, workers int, timeLimit time.Duration, log logging.Logger) *Solver {
	if workers != 1 {
		// This search has no internal thread-safe parallel decomposition;
		// keeping runs reproducible means refusing to fan out rather than
		// risk a seed-dependent race.
		workers = 1
	}
	return &Solver{Seed: seed, Workers: workers, TimeLimit: timeLimit, Logger: log}
}

// logTimeout warns, if a Logger is set, that call hit the time limit
// without reaching a conclusive feasible-or-infeasible answer.
func (s *Solver) logTimeout(call string) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warning("solve: time limit reached with no conclusive result", "call", call, "timeLimit", s.TimeLimit)
}

// decision is one point in the search tree: either choosing which of a
// group of mutually-exclusive bools is true, or assigning a free
// IntVar's value.
type decision struct {
	group []*BoolVar // non-nil for an exactly-one choice.
	iv    *IntVar    // non-nil for an IntVar assignment.
}

// EndSpec names a variable whose solved value plus Size is one candidate
// for the objective Minimize minimizes the max of.
type EndSpec struct {
	Var  *IntVar
	Size int
}

// search holds the mutable state threaded through one Solve/Minimize
// call: which intervals are currently active per frame, and reverse
// lookups from variable to the intervals it gates.
type search struct {
	m          *Model
	deadline   time.Time
	rng        *rand.Rand
	active     []*interval // currently activated intervals, in activation order (for undo).
	perFrame   map[int][]resolved
	byIntVar   map[*IntVar][]*interval
	byBoolVar  map[*BoolVar][]*interval
	resolvedOf map[*interval]resolved
}

func newSearch(m *Model, seed int64, timeLimit time.Duration) *search {
	s := &search{
		m:          m,
		deadline:   time.Now().Add(timeLimit),
		rng:        rand.New(rand.NewSource(seed)),
		perFrame:   make(map[int][]resolved),
		byIntVar:   make(map[*IntVar][]*interval),
		byBoolVar:  make(map[*BoolVar][]*interval),
		resolvedOf: make(map[*interval]resolved),
	}
	// Start every call from an unassigned state: values left over from an
	// earlier call on the same Model (e.g. stage 1 before stage 2) must not
	// activate intervals at stale start positions.
	for _, v := range m.ints {
		v.assigned = false
	}
	for _, b := range m.bools {
		b.assigned = false
	}
	// Deterministic iteration over frames: sorted keys.
	frames := make([]int, 0, len(m.frames))
	for f := range m.frames {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	for _, f := range frames {
		for _, iv := range m.frames[f] {
			s.byIntVar[iv.Start] = append(s.byIntVar[iv.Start], iv)
			if iv.Presence != nil {
				s.byBoolVar[iv.Presence] = append(s.byBoolVar[iv.Presence], iv)
			}
		}
	}
	return s
}

func (s *search) expired() bool { return time.Now().After(s.deadline) }

// tryActivate checks whether iv is now fully resolved (Start assigned,
// and Presence nil or assigned true) and, if so, whether it conflicts
// with the frame's already-active intervals. Returns false on conflict.
func (s *search) tryActivate(iv *interval) bool {
	if _, already := s.resolvedOf[iv]; already {
		return true
	}
	if !iv.Start.assigned {
		return true // not yet resolvable.
	}
	if iv.Presence != nil {
		if !iv.Presence.assigned {
			return true // not yet resolvable.
		}
		if !iv.Presence.value {
			return true // resolved inactive; never occupies the frame.
		}
	}
	r := resolved{owner: iv.owner, start: iv.Start.value, end: iv.Start.value + iv.Size}
	if conflictsWith(s.perFrame[iv.Frame], r) {
		return false
	}
	s.perFrame[iv.Frame] = append(s.perFrame[iv.Frame], r)
	s.resolvedOf[iv] = r
	s.active = append(s.active, iv)
	return true
}

// undoTo rolls back every activation made after mark (the length of
// s.active when the enclosing decision began).
func (s *search) undoTo(mark int) {
	for i := len(s.active) - 1; i >= mark; i-- {
		iv := s.active[i]
		frame := s.perFrame[iv.Frame]
		s.perFrame[iv.Frame] = frame[:len(frame)-1]
		delete(s.resolvedOf, iv)
	}
	s.active = s.active[:mark]
}

// assignInt sets v's value and propagates activation checks, reporting
// whether the assignment is consistent.
func (s *search) assignInt(v *IntVar, val int) bool {
	v.value, v.assigned = val, true
	for _, iv := range s.byIntVar[v] {
		if !s.tryActivate(iv) {
			return false
		}
	}
	return true
}

func (s *search) unassignInt(v *IntVar) { v.assigned = false }

func (s *search) assignBool(b *BoolVar, val bool) bool {
	b.value, b.assigned = val, true
	for _, iv := range s.byBoolVar[b] {
		if !s.tryActivate(iv) {
			return false
		}
	}
	return true
}

func (s *search) unassignBool(b *BoolVar) { b.assigned = false }

// buildDecisions orders the search: pinned variables first (no real
// branching), exactly-one groups next (smallest group first -- a
// most-constrained-variable heuristic), then free IntVars by ascending
// domain width.
func buildDecisions(m *Model, rng *rand.Rand) []decision {
	var pinned, free []decision
	seen := make(map[*IntVar]bool)
	for _, v := range m.ints {
		if seen[v] {
			continue
		}
		seen[v] = true
		d := decision{iv: v}
		if v.Lo == v.Hi {
			pinned = append(pinned, d)
		} else {
			free = append(free, d)
		}
	}
	// Deterministic tie-break: objects with equal domain width are shuffled
	// by the solver's seed before the width sort, so Seed has an observable
	// effect on search order (still reproducible for a fixed seed) without
	// disturbing the most-constrained-variable heuristic's ordering across
	// distinct widths.
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	sort.SliceStable(free, func(i, j int) bool {
		return free[i].iv.Hi-free[i].iv.Lo < free[j].iv.Hi-free[j].iv.Lo
	})

	groups := make([]decision, len(m.exactlyOnes))
	for i, g := range m.exactlyOnes {
		groups[i] = decision{group: g}
	}
	rng.Shuffle(len(groups), func(i, j int) { groups[i], groups[j] = groups[j], groups[i] })
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].group) < len(groups[j].group)
	})

	out := make([]decision, 0, len(pinned)+len(groups)+len(free))
	out = append(out, pinned...)
	out = append(out, groups...)
	out = append(out, free...)
	return out
}

// domainOrder returns the values of [lo, hi] to try, preferring a hinted
// value first when present, otherwise ascending (ascending favours low
// bit addresses, which helps stage 2's minimize-max-end objective find a
// good incumbent early).
func domainOrder(lo, hi int, hint *int) []int {
	n := hi - lo + 1
	out := make([]int, 0, n)
	if hint != nil && *hint >= lo && *hint <= hi {
		out = append(out, *hint)
	}
	for v := lo; v <= hi; v++ {
		if hint != nil && v == *hint {
			continue
		}
		out = append(out, v)
	}
	return out
}

// groupOrder returns the indices of a mutually-exclusive bool group to
// try, preferring a hinted index first.
func groupOrder(g []*BoolVar, hints map[*BoolVar]bool) []int {
	hinted := -1
	for i, b := range g {
		if v, ok := hints[b]; ok && v {
			hinted = i
			break
		}
	}
	out := make([]int, 0, len(g))
	if hinted >= 0 {
		out = append(out, hinted)
	}
	for i := range g {
		if i != hinted {
			out = append(out, i)
		}
	}
	return out
}

// Solve finds any assignment satisfying the model's constraints. It
// corresponds to stage 1: since total utilization is constant over the
// decision variables, maximizing it reduces to this feasibility search.
func (s *Solver) Solve(m *Model) Status {
	se := newSearch(m, s.Seed, s.TimeLimit)
	decisions := buildDecisions(m, se.rng)

	found := false
	var dfs func(i int) bool
	dfs = func(i int) bool {
		if se.expired() {
			return false
		}
		if i == len(decisions) {
			found = true
			return true
		}
		d := decisions[i]
		mark := len(se.active)
		defer se.undoTo(mark)

		if d.iv != nil {
			for _, val := range domainOrder(d.iv.Lo, d.iv.Hi, nil) {
				if se.assignInt(d.iv, val) {
					if dfs(i + 1) {
						return true
					}
				}
				se.unassignInt(d.iv)
				se.undoTo(mark)
			}
			return false
		}

		for _, idx := range groupOrder(d.group, nil) {
			ok := true
			for j, b := range d.group {
				if !se.assignBool(b, j == idx) {
					ok = false
					break
				}
			}
			if ok && dfs(i+1) {
				return true
			}
			for _, b := range d.group {
				se.unassignBool(b)
			}
			se.undoTo(mark)
		}
		return false
	}

	dfs(0)
	if found {
		return StatusOptimal
	}
	if se.expired() {
		s.logTimeout("Solve")
		return StatusUnknown
	}
	return StatusInfeasible
}

// Minimize searches for the assignment minimizing max(ends[i].Var.Value()
// + ends[i].Size), subject to the model's constraints, within the
// solver's time limit. It corresponds to stage 2. Hints recorded on the
// model (via AddHint/AddBoolHint) are tried first at each decision point,
// exactly as CP-SAT's AddHint seeds its search.
func (s *Solver) Minimize(m *Model, ends []EndSpec) (Status, int) {
	se := newSearch(m, s.Seed, s.TimeLimit)
	decisions := buildDecisions(m, se.rng)

	best := -1
	bestFound := false
	type snapshot struct {
		ints  map[*IntVar]int
		bools map[*BoolVar]bool
	}
	var bestSnap snapshot

	currentMaxEnd := func() int {
		max := 0
		for _, e := range ends {
			if !e.Var.assigned {
				continue
			}
			if v := e.Var.value + e.Size; v > max {
				max = v
			}
		}
		return max
	}

	snapshotCurrent := func() snapshot {
		sn := snapshot{ints: make(map[*IntVar]int), bools: make(map[*BoolVar]bool)}
		for _, v := range m.ints {
			if v.assigned {
				sn.ints[v] = v.value
			}
		}
		for _, b := range m.bools {
			if b.assigned {
				sn.bools[b] = b.value
			}
		}
		return sn
	}

	var dfs func(i int) bool
	dfs = func(i int) bool {
		if se.expired() {
			return false
		}
		// Bound: if everything assigned so far already meets or exceeds
		// the best known max end, this branch cannot improve on it.
		if bestFound {
			if cur := currentMaxEnd(); cur >= best {
				return false
			}
		}
		if i == len(decisions) {
			cur := currentMaxEnd()
			if !bestFound || cur < best {
				best = cur
				bestFound = true
				bestSnap = snapshotCurrent()
			}
			return false // keep searching for a better incumbent until time runs out.
		}
		d := decisions[i]
		mark := len(se.active)
		defer se.undoTo(mark)

		if d.iv != nil {
			hint, hasHint := m.intHints[d.iv]
			var hp *int
			if hasHint {
				hp = &hint
			}
			for _, val := range domainOrder(d.iv.Lo, d.iv.Hi, hp) {
				if se.expired() {
					return false
				}
				if se.assignInt(d.iv, val) {
					dfs(i + 1)
				}
				se.unassignInt(d.iv)
				se.undoTo(mark)
			}
			return false
		}

		for _, idx := range groupOrder(d.group, m.boolHints) {
			if se.expired() {
				return false
			}
			ok := true
			for j, b := range d.group {
				if !se.assignBool(b, j == idx) {
					ok = false
					break
				}
			}
			if ok {
				dfs(i + 1)
			}
			for _, b := range d.group {
				se.unassignBool(b)
			}
			se.undoTo(mark)
		}
		return false
	}

	dfs(0)

	if !bestFound {
		if se.expired() {
			s.logTimeout("Minimize")
			return StatusUnknown, 0
		}
		return StatusInfeasible, 0
	}

	for v, val := range bestSnap.ints {
		v.value, v.assigned = val, true
	}
	for b, val := range bestSnap.bools {
		b.value, b.assigned = val, true
	}

	if se.expired() {
		return StatusFeasible, best
	}
	return StatusOptimal, best
}
