/*
NAME
  result.go

DESCRIPTION
  result.go materializes the solved assignment into the five result
  tables: Objects, Schedule, MemoryMap, FrameOrder, FrameSummary.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import "sort"

// Result is the complete output of a successful Pack call.
type Result struct {
	Objects      []Record
	Schedule     Schedule
	MemoryMap    MemoryMap
	FrameOrder   FrameOrder
	FrameSummary FrameSummary

	TotalUtil int
	MaxEnd    int // in bits.

	NumFrames     int
	FrameSizeBits int
}

// Schedule is one row per point: the name, and which frames it occurs
// in (column index == frame number).
type Schedule struct {
	Names  []string
	Occurs [][]bool // Occurs[i][f] true iff Names[i] occurs in frame f.
}

// MemoryMap is a frame_size_bits x num_frames grid; Cells[f][bit] is the
// name of the object occupying that bit in that frame, or "" if free.
type MemoryMap struct {
	Cells [][]string // Cells[f][bit].
}

// FrameOrder lists, per frame, the names present, ascending by start bit.
type FrameOrder struct {
	Names [][]string // Names[f].
}

// FrameSummary is one row per point, ordered by first appearing frame
// then start bit within it; columns are frames; cell is the start bit
// or -1 if absent.
type FrameSummary struct {
	Names    []string
	StartBit [][]int // StartBit[i][f], -1 if point i does not occur in frame f.
}

// occurrence resolves a point's chosen phase and frame-membership
// rule.
type occurrence struct {
	point       *PointObject
	chosenPhase int
	startBit    int
	pinned      bool // true: occurs_in via start_frame rule; false: via phase residue.
}

func (o occurrence) occursIn(f int) bool {
	if o.pinned {
		return f >= o.chosenPhase && (f-o.chosenPhase)%o.point.Period == 0
	}
	return f%o.point.Period == o.chosenPhase
}

// buildResult reads back bm's solved variables and produces a Result.
// maxEnd is in UNITs, as returned by solve.Solver.Minimize; it is scaled
// to bits here.
func buildResult(bm *builtModel, maxEndUnits int) *Result {
	norm := bm.norm

	occs := make([]occurrence, len(norm.points))
	for i, p := range norm.points {
		pl := bm.byPoint[p]
		startUnit := pl.anchor.Value() + pl.unitOffset
		startBit := startUnit * norm.unit

		if len(pl.phaseVars) > 0 {
			chosen := -1
			for s, b := range pl.phaseVars {
				if b.Value() {
					chosen = s
					break
				}
			}
			occs[i] = occurrence{point: p, chosenPhase: chosen, startBit: startBit, pinned: false}
			continue
		}
		sf := 0
		if p.StartFrame != nil {
			sf = *p.StartFrame
		}
		occs[i] = occurrence{point: p, chosenPhase: sf, startBit: startBit, pinned: true}
	}

	res := &Result{
		TotalUtil:     bm.totalUtil,
		MaxEnd:        maxEndUnits * norm.unit,
		NumFrames:     norm.numFrames,
		FrameSizeBits: norm.frameSizeBits,
	}

	for _, p := range norm.points {
		res.Objects = append(res.Objects, p.Record())
	}

	res.Schedule = buildSchedule(norm, occs)
	res.MemoryMap = buildMemoryMap(norm, occs)
	res.FrameOrder = buildFrameOrder(norm, occs)
	res.FrameSummary = buildFrameSummary(norm, occs)

	return res
}

func buildSchedule(norm *normalized, occs []occurrence) Schedule {
	sch := Schedule{}
	for _, o := range occs {
		sch.Names = append(sch.Names, o.point.Name)
		row := make([]bool, norm.numFrames)
		for f := 0; f < norm.numFrames; f++ {
			row[f] = o.occursIn(f)
		}
		sch.Occurs = append(sch.Occurs, row)
	}
	return sch
}

func buildMemoryMap(norm *normalized, occs []occurrence) MemoryMap {
	mm := MemoryMap{Cells: make([][]string, norm.numFrames)}
	for f := range mm.Cells {
		mm.Cells[f] = make([]string, norm.frameSizeBits)
	}
	for _, o := range occs {
		for f := 0; f < norm.numFrames; f++ {
			if !o.occursIn(f) {
				continue
			}
			for b := o.startBit; b < o.startBit+o.point.SizeBits; b++ {
				mm.Cells[f][b] = o.point.Name
			}
		}
	}
	return mm
}

func buildFrameOrder(norm *normalized, occs []occurrence) FrameOrder {
	fo := FrameOrder{Names: make([][]string, norm.numFrames)}
	for f := 0; f < norm.numFrames; f++ {
		type entry struct {
			name string
			bit  int
		}
		var entries []entry
		for _, o := range occs {
			if o.occursIn(f) {
				entries = append(entries, entry{o.point.Name, o.startBit})
			}
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].bit < entries[j].bit })
		for _, e := range entries {
			fo.Names[f] = append(fo.Names[f], e.name)
		}
	}
	return fo
}

func buildFrameSummary(norm *normalized, occs []occurrence) FrameSummary {
	type row struct {
		o          occurrence
		firstFrame int
	}
	var rows []row
	for _, o := range occs {
		first := -1
		for f := 0; f < norm.numFrames; f++ {
			if o.occursIn(f) {
				first = f
				break
			}
		}
		rows = append(rows, row{o: o, firstFrame: first})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].firstFrame != rows[j].firstFrame {
			return rows[i].firstFrame < rows[j].firstFrame
		}
		return rows[i].o.startBit < rows[j].o.startBit
	})

	fs := FrameSummary{}
	for _, r := range rows {
		fs.Names = append(fs.Names, r.o.point.Name)
		col := make([]int, norm.numFrames)
		for f := 0; f < norm.numFrames; f++ {
			if r.o.occursIn(f) {
				col[f] = r.o.startBit
			} else {
				col[f] = -1
			}
		}
		fs.StartBit = append(fs.StartBit, col)
	}
	return fs
}
