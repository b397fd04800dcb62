/*
NAME
  group.go

DESCRIPTION
  group.go defines Group, an ordered, contiguous run of PointObjects that
  share a period and optionally a start_frame/offset.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

// Group is an ordered, non-empty sequence of PointObjects that must be
// placed contiguously, back-to-back, in every frame in which they occur.
// Constructing a Group is idempotent: it reassigns Period, StartFrame and
// OffsetBits from the group's own values onto every member, and clears
// OffsetBits on every member but the first -- only the group's leading
// point has an independently meaningful offset; the rest are pinned
// relative to it by the contiguity constraint built in
// packer/solve.
type Group struct {
	// Name is opaque and unused internally; it exists only so callers can
	// label a group for their own bookkeeping.
	Name string

	Period     int
	StartFrame *int
	OffsetBits *int

	Members []*PointObject
}

// NewGroup constructs a Group from an ordered, non-empty list of points,
// propagating period/start_frame/offset onto every member per the rule
// above. offsetBytes, like NewPoint's, is a byte offset converted to bits
// once here.
func NewGroup(name string, period int, startFrame, offsetBytes *int, members ...*PointObject) *Group {
	g := &Group{Name: name, Period: period, Members: members}
	if startFrame != nil {
		sf := *startFrame
		g.StartFrame = &sf
	}
	if offsetBytes != nil {
		ob := *offsetBytes * 8
		g.OffsetBits = &ob
	}

	for i, p := range g.Members {
		p.Period = g.Period

		if g.StartFrame != nil {
			sf := *g.StartFrame
			p.StartFrame = &sf
		} else {
			p.StartFrame = nil
		}

		if i == 0 && g.OffsetBits != nil {
			ob := *g.OffsetBits
			p.OffsetBits = &ob
		} else {
			p.OffsetBits = nil
		}
	}
	return g
}
