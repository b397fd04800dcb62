/*
NAME
  object.go

DESCRIPTION
  object.go defines PointObject, the unit of work for the packer: a
  periodic bit-field placement request.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package packer packs periodic, bit-width-tagged objects ("points") into
// a rotating schedule of fixed-size frames: each point is assigned a
// frame-phase at which it first appears and a fixed bit position within
// its frame such that no two co-occurring points overlap, total bit
// utilization is maximized, and the peak end bit is minimized.
package packer

// PointObject is a periodic bit-field placement request. The optional
// start_frame and offset_bits fields are kept as *int (nil when unset)
// rather than a sentinel integer so "unset" and "zero" are never
// confused -- offset 0 and start_frame 0 are both legal, ordinary values.
type PointObject struct {
	// Name uniquely identifies this point within one packing run.
	Name string

	// SizeBits is the bit width of the point. Must be non-negative and no
	// larger than the frame.
	SizeBits int

	// Period is the number of frames between successive occurrences of
	// this point. Must be positive.
	Period int

	// StartFrame, if non-nil, pins the point's first occurrence to a
	// specific frame; it then appears in every frame f with
	// f >= *StartFrame && (f - *StartFrame) % Period == 0.
	StartFrame *int

	// OffsetBits, if non-nil, pins the point's bit position within every
	// frame it occurs in. Set via NewPoint's offsetBytes argument, which
	// is converted to bits exactly once at construction.
	OffsetBits *int

	// startUnit, phaseChoice and phaseVars are not set by Pack: the solved
	// start position and phase of each point are read from the model's
	// placements when the result tables are built (see result.go).
	startUnit   int
	phaseChoice int // valid only when len(phaseVars) > 0
	phaseVars   []int
}

// NewPoint constructs a PointObject. offsetBytes, when non-nil, is a byte
// offset from the input collaborator; it is multiplied by 8 here, once,
// so every other component in this module operates purely in bits.
func NewPoint(name string, sizeBits, period int, startFrame, offsetBytes *int) *PointObject {
	p := &PointObject{
		Name:     name,
		SizeBits: sizeBits,
		Period:   period,
	}
	if startFrame != nil {
		sf := *startFrame
		p.StartFrame = &sf
	}
	if offsetBytes != nil {
		ob := *offsetBytes * 8
		p.OffsetBits = &ob
	}
	return p
}

// Record is the flat (name, size, period, start_frame, offset) view of a
// PointObject used for tabulation in the Objects result table.
type Record struct {
	Name       string
	SizeBits   int
	Period     int
	StartFrame *int
	OffsetBits *int
}

// Record converts a PointObject to its flat tabulation record.
func (p *PointObject) Record() Record {
	r := Record{Name: p.Name, SizeBits: p.SizeBits, Period: p.Period}
	if p.StartFrame != nil {
		sf := *p.StartFrame
		r.StartFrame = &sf
	}
	if p.OffsetBits != nil {
		ob := *p.OffsetBits
		r.OffsetBits = &ob
	}
	return r
}
