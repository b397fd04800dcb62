/*
NAME
  normalize.go

DESCRIPTION
  normalize.go flattens a mixed list of points and groups into one point
  table plus a side table of group spans, propagates group attributes,
  validates size/start_frame/offset ranges, and derives UNIT and CAP.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import (
	"math/big"

	"github.com/pkg/errors"
)

// Item is a tagged input variant: exactly one of Point or Group is
// non-nil. Callers build a []Item from their preset (manual, excel,
// synthetic) and pass it to Normalize.
type Item struct {
	Point *PointObject
	Group *Group
}

// PointItem wraps a single point as an Item.
func PointItem(p *PointObject) Item { return Item{Point: p} }

// GroupItem wraps a group as an Item.
func GroupItem(g *Group) Item { return Item{Group: g} }

// groupSpan records where a flattened group's members live in the
// normalized point table, so the model builder can find each group's
// members without re-discovering group membership.
type groupSpan struct {
	name       string
	firstIndex int
	length     int
}

// normalized is the output of Normalize: a flat, validated point table,
// a side table of group spans, and the derived unit scale.
type normalized struct {
	points        []*PointObject
	groups        []groupSpan
	frameSizeBits int
	numFrames     int
	unit          int
	cap           int
}

// Normalize flattens items, propagates group attributes, validates
// every point, and computes UNIT/CAP. frameSizeBytes and numFrames must
// both be positive.
func Normalize(items []Item, frameSizeBytes, numFrames int) (*normalized, error) {
	if frameSizeBytes <= 0 {
		return nil, errors.New("packer: frame_size_bytes must be positive")
	}
	if numFrames <= 0 {
		return nil, errors.New("packer: num_frames must be positive")
	}
	frameSizeBits := frameSizeBytes * 8

	var points []*PointObject
	var groups []groupSpan
	for _, it := range items {
		switch {
		case it.Group != nil:
			span := groupSpan{name: it.Group.Name, firstIndex: len(points), length: len(it.Group.Members)}
			if span.length == 0 {
				return nil, errors.Wrapf(ErrEmptyGroup, "group %q", it.Group.Name)
			}
			g := it.Group
			for i, p := range g.Members {
				p.Period = g.Period
				p.StartFrame, p.OffsetBits = nil, nil
				if g.StartFrame != nil {
					sf := *g.StartFrame
					p.StartFrame = &sf
				}
				if i == 0 && g.OffsetBits != nil {
					ob := *g.OffsetBits
					p.OffsetBits = &ob
				}
			}
			points = append(points, g.Members...)
			groups = append(groups, span)
		case it.Point != nil:
			points = append(points, it.Point)
		default:
			return nil, errors.New("packer: empty Item (neither Point nor Group set)")
		}
	}

	for _, p := range points {
		if err := validatePoint(p, frameSizeBits, numFrames); err != nil {
			return nil, err
		}
	}

	unit, capUnits := unitAndCap(points, frameSizeBits)

	return &normalized{
		points:        points,
		groups:        groups,
		frameSizeBits: frameSizeBits,
		numFrames:     numFrames,
		unit:          unit,
		cap:           capUnits,
	}, nil
}

// validatePoint checks one point's size, start_frame and offset ranges.
func validatePoint(p *PointObject, frameSizeBits, numFrames int) error {
	if p.SizeBits < 0 || p.SizeBits > frameSizeBits {
		return &ValidationError{Object: p.Name, Rule: "0 <= size_bits <= frame_size_bits"}
	}
	if p.Period <= 0 {
		return &ValidationError{Object: p.Name, Rule: "period must be positive"}
	}
	if p.StartFrame != nil {
		sf := *p.StartFrame
		if sf < 0 || sf >= numFrames {
			return &ValidationError{Object: p.Name, Rule: "0 <= start_frame < num_frames"}
		}
	}
	if p.OffsetBits != nil {
		ob := *p.OffsetBits
		if ob < 0 || ob+p.SizeBits > frameSizeBits {
			return &ValidationError{Object: p.Name, Rule: "0 <= offset_bits and offset_bits + size_bits <= frame_size_bits"}
		}
	}
	// A period that does not evenly divide num_frames is rejected rather
	// than given fractional-count semantics: the exactly-one-of-period
	// phase encoding depends on uniform periodicity.
	if numFrames%p.Period != 0 {
		return &ValidationError{Object: p.Name, Rule: "period must evenly divide num_frames"}
	}
	return nil
}

// unitAndCap computes UNIT = gcd(all size_bits, all defined offset_bits,
// frame_size_bits) and CAP = frame_size_bits / UNIT. An empty point set
// defaults UNIT to frame_size_bits (CAP = 1).
func unitAndCap(points []*PointObject, frameSizeBits int) (unit, capUnits int) {
	if len(points) == 0 {
		return frameSizeBits, 1
	}
	g := big.NewInt(int64(frameSizeBits))
	tmp := new(big.Int)
	for _, p := range points {
		if p.SizeBits > 0 {
			g.GCD(nil, nil, g, tmp.SetInt64(int64(p.SizeBits)))
		}
		if p.OffsetBits != nil && *p.OffsetBits > 0 {
			g.GCD(nil, nil, g, tmp.SetInt64(int64(*p.OffsetBits)))
		}
	}
	unit = int(g.Int64())
	if unit <= 0 {
		unit = frameSizeBits
	}
	return unit, frameSizeBits / unit
}
