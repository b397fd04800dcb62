/*
NAME
  object_test.go

DESCRIPTION
  object_test.go validates PointObject construction, in particular the
  byte-to-bit offset conversion performed once at NewPoint.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import "testing"

func TestNewPointOffsetConversion(t *testing.T) {
	cases := []struct {
		name       string
		offsetByte *int
		wantBits   *int
	}{
		{"no offset", nil, nil},
		{"zero offset", ptrInt(0), ptrInt(0)},
		{"one byte", ptrInt(1), ptrInt(8)},
		{"four bytes", ptrInt(4), ptrInt(32)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPoint("X", 8, 1, nil, c.offsetByte)
			if (p.OffsetBits == nil) != (c.wantBits == nil) {
				t.Fatalf("OffsetBits nilness mismatch: got %v, want %v", p.OffsetBits, c.wantBits)
			}
			if p.OffsetBits != nil && *p.OffsetBits != *c.wantBits {
				t.Fatalf("OffsetBits = %d, want %d", *p.OffsetBits, *c.wantBits)
			}
		})
	}
}

func TestNewPointStartFrameCopied(t *testing.T) {
	sf := 4
	p := NewPoint("X", 8, 1, &sf, nil)
	sf = 99 // mutate caller's variable; p.StartFrame must not change.
	if *p.StartFrame != 4 {
		t.Fatalf("StartFrame = %d, want 4 (construction must copy, not alias)", *p.StartFrame)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	sf, ob := 2, 16
	p := NewPoint("X", 8, 4, &sf, ptrInt(2))
	rec := p.Record()
	if rec.Name != "X" || rec.SizeBits != 8 || rec.Period != 4 {
		t.Fatalf("Record fields mismatch: %+v", rec)
	}
	if rec.StartFrame == nil || *rec.StartFrame != sf {
		t.Fatalf("Record.StartFrame = %v, want %d", rec.StartFrame, sf)
	}
	if rec.OffsetBits == nil || *rec.OffsetBits != ob {
		t.Fatalf("Record.OffsetBits = %v, want %d", rec.OffsetBits, ob)
	}
}

func ptrInt(v int) *int { return &v }
