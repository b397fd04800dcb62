/*
NAME
  pack_test.go

DESCRIPTION
  pack_test.go exercises the end-to-end two-stage solve: trivial,
  pinned, grouped, co-periodic and infeasible inputs.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import (
	"testing"
	"time"

	"github.com/joeyjohn/formatpacker/packer/config"
)

func testConfig(frameSizeBytes, numFrames int) config.Config {
	cfg := config.Default(frameSizeBytes, "unused.xlsx", testLogger())
	cfg.NumFrames = numFrames
	cfg.SolveTimeLimit = 10 * time.Second
	return cfg
}

// One point A, size 8, period 1, frame_size 16 bytes, num_frames 4:
// present in all 4 frames at bit 0; max_end = 8.
func TestPackSinglePeriodOnePoint(t *testing.T) {
	a := NewPoint("A", 8, 1, nil, nil)
	pk := New(testConfig(16, 4), []Item{PointItem(a)})

	res, err := pk.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if res.MaxEnd != 8 {
		t.Errorf("MaxEnd = %d, want 8", res.MaxEnd)
	}
	for f := 0; f < 4; f++ {
		if !res.Schedule.Occurs[0][f] {
			t.Errorf("A does not occur in frame %d, want present in every frame", f)
		}
		for bit := 0; bit < 8; bit++ {
			if res.MemoryMap.Cells[f][bit] != "A" {
				t.Errorf("frame %d bit %d = %q, want \"A\"", f, bit, res.MemoryMap.Cells[f][bit])
			}
		}
	}
}

// A(size=32, period=32, offset=8 bytes), num_frames 32, frame_size 1000
// bytes: start_bit(A) = 64; appears exactly once (frame 0).
func TestPackOffsetPinnedPoint(t *testing.T) {
	a := NewPoint("A", 32, 32, nil, ptrInt(8))
	pk := New(testConfig(1000, 32), []Item{PointItem(a)})

	res, err := pk.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	count := 0
	for f := 0; f < 32; f++ {
		if res.Schedule.Occurs[0][f] {
			count++
			if f != 0 {
				t.Errorf("A occurs in frame %d, want only frame 0", f)
			}
		}
	}
	if count != 1 {
		t.Errorf("A occurs in %d frames, want exactly 1", count)
	}
	for bit := 64; bit < 64+32; bit++ {
		if res.MemoryMap.Cells[0][bit] != "A" {
			t.Errorf("frame 0 bit %d = %q, want \"A\" (start_bit must be 64)", bit, res.MemoryMap.Cells[0][bit])
		}
	}
}

// B(size=16, period=32, start_frame=4) is present only in frame 4.
func TestPackStartFramePinnedPoint(t *testing.T) {
	b := NewPoint("B", 16, 32, ptrInt(4), nil)
	pk := New(testConfig(1000, 32), []Item{PointItem(b)})

	res, err := pk.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	for f := 0; f < 32; f++ {
		want := f == 4
		if res.Schedule.Occurs[0][f] != want {
			t.Errorf("B.Occurs[%d] = %v, want %v", f, res.Schedule.Occurs[0][f], want)
		}
	}
}

// A group of (A size=16, B size=32, C size=8), period 16, start_frame 1,
// offset 8 bytes: all three present in frames 1 and 17; start bits 64,
// 80, 112 in each; FrameOrder lists them A,B,C.
func TestPackGroupContiguity(t *testing.T) {
	a := NewPoint("A", 16, 1, nil, nil)
	b := NewPoint("B", 32, 1, nil, nil)
	c := NewPoint("C", 8, 1, nil, nil)
	g := NewGroup("g", 16, ptrInt(1), ptrInt(8), a, b, c)

	pk := New(testConfig(1000, 32), []Item{GroupItem(g)})
	res, err := pk.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	wantBits := map[string]int{"A": 64, "B": 80, "C": 112}
	for i, name := range res.Schedule.Names {
		for f := 0; f < 32; f++ {
			want := f == 1 || f == 17
			if res.Schedule.Occurs[i][f] != want {
				t.Errorf("%s.Occurs[%d] = %v, want %v", name, f, res.Schedule.Occurs[i][f], want)
			}
		}
		for _, f := range []int{1, 17} {
			bit := wantBits[name]
			if res.MemoryMap.Cells[f][bit] != name {
				t.Errorf("frame %d bit %d = %q, want %q", f, bit, res.MemoryMap.Cells[f][bit], name)
			}
		}
	}

	for _, f := range []int{1, 17} {
		order := res.FrameOrder.Names[f]
		if len(order) != 3 || order[0] != "A" || order[1] != "B" || order[2] != "C" {
			t.Errorf("FrameOrder[%d] = %v, want [A B C]", f, order)
		}
	}
}

// Two points both pinned at offset 0 with period 1 and positive size
// must overlap, so stage 1 raises a packing error.
func TestPackConflictingPinsInfeasible(t *testing.T) {
	a := NewPoint("A", 8, 1, nil, ptrInt(0))
	b := NewPoint("B", 8, 1, nil, ptrInt(0))
	pk := New(testConfig(8, 4), []Item{PointItem(a), PointItem(b)})

	_, err := pk.Pack()
	if err == nil {
		t.Fatal("expected a stage-1 packing error, got nil")
	}
	var pe *PackingError
	if pe2, ok := err.(*PackingError); ok {
		pe = pe2
	}
	if pe == nil || pe.Stage != 1 {
		t.Fatalf("error = %v, want a *PackingError with Stage 1", err)
	}
}

// A non-power-of-two Alignment is rejected before any solve is
// attempted.
func TestPackRejectsNonPowerOfTwoAlignment(t *testing.T) {
	a := NewPoint("A", 8, 1, nil, nil)
	cfg := testConfig(16, 4)
	cfg.Alignment = 3
	pk := New(cfg, []Item{PointItem(a)})

	_, err := pk.Pack()
	if err == nil {
		t.Fatal("expected a validation error for Alignment = 3")
	}
	var ve *ValidationError
	if ve2, ok := err.(*ValidationError); ok {
		ve = ve2
	}
	if ve == nil {
		t.Fatalf("error = %v, want a *ValidationError", err)
	}
}

// Alignment = 0 (the default) and powers of two must not be rejected.
func TestPackAcceptsZeroOrPowerOfTwoAlignment(t *testing.T) {
	for _, align := range []int{0, 1, 2, 4, 8} {
		a := NewPoint("A", 8, 1, nil, nil)
		cfg := testConfig(16, 4)
		cfg.Alignment = align
		pk := New(cfg, []Item{PointItem(a)})

		if _, err := pk.Pack(); err != nil {
			t.Errorf("Alignment = %d: Pack() = %v, want nil", align, err)
		}
	}
}

// Two points with different periods must never overlap in any frame
// they share.
func TestPackCoprimePeriodsNoOverlap(t *testing.T) {
	a := NewPoint("A", 16, 2, nil, nil)
	b := NewPoint("B", 16, 4, nil, nil)
	pk := New(testConfig(8, 4), []Item{PointItem(a), PointItem(b)})

	res, err := pk.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if res.MaxEnd > 32 {
		t.Errorf("MaxEnd = %d, want <= 32", res.MaxEnd)
	}
	// MemoryMap keeps one owner per cell, so overlap is checked from each
	// point's start bit and size instead.
	size := make(map[string]int)
	for _, rec := range res.Objects {
		size[rec.Name] = rec.SizeBits
	}
	for f := 0; f < 4; f++ {
		occupied := make([]string, 64)
		for i, name := range res.FrameSummary.Names {
			start := res.FrameSummary.StartBit[i][f]
			if start < 0 {
				continue
			}
			for bit := start; bit < start+size[name]; bit++ {
				if occupied[bit] != "" && occupied[bit] != name {
					t.Fatalf("frame %d bit %d occupied by both %q and %q", f, bit, occupied[bit], name)
				}
				occupied[bit] = name
			}
		}
	}
}
