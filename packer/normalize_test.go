/*
NAME
  normalize_test.go

DESCRIPTION
  normalize_test.go validates the range checks, group flattening, and
  UNIT/CAP derivation.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package packer

import (
	"errors"
	"testing"
)

func TestNormalizeUnitAndCap(t *testing.T) {
	a := NewPoint("A", 16, 4, nil, nil)
	b := NewPoint("B", 32, 2, nil, ptrInt(1)) // offset 8 bits.
	norm, err := Normalize([]Item{PointItem(a), PointItem(b)}, 8, 32)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	// gcd(16, 32, 8, 64 [frame_size_bits]) = 8.
	if norm.unit != 8 {
		t.Errorf("unit = %d, want 8", norm.unit)
	}
	if norm.cap != 8 { // 64 bits / 8.
		t.Errorf("cap = %d, want 8", norm.cap)
	}
}

func TestNormalizeEmptyPointSet(t *testing.T) {
	norm, err := Normalize(nil, 8, 32)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if norm.unit != 64 || norm.cap != 1 {
		t.Errorf("empty point set: unit=%d cap=%d, want unit=64 cap=1", norm.unit, norm.cap)
	}
}

func TestNormalizeRejectsOversizedPoint(t *testing.T) {
	p := NewPoint("A", 100, 1, nil, nil)
	_, err := Normalize([]Item{PointItem(p)}, 8, 32) // frame_size_bits = 64.
	if err == nil {
		t.Fatal("expected a validation error for size_bits > frame_size_bits")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error is not a *ValidationError: %v", err)
	}
}

func TestNormalizeRejectsBadStartFrame(t *testing.T) {
	p := NewPoint("A", 8, 1, ptrInt(32), nil) // num_frames = 32, so 32 is out of range.
	_, err := Normalize([]Item{PointItem(p)}, 8, 32)
	if err == nil {
		t.Fatal("expected a validation error for out-of-range start_frame")
	}
}

func TestNormalizeRejectsOverlappingOffset(t *testing.T) {
	p := NewPoint("A", 16, 1, nil, ptrInt(7)) // offset 56 bits + size 16 > 64.
	_, err := Normalize([]Item{PointItem(p)}, 8, 32)
	if err == nil {
		t.Fatal("expected a validation error for offset_bits + size_bits > frame_size_bits")
	}
}

func TestNormalizeRejectsNonDivisorPeriod(t *testing.T) {
	p := NewPoint("A", 8, 5, nil, nil) // 5 does not divide 32.
	_, err := Normalize([]Item{PointItem(p)}, 8, 32)
	if err == nil {
		t.Fatal("expected a validation error for a period that does not divide num_frames")
	}
}

func TestNormalizeFlattensGroup(t *testing.T) {
	a := NewPoint("A", 16, 4, nil, nil)
	b := NewPoint("B", 8, 4, nil, nil)
	g := NewGroup("g", 4, nil, nil, a, b)
	norm, err := Normalize([]Item{GroupItem(g)}, 8, 32)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(norm.points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(norm.points))
	}
	if len(norm.groups) != 1 || norm.groups[0].length != 2 {
		t.Fatalf("groups = %+v, want one span of length 2", norm.groups)
	}
}

func TestNormalizeRejectsEmptyGroup(t *testing.T) {
	g := &Group{Name: "empty"}
	_, err := Normalize([]Item{GroupItem(g)}, 8, 32)
	if err == nil {
		t.Fatal("expected an error for an empty group")
	}
}
