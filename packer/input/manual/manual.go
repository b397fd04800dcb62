/*
NAME
  manual.go

DESCRIPTION
  manual.go builds a hand-authored object list exercising the packer's
  full placement variety: plain periodic points, an offset-pinned
  point, start_frame-pinned points, a period-1 point, and groups.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package manual provides a built-in, programmatically constructed
// object list for exercising and demonstrating the packer without any
// external input file.
package manual

import "github.com/joeyjohn/formatpacker/packer"

// ptr is a small helper for the optional *int fields PointObject and
// Group take; the preset below reads more plainly with named pins than
// with address-of-literal syntax scattered throughout.
func ptr(v int) *int { return &v }

// Build returns the manual preset's object list.
func Build() []packer.Item {
	a := packer.NewPoint("A", 32, 32, nil, ptr(1))  // offset-pinned (bytes).
	b := packer.NewPoint("B", 16, 32, ptr(4), nil)  // start_frame-pinned.
	c := packer.NewPoint("C", 16, 16, ptr(3), nil)
	d := packer.NewPoint("D", 8, 16, ptr(1), nil)
	e := packer.NewPoint("E", 32, 32, ptr(31), nil)
	g := packer.NewPoint("G", 8, 1, nil, nil) // period 1: occurs in every frame.
	h := packer.NewPoint("H", 64, 1, ptr(1), nil)
	i := packer.NewPoint("I", 64, 32, ptr(1), nil)
	j := packer.NewPoint("J", 16, 8, ptr(1), nil)
	k := packer.NewPoint("K", 64, 16, ptr(5), nil)
	l := packer.NewPoint("L", 64, 32, nil, nil) // unpinned: phase chosen by the solver.
	n := packer.NewPoint("N", 64, 2, nil, nil)
	o := packer.NewPoint("O", 16, 2, ptr(1), nil)
	q := packer.NewPoint("Q", 32, 1, ptr(1), nil)
	r := packer.NewPoint("R", 64, 4, nil, nil)
	u := packer.NewPoint("U", 8, 16, nil, nil)
	v := packer.NewPoint("V", 8, 1, nil, nil)
	w := packer.NewPoint("W", 3, 16, nil, nil)
	x := packer.NewPoint("X", 16, 8, nil, ptr(32))
	y := packer.NewPoint("Y", 8, 2, ptr(1), nil)

	groupABC := packer.NewGroup("group_ABC", 16, ptr(1), ptr(1), a, b, c)
	groupXY := packer.NewGroup("group_XY", 8, nil, ptr(32), x, y)

	return []packer.Item{
		packer.PointItem(d),
		packer.PointItem(e),
		packer.PointItem(g),
		packer.PointItem(h),
		packer.PointItem(i),
		packer.PointItem(j),
		packer.PointItem(k),
		packer.PointItem(l),
		packer.PointItem(n),
		packer.PointItem(o),
		packer.PointItem(q),
		packer.PointItem(r),
		packer.PointItem(u),
		packer.PointItem(v),
		packer.PointItem(w),
		packer.GroupItem(groupABC),
		packer.GroupItem(groupXY),
	}
}
