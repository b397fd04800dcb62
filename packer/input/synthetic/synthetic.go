/*
NAME
  synthetic.go

DESCRIPTION
  synthetic.go deterministically generates a large object list for
  benchmarking the solver at scale.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package synthetic generates a deterministic, arbitrarily large point
// object list for benchmarking the solver at scale.
package synthetic

import (
	"fmt"

	"github.com/joeyjohn/formatpacker/packer"
)

// sizes and periods cycle deterministically across generated points so
// repeated runs (and runs with a larger n) are prefix-stable: Build(50)
// is exactly Build(200)'s first 50 points.
var (
	sizes   = []int{8, 16, 32, 64}
	periods = []int{1, 2, 4, 8, 16, 32}
)

// Build returns a deterministic list of n points plus a fixed handful
// of groups. Groups are appended after the points, matching the manual
// preset's ordering.
func Build(n int) []packer.Item {
	items := make([]packer.Item, 0, n+2)
	for i := 0; i < n; i++ {
		size := sizes[i%len(sizes)]
		period := periods[i%len(periods)]
		var startFrame *int
		if i%3 == 0 {
			sf := i % period
			startFrame = &sf
		}
		name := fmt.Sprintf("S%d", i)
		items = append(items, packer.PointItem(packer.NewPoint(name, size, period, startFrame, nil)))
	}

	if n >= 4 {
		g1a := packer.NewPoint("SG1_A", 8, 4, nil, nil)
		g1b := packer.NewPoint("SG1_B", 16, 4, nil, nil)
		items = append(items, packer.GroupItem(packer.NewGroup("synthetic_group_1", 4, nil, nil, g1a, g1b)))
	}
	if n >= 8 {
		g2a := packer.NewPoint("SG2_A", 16, 8, nil, nil)
		g2b := packer.NewPoint("SG2_B", 8, 8, nil, nil)
		g2c := packer.NewPoint("SG2_C", 8, 8, nil, nil)
		items = append(items, packer.GroupItem(packer.NewGroup("synthetic_group_2", 8, nil, nil, g2a, g2b, g2c)))
	}

	return items
}
