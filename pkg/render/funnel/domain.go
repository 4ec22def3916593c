package funnel

import (
	"slices"
)

// domainSet groups overlapping labels with a disjoint-set forest over row
// indices. Groups only grow during a correction run.
type domainSet struct {
	parent   []int
	size     []int
	reversed bool
}

func newDomainSet(n int, reversed bool) *domainSet {
	d := &domainSet{parent: make([]int, n), size: make([]int, n), reversed: reversed}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

func (d *domainSet) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]]
		i = d.parent[i]
	}
	return i
}

func (d *domainSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
}

// same reports whether a and b are in one group of at least two labels.
func (d *domainSet) same(a, b int) bool {
	return a != b && d.find(a) == d.find(b)
}

// groups returns every group with two or more members. Members are sorted
// ascending when reversed and descending otherwise, which is the order
// labels stack from the top of the chart. Groups are ordered by their
// first member.
func (d *domainSet) groups() [][]int {
	byRoot := map[int][]int{}
	for i := range d.parent {
		r := d.find(i)
		byRoot[r] = append(byRoot[r], i)
	}
	var out [][]int
	for _, members := range byRoot {
		if len(members) < 2 {
			continue
		}
		if d.reversed {
			slices.Sort(members)
		} else {
			slices.SortFunc(members, func(a, b int) int { return b - a })
		}
		out = append(out, members)
	}
	slices.SortFunc(out, func(a, b []int) int {
		if d.reversed {
			return a[0] - b[0]
		}
		return b[0] - a[0]
	})
	return out
}
