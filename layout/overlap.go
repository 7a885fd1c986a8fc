package layout

import (
	"github.com/calgrid/calgrid/segment"
)

// Overlap mode cascades events inside a container of mutually overlapping
// segments. Rows and their later-joining leaves form chains; the structure
// is an arena of nodes addressed by index, with parent-to-child index
// lists rather than object references.

// widenFactor stretches every non-terminal chain level so cascading cards
// visually overlap their successors.
const widenFactor = 1.7

type overlapNode struct {
	seg      int
	children []int
}

type container struct {
	rows []int // root node indices
	end  int64 // latest displayed end among members
}

// packOverlap assigns fractional widths and offsets. Segments partition
// into containers of transitively overlapping intervals; within a
// container a segment joins an existing row chain when its start is within
// minStartDifference minutes of a chain member's start, or falls strictly
// inside that member's displayed interval. Otherwise it roots a new row.
// A candidate starting exactly at a chain member's end is not inside it.
func packOverlap(segs []segment.Day, minStartDifference int) []PackedDay {
	if minStartDifference < 1 {
		minStartDifference = 1
	}

	packed := make([]PackedDay, 0, len(segs))
	for _, s := range segs {
		packed = append(packed, PackedDay{Day: s})
	}
	sortDays(packed)

	nodes := make([]overlapNode, 0, len(packed))
	var containers []*container
	var current *container

	for i := range packed {
		n := len(nodes)
		nodes = append(nodes, overlapNode{seg: i})

		if current == nil || packed[i].IntervalStart() >= current.end {
			current = &container{rows: []int{n}, end: packed[i].IntervalEnd()}
			containers = append(containers, current)
			continue
		}
		if packed[i].IntervalEnd() > current.end {
			current.end = packed[i].IntervalEnd()
		}

		joined := false
		for r := len(current.rows) - 1; r >= 0; r-- {
			target, ok := joinTarget(nodes, packed, current.rows[r], i, minStartDifference)
			if ok {
				nodes[target].children = append(nodes[target].children, n)
				joined = true
				break
			}
		}
		if !joined {
			current.rows = append(current.rows, n)
		}
	}

	for _, c := range containers {
		assignWidths(nodes, packed, c.rows)
	}
	return packed
}

// joinTarget checks whether packed[candidate] belongs to the chain rooted
// at root and, if so, descends to the deepest chain member it should
// attach to.
func joinTarget(nodes []overlapNode, packed []PackedDay, root, candidate, minStartDifference int) (int, bool) {
	if !joins(packed[nodes[root].seg], packed[candidate], minStartDifference) {
		return 0, false
	}

	cur := root
	for len(nodes[cur].children) > 0 {
		last := nodes[cur].children[len(nodes[cur].children)-1]
		if !joins(packed[nodes[last].seg], packed[candidate], minStartDifference) {
			break
		}
		cur = last
	}
	return cur, true
}

func joins(member, candidate PackedDay, minStartDifference int) bool {
	deltaMinutes := (candidate.IntervalStart() - member.IntervalStart()) / 60_000
	if deltaMinutes < 0 {
		deltaMinutes = -deltaMinutes
	}
	if deltaMinutes < int64(minStartDifference) {
		return true
	}
	return candidate.IntervalStart() > member.IntervalStart() &&
		candidate.IntervalStart() < member.IntervalEnd()
}

// assignWidths distributes the container's 100% top-down: the container
// reserves one column per level of its deepest chain, and every node sits
// at its chain depth, widened by widenFactor when it has leaves below it.
func assignWidths(nodes []overlapNode, packed []PackedDay, rows []int) {
	maxLeaves := 0
	for _, r := range rows {
		if d := chainDepth(nodes, r); d > maxLeaves {
			maxLeaves = d
		}
	}
	columns := 1 + maxLeaves
	unit := 100.0 / float64(columns)

	for _, r := range rows {
		assignChain(nodes, packed, r, 0, unit)
	}
}

// chainDepth returns the length of the longest descendant chain below n.
func chainDepth(nodes []overlapNode, n int) int {
	depth := 0
	for _, c := range nodes[n].children {
		if d := 1 + chainDepth(nodes, c); d > depth {
			depth = d
		}
	}
	return depth
}

func assignChain(nodes []overlapNode, packed []PackedDay, n, depth int, unit float64) {
	x := float64(depth) * unit
	width := unit
	if len(nodes[n].children) > 0 {
		width = unit * widenFactor
	}
	if x+width > 100 {
		width = 100 - x
	}

	packed[nodes[n].seg].WidthPercent = width
	packed[nodes[n].seg].XOffsetPercent = x

	for _, c := range nodes[n].children {
		assignChain(nodes, packed, c, depth+1, unit)
	}
}
