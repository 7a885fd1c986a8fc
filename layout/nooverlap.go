package layout

import (
	"sort"

	"github.com/calgrid/calgrid/segment"
)

// PackDays packs one day's segments with the selected mode, partitioned
// into independent resource lanes when any segment carries a resource ID.
// Lanes are ordered lexically by resource ID, the empty lane first.
func PackDays(segs []segment.Day, mode Mode, minStartDifference int) []PackedDay {
	lanes := partitionByResource(segs)

	var packed []PackedDay
	for laneIndex, lane := range lanes {
		var lanePacked []PackedDay
		if mode == ModeOverlap {
			lanePacked = packOverlap(lane, minStartDifference)
		} else {
			lanePacked = packNoOverlap(lane)
		}
		for i := range lanePacked {
			lanePacked[i].ResourceIndex = laneIndex
		}
		packed = append(packed, lanePacked...)
	}
	return packed
}

func partitionByResource(segs []segment.Day) [][]segment.Day {
	byResource := make(map[string][]segment.Day)
	for _, s := range segs {
		byResource[s.ResourceID()] = append(byResource[s.ResourceID()], s)
	}

	ids := make([]string, 0, len(byResource))
	for id := range byResource {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lanes := make([][]segment.Day, 0, len(ids))
	for _, id := range ids {
		lanes = append(lanes, byResource[id])
	}
	return lanes
}

// packNoOverlap assigns discrete columns: each segment lands in the first
// column whose last occupant it does not overlap, opening a new column when
// none fits. A placed segment then spreads rightward across trailing
// columns holding nothing that overlaps it.
func packNoOverlap(segs []segment.Day) []PackedDay {
	packed := make([]PackedDay, 0, len(segs))
	for _, s := range segs {
		packed = append(packed, PackedDay{Day: s})
	}
	sortDays(packed)

	var columns [][]int
	columnOf := make([]int, len(packed))
	for i := range packed {
		placed := false
		for c := range columns {
			last := packed[columns[c][len(columns[c])-1]]
			if !overlapsDay(last, packed[i]) {
				columns[c] = append(columns[c], i)
				columnOf[i] = c
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []int{i})
			columnOf[i] = len(columns) - 1
		}
	}

	total := len(columns)
	for i := range packed {
		span := 1
		for c := columnOf[i] + 1; c < total; c++ {
			if columnOverlaps(columns[c], packed, packed[i]) {
				break
			}
			span++
		}
		packed[i].ColumnIndex = columnOf[i]
		packed[i].ColumnSpan = span
		packed[i].TotalColumns = total
	}
	return packed
}

// overlapsDay reports whether two displayed intervals intersect:
// a.end > b.start && a.start < b.end.
func overlapsDay(a, b PackedDay) bool {
	return a.IntervalEnd() > b.IntervalStart() && a.IntervalStart() < b.IntervalEnd()
}

func columnOverlaps(column []int, packed []PackedDay, candidate PackedDay) bool {
	for _, i := range column {
		if overlapsDay(packed[i], candidate) {
			return true
		}
	}
	return false
}
