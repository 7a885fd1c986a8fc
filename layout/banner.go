package layout

import (
	"sort"
	"time"

	"github.com/calgrid/calgrid/segment"
	"github.com/calgrid/calgrid/timeline"
)

// PackBanners assigns banner rows to one week's all-day segments: each
// segment lands in the first row whose last occupant it does not overlap,
// opening a new row when none fits. StartDayIndex and ColumnSpan are
// expressed against the week's visible-day index table, so hidden weekdays
// compress the span. Lanes apply as in PackDays.
func PackBanners(segs []segment.Week, loc *time.Location, hideWeekDays []int) []PackedBanner {
	if loc == nil {
		loc = time.Local
	}

	lanes := partitionWeeksByResource(segs)

	var packed []PackedBanner
	for laneIndex, lane := range lanes {
		lanePacked := packBannerLane(lane, loc, hideWeekDays)
		for i := range lanePacked {
			lanePacked[i].ResourceIndex = laneIndex
		}
		packed = append(packed, lanePacked...)
	}
	return packed
}

func partitionWeeksByResource(segs []segment.Week) [][]segment.Week {
	byResource := make(map[string][]segment.Week)
	for _, s := range segs {
		byResource[s.ResourceID()] = append(byResource[s.ResourceID()], s)
	}

	ids := make([]string, 0, len(byResource))
	for id := range byResource {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lanes := make([][]segment.Week, 0, len(ids))
	for _, id := range ids {
		lanes = append(lanes, byResource[id])
	}
	return lanes
}

func packBannerLane(segs []segment.Week, loc *time.Location, hideWeekDays []int) []PackedBanner {
	hidden := make(map[int]bool, len(hideWeekDays))
	for _, wd := range hideWeekDays {
		hidden[wd] = true
	}

	packed := make([]PackedBanner, 0, len(segs))
	for _, s := range segs {
		packed = append(packed, PackedBanner{Week: s})
	}
	sortBanners(packed)

	var rows [][]int
	for i := range packed {
		placed := false
		for r := range rows {
			last := packed[rows[r][len(rows[r])-1]]
			if !overlapsBanner(last, packed[i]) {
				rows[r] = append(rows[r], i)
				packed[i].RowIndex = r
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []int{i})
			packed[i].RowIndex = len(rows) - 1
		}

		packed[i].StartDayIndex = visibleDayIndex(packed[i], loc, hidden)
		packed[i].ColumnSpan = packed[i].VisibleDuration
	}
	return packed
}

// overlapsBanner reports whether two day-granular spans intersect; both
// ends are inclusive day starts.
func overlapsBanner(a, b PackedBanner) bool {
	return a.StartUnix <= b.EndUnix && b.StartUnix <= a.EndUnix
}

// visibleDayIndex locates the segment's first visible day within the
// week's table of non-hidden days.
func visibleDayIndex(seg PackedBanner, loc *time.Location, hidden map[int]bool) int {
	weekStart := time.UnixMilli(seg.WeekStartUnix).In(loc)
	index := 0
	for d := weekStart; ; d = d.AddDate(0, 0, 1) {
		if d.UnixMilli() >= seg.StartUnix && !hidden[timeline.ISOWeekday(d)] {
			return index
		}
		if !hidden[timeline.ISOWeekday(d)] {
			index++
		}
		if d.UnixMilli() > seg.EndUnix {
			return index
		}
	}
}
