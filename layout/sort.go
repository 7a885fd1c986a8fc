package layout

import "sort"

// sortDays orders day segments deterministically: ascending start, ties by
// title, further ties by longer duration first, finally by segment ID.
// Column assignment is sequential, so equal inputs must always pack
// identically.
func sortDays(segs []PackedDay) {
	sort.Slice(segs, func(i, j int) bool {
		a, b := segs[i], segs[j]
		if a.IntervalStart() != b.IntervalStart() {
			return a.IntervalStart() < b.IntervalStart()
		}
		if a.Title() != b.Title() {
			return a.Title() < b.Title()
		}
		if a.DurationMinutes != b.DurationMinutes {
			return a.DurationMinutes > b.DurationMinutes
		}
		return a.ID < b.ID
	})
}

// sortBanners applies the shared ordering to week segments, with the day
// span standing in for duration.
func sortBanners(segs []PackedBanner) {
	sort.Slice(segs, func(i, j int) bool {
		a, b := segs[i], segs[j]
		if a.StartUnix != b.StartUnix {
			return a.StartUnix < b.StartUnix
		}
		if a.Title() != b.Title() {
			return a.Title() < b.Title()
		}
		if a.EndUnix != b.EndUnix {
			return a.EndUnix > b.EndUnix
		}
		return a.ID < b.ID
	})
}
