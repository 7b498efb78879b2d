// Package scan answers coverage queries over a whole set of sensors.
//
// NoBeaconCount measures how many cells of a row are provably beacon-free by
// merging per-sensor row intervals. FindGap and FindGapParallel locate the
// single uncovered cell inside a square with a skip-scan that jumps over each
// covering sensor instead of testing every column.
package scan

import (
	"cmp"
	"slices"

	"beaconzone/internal/coverage"
)

// RowCoverage returns the merged, sorted, disjoint intervals that the sensors
// cover on row y. Adjacent intervals are merged into one.
func RowCoverage(sensors []coverage.Sensor, y int64) []coverage.Interval {
	ivs := make([]coverage.Interval, 0, len(sensors))
	for _, s := range sensors {
		if iv, ok := s.RowInterval(y); ok {
			ivs = append(ivs, iv)
		}
	}
	return MergeIntervals(ivs)
}

// MergeIntervals sorts ivs by lower bound and folds overlapping or adjacent
// intervals together. The input slice is reordered in place.
func MergeIntervals(ivs []coverage.Interval) []coverage.Interval {
	if len(ivs) == 0 {
		return nil
	}
	slices.SortFunc(ivs, func(a, b coverage.Interval) int {
		return cmp.Compare(a.Lo, b.Lo)
	})

	merged := make([]coverage.Interval, 0, len(ivs))
	cur := ivs[0]
	for _, iv := range ivs[1:] {
		// cur.Hi+1 may overflow; iv.Lo-1 cannot when the first test fails.
		if iv.Lo <= cur.Hi || iv.Lo-1 == cur.Hi {
			if iv.Hi > cur.Hi {
				cur.Hi = iv.Hi
			}
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	return append(merged, cur)
}

// CoveredLength sums the lengths of the merged intervals.
func CoveredLength(merged []coverage.Interval) uint64 {
	var total uint64
	for _, iv := range merged {
		total += iv.Len()
	}
	return total
}

// NoBeaconCount returns how many positions on row y are covered by at least
// one sensor and are not occupied by a known beacon.
func NoBeaconCount(sensors []coverage.Sensor, y int64) uint64 {
	merged := RowCoverage(sensors, y)
	total := CoveredLength(merged)
	if total == 0 {
		return 0
	}
	for b := range coverage.Beacons(sensors) {
		if b.Y != y {
			continue
		}
		if covered(merged, b.X) {
			total--
		}
	}
	return total
}

func covered(merged []coverage.Interval, x int64) bool {
	_, found := slices.BinarySearchFunc(merged, x, func(iv coverage.Interval, x int64) int {
		switch {
		case iv.Hi < x:
			return -1
		case iv.Lo > x:
			return 1
		default:
			return 0
		}
	})
	return found
}
