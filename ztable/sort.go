package ztable

import (
	"sync"

	"zindex/errutil"
	"zindex/geom"
	"zindex/morton"
)

// parallelCutoff is the slice length below which quicksort recursion stays
// on the current goroutine. Forking tiny partitions costs more than the
// scan they save.
const parallelCutoff = 1 << 12

// sortColumns quicksorts the three columns in place by the keys column,
// keeping the row permutation intact across all three. The two partitions
// recurse on disjoint subslices and may run on separate goroutines, so no
// locking is needed. Not stable.
func sortColumns(keys []morton.Key, positions []geom.Point, values []geom.Value) {
	errutil.BugOn(len(keys) != len(positions), "ztable: %d keys, %d positions", len(keys), len(positions))
	errutil.BugOn(len(keys) != len(values), "ztable: %d keys, %d values", len(keys), len(values))
	if len(keys) < 2 {
		return
	}
	p := sortPartition(keys, positions, values)
	if len(keys) >= parallelCutoff {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			sortColumns(keys[:p], positions[:p], values[:p])
		}()
		sortColumns(keys[p+1:], positions[p+1:], values[p+1:])
		wg.Wait()
		return
	}
	sortColumns(keys[:p], positions[:p], values[:p])
	sortColumns(keys[p+1:], positions[p+1:], values[p+1:])
}

// sortPartition partitions the rows around a median-of-three pivot and
// returns the pivot's final index. Every swap moves all three columns.
// Assumes equal-length, non-empty slices.
func sortPartition(keys []morton.Key, positions []geom.Point, values []geom.Value) int {
	errutil.BugOn(len(keys) == 0, "ztable: partition of empty slice")

	swap := func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
		positions[i], positions[j] = positions[j], positions[i]
		values[i], values[j] = values[j], values[i]
	}

	lim := len(keys) - 1

	// choose the median of the first, middle and last keys as the pivot;
	// only the indexes move here, not the rows
	first, median, last := 0, len(keys)/2, lim
	if keys[last] < keys[median] {
		median, last = last, median
	}
	if keys[last] < keys[first] {
		last, first = first, last
	}
	if keys[median] < keys[first] {
		median, first = first, median
	}
	pivot := keys[median]

	swap(median, lim)

	i := 0 // index one past the last row < pivot
	for j := 0; j < lim; j++ {
		if keys[j] < pivot {
			swap(i, j)
			i++
		}
	}
	swap(i, lim)
	return i
}
