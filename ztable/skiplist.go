package ztable

import (
	"golang.org/x/exp/slices"

	"zindex/errutil"
)

// skipLen is the number of key samples kept by the skip index. Eight
// samples fill exactly two 128-bit lanes in the vectorized partition.
const skipLen = 8

// rebuildSkipList resamples the sorted keys column. With fewer than skipLen
// rows the step degenerates to zero and lookups binary-search the whole
// column; the first slot then holds the last key so the list is still a
// valid upper bound.
func (t *Table) rebuildSkipList() {
	errutil.BugOn(!slices.IsSorted(t.keys), "ztable: keys out of order after mutation")

	n := len(t.keys)
	step := n / skipLen
	t.skipstep = uint32(step)
	if step == 0 {
		t.skiplist = [skipLen]uint32{}
		if n > 0 {
			t.skiplist[0] = uint32(t.keys[n-1])
		}
		return
	}
	for i := 0; i < skipLen; i++ {
		idx := (i + 1) * step
		if idx >= n {
			// only the last sample can land one past the end
			idx = n - 1
		}
		t.skiplist[i] = uint32(t.keys[idx])
	}
}

// partitionScalar returns the count of skip samples strictly less than key.
// This is the reference form of the partition query; the vectorized path
// must agree with it bit for bit.
func partitionScalar(skiplist *[skipLen]uint32, key uint32) int {
	index := 0
	for _, s := range skiplist {
		if s < key {
			index++
		}
	}
	return index
}
