//go:build !amd64

package ztable

import "zindex/morton"

// partition returns the index of the skip bucket where key might reside:
// the count of skip samples strictly less than key.
func (t *Table) partition(key morton.Key) int {
	return partitionScalar(&t.skiplist, uint32(key))
}
