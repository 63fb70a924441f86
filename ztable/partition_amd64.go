//go:build amd64

package ztable

import (
	"github.com/klauspost/cpuid/v2"

	"zindex/morton"
)

// hasSSE2 gates the vectorized partition. POPCNT is probed alongside
// because the mask counting uses it. When either is missing the scalar
// form is used silently.
var hasSSE2 = cpuid.CPU.Supports(cpuid.SSE2, cpuid.POPCNT)

// partition returns the index of the skip bucket where key might reside:
// the count of skip samples strictly less than key.
func (t *Table) partition(key morton.Key) int {
	if hasSSE2 {
		return partitionSSE2(&t.skiplist, uint32(key))
	}
	return partitionScalar(&t.skiplist, uint32(key))
}

// partitionSSE2 broadcasts key over two 128-bit lanes, compares against the
// eight samples at once and popcounts the byte-wise sign masks. Each 32-bit
// compare yields four identical sign bytes, hence the final shift by two.
//
//go:noescape
func partitionSSE2(skiplist *[skipLen]uint32, key uint32) int
