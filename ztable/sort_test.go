package ztable

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"zindex/geom"
	"zindex/morton"
)

// fillRows builds the three columns from random rows, with values derived
// from the position so decoupled swaps are detectable.
func fillRows(r *rand.Rand, n int) ([]morton.Key, []geom.Point, []geom.Value) {
	keys := make([]morton.Key, n)
	positions := make([]geom.Point, n)
	values := make([]geom.Value, n)
	for i := range keys {
		p := geom.RandomPoint(r, 1<<10) // small domain so duplicate keys occur
		keys[i] = morton.Encode(p.X, p.Y)
		positions[i] = p
		values[i] = geom.Value(uint32(p.X)<<16 | uint32(p.Y))
	}
	return keys, positions, values
}

func checkSorted(t *testing.T, keys []morton.Key, positions []geom.Point, values []geom.Value, seed int64) {
	t.Helper()
	require.True(t, slices.IsSorted(keys), "seed: %d", seed)
	for i := range keys {
		p := positions[i]
		require.Equal(t, morton.Encode(p.X, p.Y), keys[i], "row %d lost its key (seed: %d)", i, seed)
		require.Equal(t, geom.Value(uint32(p.X)<<16|uint32(p.Y)), values[i], "row %d lost its value (seed: %d)", i, seed)
	}
}

func TestSortColumns(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	for _, n := range []int{0, 1, 2, 3, 17, 100, 1023} {
		keys, positions, values := fillRows(r, n)
		want := append([]morton.Key{}, keys...)
		slices.Sort(want)

		sortColumns(keys, positions, values)

		require.Equal(t, want, keys, "seed: %d", seed)
		checkSorted(t, keys, positions, values, seed)
	}
}

// TestSortColumnsParallel crosses the goroutine fork threshold.
func TestSortColumnsParallel(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	n := parallelCutoff * 4
	keys, positions, values := fillRows(r, n)
	want := append([]morton.Key(nil), keys...)
	slices.Sort(want)

	sortColumns(keys, positions, values)

	require.Equal(t, want, keys, "seed: %d", seed)
	checkSorted(t, keys, positions, values, seed)
}

func TestSortColumnsAlreadySorted(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	keys, positions, values := fillRows(r, 512)
	sortColumns(keys, positions, values)
	again := append([]morton.Key(nil), keys...)

	sortColumns(keys, positions, values)
	require.Equal(t, again, keys, "seed: %d", seed)
	checkSorted(t, keys, positions, values, seed)
}
