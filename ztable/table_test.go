package ztable

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zindex/geom"
	"zindex/morton"
)

func TestInsertAndGet(t *testing.T) {
	t.Parallel()
	table := New()

	require.NoError(t, table.Insert(geom.Pt(16, 32), 123))

	v, ok := table.GetByID(geom.Pt(16, 32))
	require.True(t, ok)
	require.Equal(t, geom.Value(123), *v)

	require.False(t, table.ContainsKey(geom.Pt(16, 31)))
	_, ok = table.GetByID(geom.Pt(16, 31))
	require.False(t, ok)
}

func TestInsertOutOfRange(t *testing.T) {
	t.Parallel()
	table := New()

	err := table.Insert(geom.Pt(0x8000, 3), 1)
	require.Error(t, err)
	var oor geom.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	require.Equal(t, geom.Pt(0x8000, 3), oor.Point)
	require.Equal(t, 0, table.Len())
}

func TestExtendPanicsOutOfDomain(t *testing.T) {
	t.Parallel()
	table := New()
	require.Panics(t, func() {
		table.Extend([]geom.Pair{{Pos: geom.Pt(1, 0xffff), Val: 0}})
	})
}

func TestGetByID(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	table := New()
	rows := geom.RandomDistinctPairs(r, 64, 128)
	for _, row := range rows {
		require.NoError(t, table.Insert(row.Pos, row.Val))
	}

	for _, row := range rows {
		v, ok := table.GetByID(row.Pos)
		require.True(t, ok, "missing %v (seed: %d)", row.Pos, seed)
		require.Equal(t, row.Val, *v, "seed: %d", seed)
	}
}

func TestContainsIffGetPresent(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	table := FromPairs(geom.RandomPairs(r, 512, 256))

	for i := 0; i < 4096; i++ {
		p := geom.RandomPoint(r, 300)
		_, ok := table.GetByID(p)
		require.Equal(t, ok, table.ContainsKey(p), "disagreement at %v (seed: %d)", p, seed)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	rows := geom.RandomDistinctPairs(r, 128, 512)
	table := FromPairs(rows)

	_, ok := table.Delete(geom.Pt(0x7fff, 0x7fff))
	require.False(t, ok)
	require.Equal(t, len(rows), table.Len())

	for i, row := range rows {
		v, ok := table.Delete(row.Pos)
		require.True(t, ok, "missing %v (seed: %d)", row.Pos, seed)
		require.Equal(t, row.Val, v, "seed: %d", seed)
		require.Equal(t, len(rows)-i-1, table.Len())
		require.False(t, table.ContainsKey(row.Pos), "seed: %d", seed)
	}
	require.Equal(t, 0, table.Len())
}

func TestDeleteOneOfDuplicates(t *testing.T) {
	t.Parallel()
	table := New()
	p := geom.Pt(42, 43)
	require.NoError(t, table.Insert(p, 1))
	require.NoError(t, table.Insert(p, 2))
	require.NoError(t, table.Insert(p, 3))

	_, ok := table.Delete(p)
	require.True(t, ok)
	require.Equal(t, 2, table.Len())
	require.True(t, table.ContainsKey(p))
}

func TestClear(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(1))
	table := FromPairs(geom.RandomPairs(r, 256, 1024))
	require.Equal(t, 256, table.Len())

	table.Clear()
	require.Equal(t, 0, table.Len())
	require.Equal(t, uint32(0), table.skipstep)
	require.Equal(t, [skipLen]uint32{}, table.skiplist)
	require.False(t, table.ContainsKey(geom.Pt(0, 0)))
}

func TestBounds(t *testing.T) {
	t.Parallel()
	from, to := New().Bounds()
	require.Equal(t, geom.Pt(0, 0), from)
	require.Equal(t, geom.Pt(32768, 32768), to)
}

// TestColumnsStayCoupled checks the first structural invariant: after any
// mix of mutations the keys stay sorted, the columns stay equally long and
// every row still carries the key of its own position.
func TestColumnsStayCoupled(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	table := New()
	check := func() {
		require.Equal(t, len(table.keys), len(table.positions), "seed: %d", seed)
		require.Equal(t, len(table.keys), len(table.values), "seed: %d", seed)
		for i, k := range table.keys {
			if i > 0 {
				require.LessOrEqual(t, table.keys[i-1], k, "seed: %d", seed)
			}
			p := table.positions[i]
			require.Equal(t, morton.Encode(p.X, p.Y), k, "row %d decoupled (seed: %d)", i, seed)
		}
	}

	for op := 0; op < 300; op++ {
		switch r.Intn(10) {
		case 0:
			table.Extend(geom.RandomPairs(r, r.Intn(64), 2048))
		case 1:
			if table.Len() > 0 {
				table.Delete(table.positions[r.Intn(table.Len())])
			}
		case 2:
			table.Clear()
		default:
			require.NoError(t, table.Insert(geom.RandomPoint(r, 2048), geom.Value(r.Uint32())))
		}
		check()
	}
}

func TestFromPairsMatchesInsertLoop(t *testing.T) {
	t.Parallel()
	const seed = 0xfeedface
	r1 := rand.New(rand.NewSource(seed))
	r2 := rand.New(rand.NewSource(seed))

	rows1 := geom.RandomDistinctPairs(r1, 1<<10, 4096)
	rows2 := geom.RandomDistinctPairs(r2, 1<<10, 4096)

	bulk := FromPairs(rows1)
	loop := New()
	for _, row := range rows2 {
		require.NoError(t, loop.Insert(row.Pos, row.Val))
	}

	for _, row := range rows1 {
		v, ok := bulk.GetByID(row.Pos)
		require.True(t, ok)
		require.Equal(t, row.Val, *v)
		v, ok = loop.GetByID(row.Pos)
		require.True(t, ok)
		require.Equal(t, row.Val, *v)
	}

	require.Equal(t, bulk.Fingerprint(42), loop.Fingerprint(42))
	require.NotEqual(t, bulk.Fingerprint(42), bulk.Fingerprint(43))
}

func TestByteSizeGrows(t *testing.T) {
	t.Parallel()
	table := New()
	empty := table.ByteSize()
	table.Extend(geom.RandomPairs(rand.New(rand.NewSource(7)), 1024, 4096))
	require.Greater(t, table.ByteSize(), empty)

	report := table.MemReport()
	require.Equal(t, "ztable", report.Name)
	require.Len(t, report.Children, 3)
}
