package geom

import "math/rand"

// RandomPoint returns a uniform point with both axes in [0, limit).
func RandomPoint(r *rand.Rand, limit uint16) Point {
	return Pt(uint16(r.Intn(int(limit))), uint16(r.Intn(int(limit))))
}

// RandomPairs returns n uniform rows with axes in [0, limit) and random
// values. Points may repeat.
func RandomPairs(r *rand.Rand, n int, limit uint16) []Pair {
	rows := make([]Pair, n)
	for i := range rows {
		rows[i] = Pair{Pos: RandomPoint(r, limit), Val: Value(r.Uint32())}
	}
	return rows
}

// RandomDistinctPairs returns n rows with pairwise distinct points, axes in
// [0, limit). Values enumerate the insertion order.
func RandomDistinctPairs(r *rand.Rand, n int, limit uint16) []Pair {
	seen := make(map[Point]struct{}, n)
	rows := make([]Pair, 0, n)
	for len(rows) < n {
		p := RandomPoint(r, limit)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		rows = append(rows, Pair{Pos: p, Val: Value(len(rows))})
	}
	return rows
}
