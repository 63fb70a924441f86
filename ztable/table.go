// Package ztable implements a linear Z-order table: a columnar point index
// sorted by Morton key, with a sampled skip index narrowing lookups and a
// LITMAX/BIGMIN split pruning Z-order gaps in circular range queries.
package ztable

import (
	"fmt"

	"golang.org/x/exp/slices"

	"zindex/errutil"
	"zindex/geom"
	"zindex/morton"
)

// splitThreshold is the bracket width above which a range query splits via
// LITMAX/BIGMIN instead of scanning. Any positive value is correct; this
// one was probed with the package benchmarks.
const splitThreshold = 16

// Table is the linear Z-order index. The three columns always have equal
// length and are sorted by the keys column. A Table must not be mutated
// concurrently; read-only sharing across goroutines is fine.
//
// The zero value is an empty table ready for use.
type Table struct {
	skipstep uint32
	skiplist [skipLen]uint32

	keys      []morton.Key
	positions []geom.Point
	values    []geom.Value
}

func New() *Table {
	return &Table{}
}

// FromPairs builds a table from rows in one bulk sort.
// Panics on rows outside the domain, like Extend.
func FromPairs(rows []geom.Pair) *Table {
	t := New()
	t.Extend(rows)
	return t
}

func (t *Table) Len() int {
	return len(t.keys)
}

func (t *Table) Clear() {
	t.keys = t.keys[:0]
	t.positions = t.positions[:0]
	t.values = t.values[:0]
	t.skiplist = [skipLen]uint32{}
	t.skipstep = 0
}

// Intersects reports whether the point is within the bounds of this table.
func (t *Table) Intersects(p geom.Point) bool {
	return p.InDomain()
}

// Bounds returns the half-open box [min, max) of the table domain.
func (t *Table) Bounds() (geom.Point, geom.Point) {
	max := uint16(geom.CoordMask) + 1
	return geom.Pt(0, 0), geom.Pt(max, max)
}

// Insert adds one row at its sorted position. It shifts all three columns
// and rebuilds the skip index; prefer Extend when inserting many rows.
// A point outside the domain is rejected with an OutOfRangeError carrying
// the point.
func (t *Table) Insert(p geom.Point, v geom.Value) error {
	if !t.Intersects(p) {
		return geom.OutOfRangeError{Point: p}
	}
	key := morton.Encode(p.X, p.Y)
	i, _ := slices.BinarySearch(t.keys, key)
	t.keys = slices.Insert(t.keys, i, key)
	t.positions = slices.Insert(t.positions, i, p)
	t.values = slices.Insert(t.values, i, v)
	t.rebuildSkipList()
	return nil
}

// Extend appends all rows, sorts the columns once and rebuilds the skip
// index. Rows outside the domain are a contract violation and panic;
// validate at the boundary when the input is untrusted.
func (t *Table) Extend(rows []geom.Pair) {
	for _, row := range rows {
		if !t.Intersects(row.Pos) {
			panic(fmt.Sprintf("ztable: extend with %v outside of the domain", row.Pos))
		}
		t.keys = append(t.keys, morton.Encode(row.Pos.X, row.Pos.Y))
		t.positions = append(t.positions, row.Pos)
		t.values = append(t.values, row.Val)
	}
	sortColumns(t.keys, t.positions, t.values)
	t.rebuildSkipList()
}

// GetByID returns a pointer to some value stored under p. With duplicate
// points the choice among them is deterministic for a given table state
// but otherwise unspecified.
func (t *Table) GetByID(p geom.Point) (*geom.Value, bool) {
	if !t.Intersects(p) {
		return nil, false
	}
	i, ok := t.findKey(p)
	if !ok {
		return nil, false
	}
	return &t.values[i], true
}

func (t *Table) ContainsKey(p geom.Point) bool {
	if !t.Intersects(p) {
		return false
	}
	_, ok := t.findKey(p)
	return ok
}

// Delete removes one row stored under p from all three columns and returns
// its value. The second result is false when no row matches.
func (t *Table) Delete(p geom.Point) (geom.Value, bool) {
	if !t.Intersects(p) {
		return 0, false
	}
	i, ok := t.findKey(p)
	if !ok {
		return 0, false
	}
	v := t.values[i]
	t.keys = slices.Delete(t.keys, i, i+1)
	t.positions = slices.Delete(t.positions, i, i+1)
	t.values = slices.Delete(t.values, i, i+1)
	t.rebuildSkipList()
	return v, true
}

// findKey locates p, or the position where its key needs to be inserted to
// keep the columns sorted.
func (t *Table) findKey(p geom.Point) (int, bool) {
	return t.findKeyMorton(morton.Encode(p.X, p.Y))
}

// findKeyMorton narrows the search to one skip bucket and binary-searches
// the remaining window. Adjacent windows overlap by one element so a key
// equal to a skip sample is always found.
func (t *Table) findKeyMorton(key morton.Key) (int, bool) {
	step := int(t.skipstep)
	if step == 0 {
		return slices.BinarySearch(t.keys, key)
	}

	var begin, end int
	if index := t.partition(key); index < skipLen {
		begin = index * step
		end = min(len(t.keys), begin+step+1)
	} else {
		// key is above every sample: search the tail
		errutil.BugOn(len(t.keys) < step+3, "ztable: %d keys with step %d", len(t.keys), step)
		end = len(t.keys)
		begin = end - step - 3
		if m := skipLen * step; m < begin {
			// at small sizes the last bucket starts before the tail window
			begin = m
		}
	}
	i, ok := slices.BinarySearch(t.keys[begin:end], key)
	return begin + i, ok
}

// FindInRange appends every row whose point is strictly closer to center
// than radius to out and returns the extended slice. The result order is
// unspecified. The radius must fit into 15 bits.
func (t *Table) FindInRange(center geom.Point, radius uint32, out []geom.Entry) []geom.Entry {
	errutil.BugOn(radius&uint32(geom.CoordMask) != radius,
		"ztable: radius must fit into 15 bits; %d != %d", radius, radius&uint32(geom.CoordMask))

	from, to := geom.CircleAABB(center, radius)
	kmin := morton.Encode(from.X, from.Y)
	kmax := morton.Encode(to.X, to.Y)
	return t.findInRange(center, radius, kmin, kmax, out)
}

func (t *Table) findInRange(center geom.Point, radius uint32, kmin, kmax morton.Key, out []geom.Entry) []geom.Entry {
	imin, ok := t.findKeyMorton(kmin)
	var pmin geom.Point
	if ok {
		pmin = t.positions[imin]
		// walk back over duplicates of the boundary key so none are cut off
		for imin > 0 && t.keys[imin-1] == kmin {
			imin--
		}
	} else {
		x, y := kmin.Decode()
		pmin = geom.Pt(x, y)
	}

	imax, ok := t.findKeyMorton(kmax)
	var pmax geom.Point
	if ok {
		pmax = t.positions[imax]
		// include the hit itself, and any duplicates after it
		imax++
		for imax < len(t.keys) && t.keys[imax] == kmax {
			imax++
		}
	} else {
		x, y := kmax.Decode()
		pmax = geom.Pt(x, y)
	}

	if imax <= imin {
		return out
	}

	// Speculate whether splitting beats scanning the bracket. A split is
	// only possible while the bracket spans more than one distinct key.
	if imax-imin > splitThreshold && kmin < kmax {
		litmax, bigmin := morton.LitMaxBigMin(kmin, pmin, kmax, pmax)
		out = t.findInRange(center, radius, kmin, litmax, out)
		out = t.findInRange(center, radius, bigmin, kmax, out)
		return out
	}

	for i := imin; i < imax; i++ {
		if t.positions[i].Dist(center) < radius {
			out = append(out, geom.Entry{Pos: t.positions[i], Val: &t.values[i]})
		}
	}
	return out
}
