// Package geom holds the value types shared by the spatial indexes: grid
// points, opaque row values and the result rows of range queries.
package geom

import (
	"fmt"
	"math"
)

// CoordMask is the set of legal coordinate bits. Coordinates are at most
// 15 bits long non-negative integers; having the 16th bit set would
// overflow into the sign of the 32-bit intermediates used by the range
// queries and the Morton interleave.
const CoordMask uint16 = 0x7fff

// Point is a location on the grid. Both axes live in [0, CoordMask].
type Point struct {
	X, Y uint16
}

func Pt(x, y uint16) Point {
	return Point{X: x, Y: y}
}

// InDomain reports whether both coordinates fit into 15 bits.
func (p Point) InDomain() bool {
	return p.X&CoordMask == p.X && p.Y&CoordMask == p.Y
}

// Dist returns the truncated Euclidean distance between p and q.
func (p Point) Dist(q Point) uint32 {
	dx := int32(p.X) - int32(q.X)
	dy := int32(p.Y) - int32(q.Y)
	return uint32(math.Sqrt(float64(dx*dx + dy*dy)))
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Value is the opaque payload stored next to each point. The indexes place
// no constraint on its content.
type Value uint32

// Pair is one input row of an index: a point and its payload.
type Pair struct {
	Pos Point
	Val Value
}

// Entry is one output row of a range query. Val points at the value owned
// by the queried index and stays valid until the next mutation.
type Entry struct {
	Pos Point
	Val *Value
}

// OutOfRangeError reports an insertion attempt outside the index domain.
// The offending point is carried unchanged.
type OutOfRangeError struct {
	Point Point
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("point %v is outside of the index domain", e.Point)
}

// CircleAABB returns the axis-aligned bounding box of the circle around c,
// saturated at the domain edges. Clamping the high corner loses nothing
// because no stored point lies beyond CoordMask, and it keeps the encoded
// corner keys clear of the sign bit of 32-bit comparisons.
func CircleAABB(c Point, radius uint32) (from, to Point) {
	r := int32(radius)
	x, y := int32(c.X), int32(c.Y)
	from = Pt(uint16(max(x-r, 0)), uint16(max(y-r, 0)))
	to = Pt(uint16(min(x+r, int32(CoordMask))), uint16(min(y+r, int32(CoordMask))))
	return from, to
}
