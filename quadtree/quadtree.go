// Package quadtree implements a bucketed region quadtree over the same
// domain and row types as the Z-order table. It answers the same queries
// and serves as the differential baseline for the linear table.
package quadtree

import (
	"unsafe"

	"zindex/geom"
	"zindex/utils"
)

const cacheLineSize = 64 // bytes

// bucketCap is chosen so a node fits into one cache line:
// two corner points, the children pointer and the bucket length byte leave
// the rest of the line for rows.
const bucketCap = (cacheLineSize -
	2*int(unsafe.Sizeof(geom.Point{})) -
	int(unsafe.Sizeof(uintptr(0))) - // children pointer
	1) / int(unsafe.Sizeof(geom.Pair{}))

// Quadtree is one node of the tree: an inclusive AABB [from, to] with a
// bounded bucket of rows and, once the bucket has overflowed, four children
// covering the quadrants of the box. A node never unsplits.
//
// Rows stay in the bucket of the node that accepted them; splitting routes
// later arrivals to the children. Distributing the bucket on split sounds
// cleaner but cannot terminate when more rows than the bucket holds share
// one cell.
type Quadtree struct {
	from, to geom.Point

	children *[4]Quadtree

	items [bucketCap]geom.Pair
	n     int8
}

// New returns a node bounding the inclusive box [from, to].
func New(from, to geom.Point) *Quadtree {
	q := &Quadtree{}
	q.init(from, to)
	return q
}

// NewRoot returns a node bounding the full coordinate domain.
func NewRoot() *Quadtree {
	return New(geom.Pt(0, 0), geom.Pt(geom.CoordMask, geom.CoordMask))
}

func (q *Quadtree) init(from, to geom.Point) {
	if from.X > to.X || from.Y > to.Y {
		panic("quadtree: inverted bounds")
	}
	q.from = from
	q.to = to
	q.children = nil
	q.n = 0
}

// FromPairs builds a tree over the minimum bounding box of the rows, which
// keeps the tree balanced when the population covers a small part of the
// domain. Empty input falls back to the full domain.
func FromPairs(rows []geom.Pair) *Quadtree {
	if len(rows) == 0 {
		return NewRoot()
	}
	min := geom.Pt(geom.CoordMask, geom.CoordMask)
	max := geom.Pt(0, 0)
	for _, row := range rows {
		p := row.Pos
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	q := New(min, max)
	q.Extend(rows)
	return q
}

// Extend inserts all rows. Rows outside the node box are a contract
// violation and panic, mirroring the bulk path of the Z-order table.
func (q *Quadtree) Extend(rows []geom.Pair) {
	for _, row := range rows {
		if err := q.Insert(row.Pos, row.Val); err != nil {
			panic(err.Error())
		}
	}
}

// Clear empties every bucket. The node structure is kept.
func (q *Quadtree) Clear() {
	q.n = 0
	if q.children != nil {
		for i := range q.children {
			q.children[i].Clear()
		}
	}
}

// Len returns the number of stored rows under this node.
func (q *Quadtree) Len() int {
	n := int(q.n)
	if q.children != nil {
		for i := range q.children {
			n += q.children[i].Len()
		}
	}
	return n
}

// Intersects reports whether the point is within the bounds of this node.
func (q *Quadtree) Intersects(p geom.Point) bool {
	return q.from.X <= p.X && q.from.Y <= p.Y && p.X <= q.to.X && p.Y <= q.to.Y
}

// IntersectsAABB reports whether the node box overlaps the box [from, to],
// by the separating axis test. Coordinates are taken widened so callers may
// pass unclamped query corners.
func (q *Quadtree) IntersectsAABB(fromX, fromY, toX, toY int32) bool {
	if int32(q.to.X) < fromX || int32(q.from.X) > toX {
		return false
	}
	if int32(q.to.Y) < fromY || int32(q.from.Y) > toY {
		return false
	}
	return true
}

// Insert stores one row. A point outside the node box is rejected with an
// OutOfRangeError carrying the point.
func (q *Quadtree) Insert(p geom.Point, v geom.Value) error {
	if !q.Intersects(p) {
		return geom.OutOfRangeError{Point: p}
	}

	if int(q.n) < bucketCap {
		// capacity left in this node, done
		q.items[q.n] = geom.Pair{Pos: p, Val: v}
		q.n++
		return nil
	}

	if q.children == nil {
		q.split()
	}

	for i := range q.children {
		if q.children[i].Insert(p, v) == nil {
			return nil
		}
	}

	// the node box contains the point, so a child box must
	panic("quadtree: no child accepted an in-bounds point")
}

// split partitions the box into four quadrants.
//
//	| child3 | child0 |
//	| ------ | ------ |
//	| child2 | child1 |
func (q *Quadtree) split() {
	fromX, fromY := q.from.X, q.from.Y
	toX, toY := q.to.X, q.to.Y

	radiusX := (toX - fromX) / 2
	radiusY := (toY - fromY) / 2

	q.children = new([4]Quadtree)
	q.children[0].init(geom.Pt(fromX+radiusX, fromY), geom.Pt(toX, fromY+radiusY))
	q.children[1].init(geom.Pt(fromX+radiusX, fromY+radiusY), geom.Pt(toX, toY))
	q.children[2].init(geom.Pt(fromX, fromY+radiusY), geom.Pt(fromX+radiusX, toY))
	q.children[3].init(geom.Pt(fromX, fromY), geom.Pt(fromX+radiusX, fromY+radiusY))
}

// GetByID returns a pointer to some value stored under p.
func (q *Quadtree) GetByID(p geom.Point) (*geom.Value, bool) {
	if !q.Intersects(p) {
		return nil, false
	}
	for i := 0; i < int(q.n); i++ {
		if q.items[i].Pos == p {
			return &q.items[i].Val, true
		}
	}
	if q.children != nil {
		for i := range q.children {
			if v, ok := q.children[i].GetByID(p); ok {
				return v, ok
			}
		}
	}
	return nil, false
}

func (q *Quadtree) ContainsKey(p geom.Point) bool {
	if !q.Intersects(p) {
		return false
	}
	for i := 0; i < int(q.n); i++ {
		if q.items[i].Pos == p {
			return true
		}
	}
	if q.children != nil {
		for i := range q.children {
			if q.children[i].ContainsKey(p) {
				return true
			}
		}
	}
	return false
}

// FindInRange appends every row whose point is strictly closer to center
// than radius to out and returns the extended slice. The result order is
// unspecified.
func (q *Quadtree) FindInRange(center geom.Point, radius uint32, out []geom.Entry) []geom.Entry {
	r := int32(radius)
	cx, cy := int32(center.X), int32(center.Y)
	return q.findInRange(center, radius, cx-r, cy-r, cx+r, cy+r, out)
}

func (q *Quadtree) findInRange(center geom.Point, radius uint32, fromX, fromY, toX, toY int32, out []geom.Entry) []geom.Entry {
	if !q.IntersectsAABB(fromX, fromY, toX, toY) {
		// the node misses the circle's box, so it misses the circle
		return out
	}

	for i := 0; i < int(q.n); i++ {
		if q.items[i].Pos.Dist(center) < radius {
			out = append(out, geom.Entry{Pos: q.items[i].Pos, Val: &q.items[i].Val})
		}
	}

	if q.children != nil {
		for i := range q.children {
			out = q.children[i].findInRange(center, radius, fromX, fromY, toX, toY, out)
		}
	}
	return out
}

// ByteSize returns the resident size of the tree in bytes.
func (q *Quadtree) ByteSize() int {
	size := int(unsafe.Sizeof(*q))
	if q.children != nil {
		for i := range q.children {
			size += q.children[i].ByteSize()
		}
	}
	return size
}

// MemReport wraps ByteSize in a single-node report tree.
func (q *Quadtree) MemReport() utils.MemReport {
	return utils.MemReport{Name: "quadtree", TotalBytes: q.ByteSize()}
}
