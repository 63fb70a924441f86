package ztable

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns a seeded structural hash over the three columns in
// row order. Two tables built from the same row set through any mix of
// Insert and Extend hash equally whenever their duplicate keys tie-break
// the same way; the differential tests use it to compare rebuilt tables
// without walking them.
func (t *Table) Fingerprint(seed uint64) uint64 {
	h := xxh3.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	h.Write(buf[:])

	binary.LittleEndian.PutUint64(buf[:], uint64(len(t.keys)))
	h.Write(buf[:])

	for i := range t.keys {
		binary.LittleEndian.PutUint32(buf[:4], uint32(t.keys[i]))
		h.Write(buf[:4])
		binary.LittleEndian.PutUint16(buf[:2], t.positions[i].X)
		h.Write(buf[:2])
		binary.LittleEndian.PutUint16(buf[:2], t.positions[i].Y)
		h.Write(buf[:2])
		binary.LittleEndian.PutUint32(buf[:4], uint32(t.values[i]))
		h.Write(buf[:4])
	}
	return h.Sum64()
}
