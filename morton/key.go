// Package morton implements the 32-bit Morton (Z-order) location code for
// 16-bit coordinate pairs, and the LITMAX/BIGMIN range split over it.
package morton

// Key is the Morton code of a point: bit 2i of the key is bit i of x,
// bit 2i+1 is bit i of y. The unsigned ordering of keys is the Z-order.
type Key uint32

// Encode interleaves the bits of x and y into a Key.
func Encode(x, y uint16) Key {
	return Key(spread(uint32(x)) | spread(uint32(y))<<1)
}

// EncodeU32 is Encode for call sites holding widened coordinates. Only the
// low 16 bits of each axis participate.
func EncodeU32(x, y uint32) Key {
	return Encode(uint16(x), uint16(y))
}

// Decode recovers the original coordinate pair of the key.
// When the point is needed next to its key it is cheaper to store it than
// to decode.
func (k Key) Decode() (x, y uint16) {
	return uint16(compact(uint32(k))), uint16(compact(uint32(k) >> 1))
}

// spread inserts a zero before each of the low 16 bits of n.
func spread(n uint32) uint32 {
	// n = ----------------fedcba9876543210 : initially
	// n = --------fedcba98--------76543210 : after (1)
	// n = ----fedc----ba98----7654----3210 : after (2)
	// n = --fe--dc--ba--98--76--54--32--10 : after (3)
	// n = -f-e-d-c-b-a-9-8-7-6-5-4-3-2-1-0 : after (4)
	n = (n ^ (n << 8)) & 0x00ff00ff // (1)
	n = (n ^ (n << 4)) & 0x0f0f0f0f // (2)
	n = (n ^ (n << 2)) & 0x33333333 // (3)
	return (n ^ (n << 1)) & 0x55555555 // (4)
}

// compact drops every other bit of n and collapses the rest.
func compact(n uint32) uint32 {
	n &= 0x55555555
	n = (n ^ (n >> 1)) & 0x33333333
	n = (n ^ (n >> 2)) & 0x0f0f0f0f
	n = (n ^ (n >> 4)) & 0x00ff00ff
	n = (n ^ (n >> 8)) & 0x0000ffff
	return n
}
