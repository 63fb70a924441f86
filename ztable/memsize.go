package ztable

import (
	"unsafe"

	"zindex/utils"
)

// ByteSize returns the resident size of the table in bytes: the three
// backing arrays at capacity plus the fixed header. Temporary allocations
// of Extend are excluded.
func (t *Table) ByteSize() int {
	size := int(unsafe.Sizeof(*t))
	size += cap(t.keys) * int(unsafe.Sizeof(t.keys[0]))
	size += cap(t.positions) * int(unsafe.Sizeof(t.positions[0]))
	size += cap(t.values) * int(unsafe.Sizeof(t.values[0]))
	return size
}

// MemReport breaks ByteSize down per column.
func (t *Table) MemReport() utils.MemReport {
	keys := cap(t.keys) * int(unsafe.Sizeof(t.keys[0]))
	positions := cap(t.positions) * int(unsafe.Sizeof(t.positions[0]))
	values := cap(t.values) * int(unsafe.Sizeof(t.values[0]))
	return utils.MemReport{
		Name:       "ztable",
		TotalBytes: t.ByteSize(),
		Children: []utils.MemReport{
			{Name: "keys", TotalBytes: keys},
			{Name: "positions", TotalBytes: positions},
			{Name: "values", TotalBytes: values},
		},
	}
}
