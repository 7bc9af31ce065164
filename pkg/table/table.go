// Package table holds the fixed-capacity function table parsed out of a
// Galaxy program image (spec.md §3 "Function table").
package table

import (
	"fmt"

	"galaxyvm.dev/galaxy/pkg/expr"
)

// MinCapacity is the smallest function table size the spec requires
// (spec.md §3: "N ≥ 2000").
const MinCapacity = 2000

// Table is a fixed-capacity index → *expr.Node map. Slot 0 conventionally
// holds the entry point (the `galaxy` function); other indices hold
// auxiliary functions referenced by FUN nodes. Unoccupied slots are nil.
type Table struct {
	slots []*expr.Node
}

// New returns an empty table with room for capacity indices, 0..capacity-1.
// Panics if capacity is below MinCapacity.
func New(capacity int) *Table {
	if capacity < MinCapacity {
		panic(fmt.Sprintf("table: capacity %d below minimum %d", capacity, MinCapacity))
	}
	return &Table{slots: make([]*expr.Node, capacity)}
}

// Capacity reports the number of addressable slots.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Set stores e at index idx. Out-of-range idx is fatal — it indicates a
// malformed image (spec.md §7).
func (t *Table) Set(idx int64, e *expr.Node) {
	if idx < 0 || int(idx) >= len(t.slots) {
		panic(fmt.Sprintf("table: index %d out of range [0, %d)", idx, len(t.slots)))
	}
	t.slots[idx] = e
}

// Get returns the expression stored at idx, or nil if the slot is
// unoccupied. Out-of-range idx is fatal, matching Set — a FUN/galaxy
// reference with an index outside the compiled-in table is a malformed
// program, not a runtime condition to recover from.
func (t *Table) Get(idx int64) *expr.Node {
	if idx < 0 || int(idx) >= len(t.slots) {
		panic(fmt.Sprintf("table: index %d out of range [0, %d)", idx, len(t.slots)))
	}
	return t.slots[idx]
}

// Occupied reports every populated index in ascending order, skipping
// index 0 when requested — used by the image writer, which serializes the
// galaxy entry separately from auxiliary functions (spec.md §4.2
// "Image loader").
func (t *Table) Occupied(skipZero bool) []int64 {
	var idxs []int64
	start := 0
	if skipZero {
		start = 1
	}
	for i := start; i < len(t.slots); i++ {
		if t.slots[i] != nil {
			idxs = append(idxs, int64(i))
		}
	}
	return idxs
}
