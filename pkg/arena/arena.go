// Package arena provides the bump allocator Galaxy expression nodes are
// carved from (spec.md §4.1 "Arena allocator").
//
// Arenas are append-only: nodes are never freed individually, only the
// whole chain is released at once. This mirrors galaxy.cpp's `mem_arena`
// (original_source, line 76) chunk list and its `mem_alloc`/`mem_release`
// pair, ported the way the teacher structures a small standalone data
// structure (pkg/utils/stack.go's generic Stack[T]) rather than as a
// byte-level allocator — in Go the allocated type is always exactly one
// expr.Node, so the arena is specialized to that rather than taking a
// runtime size like the original's `alloc(size)`.
//
// The original selects ROM vs. working arena through a single mutable
// "current arena" global that load_machine swaps around parsing (spec.md
// §4.1, §9 "Two-arena ownership"). This port avoids that global: every
// node constructor is a method on the *Arena* the caller wants to fill, so
// ROM and working allocation are just two distinct *Arena values passed
// around explicitly — the same ownership split, without shared mutable
// state.
package arena

import (
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/expr"
)

// DefaultChunkCapacity approximates galaxy.cpp's 200 KB mem_arena chunk
// (original_source, line 79) in node counts rather than bytes: a Go
// expr.Node is five 8-byte words (40 bytes) on a 64-bit platform, so a
// chunk of 4096 nodes holds about 160 KB.
const DefaultChunkCapacity = 4096

// Arena is a chain of fixed-capacity chunks. The zero value is not usable;
// construct with New.
type Arena struct {
	capacity int
	current  *chunk
}

type chunk struct {
	nodes []expr.Node
	used  int
	prev  *chunk
}

// New returns a fresh, empty arena whose chunks hold up to capacity nodes
// each. Panics if capacity is less than 1 — a chunk must be able to hold at
// least the single object the allocator ever allocates (spec.md §7:
// "Arena allocation failure or exceeding the fixed chunk capacity with a
// single object is a fatal error").
func New(capacity int) *Arena {
	if capacity < 1 {
		panic("arena: chunk capacity must be at least 1")
	}
	return &Arena{capacity: capacity}
}

// alloc returns a pointer to a fresh, zeroed expr.Node carved from the
// arena. Allocation is O(1): it bumps an offset in the current chunk,
// prepending a new chunk on overflow (spec.md §4.1).
func (a *Arena) alloc() *expr.Node {
	if a.current == nil || a.current.used == len(a.current.nodes) {
		a.current = &chunk{nodes: make([]expr.Node, a.capacity), prev: a.current}
	}
	n := &a.current.nodes[a.current.used]
	a.current.used++
	return n
}

// Release drops the entire chunk chain. The Arena is left empty and ready
// for reuse, matching galaxy.cpp's `mem_release` followed by `memory = nullptr`.
func (a *Arena) Release() {
	a.current = nil
}

// Len reports how many nodes have been allocated across all live chunks in
// the chain — used by arena-discipline tests (spec.md §8.1
// "Arena discipline").
func (a *Arena) Len() int {
	n := 0
	for c := a.current; c != nil; c = c.prev {
		n += c.used
	}
	return n
}

// Empty reports whether the arena currently holds no allocations.
func (a *Arena) Empty() bool {
	return a.current == nil
}

// ---------------------------------------------------------------------------
// Node constructors — the only way to obtain a *expr.Node.

// Ap allocates an application node. Both l and r must be non-nil
// (spec.md §3 invariant: "For kind == ap, both l and r are set").
func (a *Arena) Ap(l, r *expr.Node) *expr.Node {
	n := a.alloc()
	n.Kind = atom.Ap
	n.L, n.R = l, r
	return n
}

// Atom allocates a nullary atom node (combinator or primitive with no
// payload, or nil/cons/t/f/.../SCAN/DEF/GG).
func (a *Arena) Atom(kind atom.Kind) *expr.Node {
	n := a.alloc()
	n.Kind = kind
	return n
}

// Num allocates a number literal node.
func (a *Arena) Num(v int64) *expr.Node {
	n := a.alloc()
	n.Kind = atom.Number
	n.Number = v
	return n
}

// FunRef allocates a FUN reference node pointing at function table index idx.
func (a *Arena) FunRef(idx int64) *expr.Node {
	n := a.alloc()
	n.Kind = atom.Fun
	n.Number = idx
	return n
}

// GalaxyRef allocates the entry-point reference node (conventionally table
// index 0).
func (a *Arena) GalaxyRef(idx int64) *expr.Node {
	n := a.alloc()
	n.Kind = atom.Galaxy
	n.Number = idx
	return n
}

// Cons allocates a binary cons application already self-memoed to its own
// weak-head-normal-form, per spec.md §4.4/§9 "Self-memoed cons":
// `ap(ap(cons, l), r)` with `evaluated = self` so later Eval passes
// short-circuit without re-walking it.
func (a *Arena) Cons(l, r *expr.Node) *expr.Node {
	n := a.Ap(a.Ap(a.Atom(atom.Cons), l), r)
	n.Evaluated = n
	return n
}
