package arena_test

import (
	"testing"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
)

func TestAllocation(t *testing.T) {
	a := arena.New(4)

	if !a.Empty() || a.Len() != 0 {
		t.Fatalf("expected a fresh arena to be empty, got Len()=%d", a.Len())
	}

	n1 := a.Num(42)
	n2 := a.Atom(atom.T)
	ap := a.Ap(n1, n2)

	if a.Len() != 3 {
		t.Fatalf("expected Len()=3 after 3 allocations, got %d", a.Len())
	}
	if ap.L != n1 || ap.R != n2 {
		t.Fatal("ap node did not retain its operands")
	}
	if n1.Kind != atom.Number || n1.Number != 42 {
		t.Fatal("Num did not set kind/value correctly")
	}
}

func TestChunkOverflow(t *testing.T) {
	a := arena.New(2) // force multiple chunks well before 10 allocations
	for i := 0; i < 10; i++ {
		a.Num(int64(i))
	}
	if a.Len() != 10 {
		t.Fatalf("expected Len()=10 across chunk boundaries, got %d", a.Len())
	}
}

func TestRelease(t *testing.T) {
	a := arena.New(8)
	a.Num(1)
	a.Num(2)
	if a.Empty() {
		t.Fatal("expected arena to be non-empty before Release")
	}

	a.Release()
	if !a.Empty() || a.Len() != 0 {
		t.Fatal("expected Release to empty the arena")
	}

	// arena should be reusable after Release
	n := a.Num(7)
	if a.Len() != 1 || n.Number != 7 {
		t.Fatal("expected arena to be reusable after Release")
	}
}

func TestConsSelfMemoizes(t *testing.T) {
	a := arena.New(8)
	pair := a.Cons(a.Num(1), a.Num(2))

	if pair.Evaluated != pair {
		t.Fatal("expected Cons to self-memoize: Evaluated should point back to itself")
	}
	if pair.Kind != atom.Ap || pair.L.Kind != atom.Ap || pair.L.L.Kind != atom.Cons {
		t.Fatal("expected Cons to build ap(ap(cons, l), r)")
	}
}
