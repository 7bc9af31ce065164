// Package expr defines the expression node shared by the arena, codec and
// evaluator packages (spec.md §3 "Expression node").
package expr

import "galaxyvm.dev/galaxy/pkg/atom"

// Node is a single Galaxy expression tree node.
//
// Invariants (spec.md §3):
//   - Kind == atom.Ap implies both L and R are set; every other kind leaves
//     both nil.
//   - Number is only meaningful for atom.Number, atom.Fun and atom.Galaxy.
//   - Evaluated, once set to some R, is never reassigned to a different
//     value — evaluating the same node always yields R thereafter.
//
// Nodes are never constructed directly outside of an arena: see
// pkg/arena, whose alloc-backed constructors are the only way to obtain a
// *Node with its invariants already established.
type Node struct {
	Kind      atom.Kind
	L, R      *Node
	Number    int64
	Evaluated *Node
}

// IsValue reports whether n is already in weak head normal form by virtue
// of self-memoization (used by callers that want to avoid invoking the
// evaluator on an expression known to already be a value, e.g. Equal).
func (n *Node) IsValue() bool {
	return n.Evaluated == n
}

// Equal is a structural-equality walk over two expression trees.
//
// Ported from galaxy.cpp's `equal()` (original_source, line 651): present
// in the source but only ever consulted from a commented-out branch of the
// fixed-point loop. This module keeps that same posture — Equal is never
// called from pkg/eval's quiescence check (see SPEC_FULL.md §5); it exists
// for tests and for machine.VerifyRoundTrip.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case atom.Number, atom.Fun, atom.Galaxy:
		if a.Number != b.Number {
			return false
		}
	}
	if a.Kind == atom.Ap {
		return Equal(a.L, b.L) && Equal(a.R, b.R)
	}
	return true
}
