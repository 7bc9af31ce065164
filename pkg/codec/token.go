// Package codec implements the three wire formats the interpreter speaks:
// the integer-token expression codec and image loader (spec.md §4.2,
// §6.2), and the human-readable bit-stream codec (spec.md §4.3, §6.3).
//
// The decoders are hand-rolled shift-reduce/state machines rather than
// built on the teacher's `goparsec` parser-combinator library
// (SPEC_FULL.md §2): assembling the shared `cons` spines that both the
// token and bit grammars describe requires a mutable external stack that
// a recursive-descent combinator parser does not give you cheaply, which
// is exactly why galaxy.cpp hand-rolls the equivalent C here too. The
// shift-reduce stack itself reuses the teacher's generic
// pkg/utils.Stack[T], the same scratch-stack type the teacher's own
// assembler and VM translator built their parsers on.
package codec

import (
	"fmt"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/expr"
	"galaxyvm.dev/galaxy/pkg/utils"
)

// reduce collapses completed (right, left, hole) triples on top of stack
// into a single ap(left, right), repeating until no more triples are ready.
// A nil entry marks a "hole" reserved by an ap token awaiting its two
// operands (spec.md §4.2 "Expression-stream decode": "a two-element
// sentinel prefix allows uniform reduction").
func reduce(a *arena.Arena, stack *utils.Stack[*expr.Node]) {
	for stack.Count() >= 3 {
		r, _ := stack.PeekAt(0)
		l, _ := stack.PeekAt(1)
		hole, _ := stack.PeekAt(2)
		if r == nil || l == nil || hole != nil {
			break
		}
		stack.Pop()
		stack.Pop()
		stack.Pop()
		stack.Push(a.Ap(l, r))
	}
}

// DecodeExpr parses a sequence of 64-bit tokens into a single expression
// tree, allocating every node from a. It implements spec.md §4.2
// "Expression-stream decode".
//
// SCAN, DEF and GG are illegal inside an expression body and are fatal
// (reported via a returned error rather than a process abort — see
// SPEC_FULL.md §1 "Errors" for why this module turns galaxy.cpp's
// fatal_error()/abort() into ordinary Go errors that the caller decides
// how to surface).
func DecodeExpr(a *arena.Arena, tokens []int64) (*expr.Node, error) {
	stack := utils.NewStack[*expr.Node](nil, nil) // two-element sentinel prefix
	i := 0
	for i < len(tokens) {
		kind := atom.Kind(tokens[i])
		i++

		switch {
		case kind == atom.Ap:
			stack.Push(nil) // reserve a hole for the two operands to come

		case kind.IsFraming():
			return nil, fmt.Errorf("codec: illegal framing token %s in expression body", kind)

		case kind.HasPayload():
			if i >= len(tokens) {
				return nil, fmt.Errorf("codec: truncated stream, expected payload for %s", kind)
			}
			payload := tokens[i]
			i++
			var node *expr.Node
			if kind == atom.Number {
				node = a.Num(payload)
			} else {
				node = a.FunRef(payload)
			}
			stack.Push(node)
			reduce(a, &stack)

		default:
			// Any other atom — including a bare `galaxy` self-reference,
			// which carries no payload at body scope (see atom.HasPayload).
			stack.Push(a.Atom(kind))
			reduce(a, &stack)
		}
	}

	root, err := stack.Top()
	if err != nil {
		return nil, fmt.Errorf("codec: empty or malformed expression stream")
	}
	// A complete expression leaves exactly the two sentinels plus the root.
	if root == nil || stack.Count() > 3 {
		return nil, fmt.Errorf("codec: expression stream left a dangling application hole")
	}
	if stack.Count() < 3 {
		return nil, fmt.Errorf("codec: expression stream holds more than one expression")
	}
	return root, nil
}

// EncodeExpr serializes an expression tree into its token sequence via a
// pre-order traversal (spec.md §4.2 "Expression-stream encode": "visit
// node, then push right child then left child onto a work stack so left is
// popped first").
//
// galaxy, SCAN, DEF and GG can never appear in an evaluated tree and are
// fatal if encountered.
func EncodeExpr(root *expr.Node) ([]int64, error) {
	var out []int64
	stack := utils.NewStack[*expr.Node](root)

	for stack.Count() > 0 {
		n, _ := stack.Pop()
		if n.R != nil {
			stack.Push(n.R)
		}
		if n.L != nil {
			stack.Push(n.L)
		}

		switch {
		case n.Kind == atom.Galaxy || n.Kind.IsFraming():
			return nil, fmt.Errorf("codec: illegal kind %s in evaluated tree", n.Kind)
		case n.Kind.HasPayload():
			out = append(out, int64(n.Kind), n.Number)
		default:
			out = append(out, int64(n.Kind))
		}
	}

	return out, nil
}
