// Package eval implements the normal-order (call-by-name) reducer that
// drives a Galaxy expression to weak head normal form (spec.md §4.4
// "Evaluator").
//
// Every function here is a direct port of the matching `galaxy_*` function
// in galaxy.cpp (original_source, lines 701-868): TryEval mirrors
// galaxy_try_eval, Eval mirrors galaxy_eval's fixed-point loop, EvalAp/
// EvalAp1/EvalAp2/EvalAp3 mirror galaxy_eval_ap and its three arity-split
// helpers. The function table lookup (atom.Fun/atom.Galaxy of an empty
// slot), the unreachable-framing-kind branch, AsNumber's type check and
// division by zero return errors; every other branch is total over a
// well-formed tree, matching the original's unconditional returns.
package eval

import (
	"fmt"
	"os"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/expr"
	"galaxyvm.dev/galaxy/pkg/table"
)

// tracing reports whether GALAXY_TRACE is set, following the same
// env-var-gated debug-print convention as the teacher's own parsers
// (PARSEC_DEBUG, EXPORT_AST, PRINT_AST), retargeted at reduction steps
// instead of a parse tree (SPEC_FULL.md §1 "Logging").
func tracing() bool {
	return os.Getenv("GALAXY_TRACE") != ""
}

// AsNumber forces n to a value and requires it to be a number, the
// evaluator's sole type check (spec.md §7: "Arithmetic on a non-number
// value"). Division by zero is checked separately, in EvalAp2.
func AsNumber(work *arena.Arena, t *table.Table, n *expr.Node) (int64, error) {
	r, err := Eval(work, t, n)
	if err != nil {
		return 0, err
	}
	if r.Kind != atom.Number {
		return 0, fmt.Errorf("eval: expected number, got %s", r.Kind)
	}
	return r.Number, nil
}

// TryEval performs a single reduction step: it either returns n unchanged
// (already a value, or a still-irreducible application) or returns a
// strictly simpler expression to continue reducing from. Eval drives this
// to a fixed point.
func TryEval(work *arena.Arena, t *table.Table, n *expr.Node) (*expr.Node, error) {
	if n.Evaluated != nil {
		return n.Evaluated, nil
	}

	switch n.Kind {
	case atom.Ap:
		return EvalAp(work, t, n)

	case atom.Cons, atom.Nil, atom.Neg, atom.C, atom.B, atom.S, atom.IsNil,
		atom.Car, atom.Eq, atom.Mul, atom.Add, atom.Lt, atom.Div,
		atom.I, atom.T, atom.F, atom.Cdr, atom.Number:
		return n, nil

	case atom.Fun, atom.Galaxy:
		fn := t.Get(n.Number)
		if fn == nil {
			return nil, fmt.Errorf("eval: %s %d refers to an empty function table slot", n.Kind, n.Number)
		}
		return fn, nil

	default:
		return nil, fmt.Errorf("eval: unreachable atom kind %s", n.Kind)
	}
}

// Eval drives n to weak head normal form, memoizing the result on n so a
// later Eval of the same node is O(1) (spec.md §4.4 "Memoization").
func Eval(work *arena.Arena, t *table.Table, n *expr.Node) (*expr.Node, error) {
	trace := tracing()
	e := n
	for {
		r, err := TryEval(work, t, e)
		if err != nil {
			return nil, err
		}
		if r == e {
			n.Evaluated = r
			return r, nil
		}
		if trace {
			fmt.Fprintf(os.Stderr, "galaxy: %s -> %s\n", e.Kind, r.Kind)
		}
		e = r
	}
}

// EvalAp reduces a single application node by forcing its left spine one
// level at a time, peeling off up to three already-applied arguments
// before dispatching to the arity that matches the head combinator —
// exactly as far as galaxy_eval_ap peels before bottoming out at "return
// input" for an application still missing arguments.
func EvalAp(work *arena.Arena, t *table.Table, input *expr.Node) (*expr.Node, error) {
	fun1, err := Eval(work, t, input.L)
	if err != nil {
		return nil, err
	}
	x := input.R

	switch fun1.Kind {
	case atom.Nil, atom.Neg, atom.I, atom.IsNil, atom.Car, atom.Cdr:
		return EvalAp1(work, t, fun1, x)

	case atom.Ap:
		fun2, err := Eval(work, t, fun1.L)
		if err != nil {
			return nil, err
		}
		y := fun1.R

		switch fun2.Kind {
		case atom.T, atom.F, atom.Add, atom.Mul, atom.Div, atom.Lt, atom.Eq, atom.Cons:
			return EvalAp2(work, t, fun2, x, y)

		case atom.Ap:
			fun3, err := Eval(work, t, fun2.L)
			if err != nil {
				return nil, err
			}
			z := fun2.R

			switch fun3.Kind {
			case atom.S, atom.C, atom.B, atom.Cons:
				return EvalAp3(work, t, fun3, x, y, z)
			}
		}
	}

	return input, nil
}

// EvalAp1 applies a unary combinator/primitive to its single argument x.
func EvalAp1(work *arena.Arena, t *table.Table, fun, x *expr.Node) (*expr.Node, error) {
	switch fun.Kind {
	case atom.Nil:
		return work.Atom(atom.T), nil
	case atom.Neg:
		n, err := AsNumber(work, t, x)
		if err != nil {
			return nil, err
		}
		return work.Num(-n), nil
	case atom.I:
		return x, nil
	case atom.IsNil:
		return work.Ap(x, work.Ap(work.Atom(atom.T), work.Ap(work.Atom(atom.T), work.Atom(atom.F)))), nil
	case atom.Car:
		return work.Ap(x, work.Atom(atom.T)), nil
	case atom.Cdr:
		return work.Ap(x, work.Atom(atom.F)), nil
	default:
		return nil, fmt.Errorf("eval: %s is not a unary application head", fun.Kind)
	}
}

// EvalAp2 applies a binary combinator/primitive to its two arguments,
// innermost-applied-first: `ap(ap(fun, y), x)` calls EvalAp2(fun, x, y).
func EvalAp2(work *arena.Arena, t *table.Table, fun, x, y *expr.Node) (*expr.Node, error) {
	switch fun.Kind {
	case atom.T:
		return y, nil
	case atom.F:
		return x, nil
	case atom.Add:
		yn, err := AsNumber(work, t, y)
		if err != nil {
			return nil, err
		}
		xn, err := AsNumber(work, t, x)
		if err != nil {
			return nil, err
		}
		return work.Num(yn + xn), nil
	case atom.Mul:
		yn, err := AsNumber(work, t, y)
		if err != nil {
			return nil, err
		}
		xn, err := AsNumber(work, t, x)
		if err != nil {
			return nil, err
		}
		return work.Num(yn * xn), nil
	case atom.Div:
		yn, err := AsNumber(work, t, y)
		if err != nil {
			return nil, err
		}
		xn, err := AsNumber(work, t, x)
		if err != nil {
			return nil, err
		}
		if xn == 0 {
			return nil, fmt.Errorf("eval: division by zero")
		}
		return work.Num(yn / xn), nil
	case atom.Lt:
		yn, err := AsNumber(work, t, y)
		if err != nil {
			return nil, err
		}
		xn, err := AsNumber(work, t, x)
		if err != nil {
			return nil, err
		}
		if yn < xn {
			return work.Atom(atom.T), nil
		}
		return work.Atom(atom.F), nil
	case atom.Eq:
		yn, err := AsNumber(work, t, y)
		if err != nil {
			return nil, err
		}
		xn, err := AsNumber(work, t, x)
		if err != nil {
			return nil, err
		}
		if yn == xn {
			return work.Atom(atom.T), nil
		}
		return work.Atom(atom.F), nil
	case atom.Cons:
		ry, err := Eval(work, t, y)
		if err != nil {
			return nil, err
		}
		rx, err := Eval(work, t, x)
		if err != nil {
			return nil, err
		}
		return work.Cons(ry, rx), nil
	default:
		return nil, fmt.Errorf("eval: %s is not a binary application head", fun.Kind)
	}
}

// EvalAp3 applies a ternary combinator to its three arguments (spec.md
// §4.4 "Ternary combinators": S, C, B and the 3-argument form of cons used
// by list pattern matching).
func EvalAp3(work *arena.Arena, t *table.Table, fun, x, y, z *expr.Node) (*expr.Node, error) {
	switch fun.Kind {
	case atom.S:
		return work.Ap(work.Ap(z, x), work.Ap(y, x)), nil
	case atom.C:
		return work.Ap(work.Ap(z, x), y), nil
	case atom.B:
		return work.Ap(z, work.Ap(y, x)), nil
	case atom.Cons:
		return work.Ap(work.Ap(x, z), y), nil
	default:
		return nil, fmt.Errorf("eval: %s is not a ternary application head", fun.Kind)
	}
}
