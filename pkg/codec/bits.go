package codec

import (
	"fmt"
	"strings"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/expr"
)

// BitDecode parses a modulated `'0'/'1'` text string into a value tree of
// nil, cons pairs and numbers — the alternate textual notation used for
// interop and tests (spec.md §4.3 "Bit-stream codec", §6.3).
//
// Unlike DecodeExpr, BitDecode's grammar only ever produces nil, cons and
// number nodes: combinators and primitives have no bit encoding.
//
// This is a direct port of galaxy.cpp's `decode()` (original_source, line
// 199), a 5-state machine read two tag bits at a time:
//
//	"00" = nil
//	"11" = open a cons hole (closed once its two operands are decoded)
//	"01" = non-negative number, followed by a unary nibble-count prefix
//	       and that many nibbles of magnitude, MSB first
//	"10" = negative number, same body as "01"
//
// States 0/1/2 read the two tag bits; state 3 counts the unary nibble
// prefix; state 4 reads the magnitude bits.
func BitDecode(a *arena.Arena, text string) (*expr.Node, error) {
	const (
		stateTag1 = iota
		stateTag0
		stateTag2
		stateLength
		stateBits
	)

	stack := newConsStack(a)
	state := stateTag1
	var neg bool
	var unaryBits int
	var bitsRemaining int
	var number int64

	for _, c := range text {
		if c != '0' && c != '1' {
			return nil, fmt.Errorf("codec: invalid bit character %q", c)
		}

		switch state {
		case stateTag1:
			if c == '0' {
				state = stateTag0
			} else {
				state = stateTag2
			}

		case stateTag0: // first tag bit was '0'
			if c == '0' {
				state = stateTag1
				stack.pushValue(a.Atom(atom.Nil))
			} else {
				state = stateLength
				neg, unaryBits = false, 0
			}

		case stateTag2: // first tag bit was '1'
			if c == '0' {
				state = stateLength
				neg, unaryBits = true, 0
			} else {
				state = stateTag1
				stack.pushHole()
			}

		case stateLength:
			if c == '0' {
				if unaryBits == 0 {
					state = stateTag1
					stack.pushValue(a.Num(0))
				} else {
					state = stateBits
					bitsRemaining = unaryBits * 4
					number = 0
				}
			} else {
				unaryBits++
			}

		case stateBits:
			number <<= 1
			if c == '1' {
				number |= 1
			}
			bitsRemaining--
			if bitsRemaining == 0 {
				state = stateTag1
				if neg {
					stack.pushValue(a.Num(-number))
				} else {
					stack.pushValue(a.Num(number))
				}
			}
		}
	}

	return stack.result()
}

// consStack is the two-sentinel shift-reduce stack BitDecode folds nil,
// hole and number tokens through, collapsing completed (r, l, hole)
// triples into `ap(ap(cons, l), r)` — ported from galaxy.cpp's
// `decoder_reduce` (original_source, line 170), textually identical to
// `machine_decode_reduce` except for that one construction.
type consStack struct {
	a    *arena.Arena
	vals []*expr.Node // nil entries are unfilled holes
}

func newConsStack(a *arena.Arena) *consStack {
	return &consStack{a: a, vals: []*expr.Node{nil, nil}}
}

func (s *consStack) pushHole() { s.vals = append(s.vals, nil) }

func (s *consStack) pushValue(n *expr.Node) {
	s.vals = append(s.vals, n)
	s.reduce()
}

func (s *consStack) reduce() {
	for len(s.vals) >= 3 {
		n := len(s.vals)
		r, l, hole := s.vals[n-1], s.vals[n-2], s.vals[n-3]
		if r == nil || l == nil || hole != nil {
			return
		}
		s.vals = s.vals[:n-3]
		s.vals = append(s.vals, s.a.Cons(l, r))
	}
}

func (s *consStack) result() (*expr.Node, error) {
	if len(s.vals) == 0 {
		return nil, fmt.Errorf("codec: empty bit stream")
	}
	top := s.vals[len(s.vals)-1]
	if top == nil {
		return nil, fmt.Errorf("codec: bit stream left a dangling cons hole")
	}
	return top, nil
}

// nibbleCount returns how many 4-bit groups are needed to hold the
// non-negative magnitude n, mirroring galaxy.cpp's `number_nibs`
// (original_source, line 185). The original calls this helper with the
// raw signed value, whose two's-complement bit pattern defeats the
// leading-zero scan for any negative input (every negative i64 has its top
// bit set) and always yields the maximum 16 nibbles; this port instead
// takes the caller-supplied absolute value, so negative numbers modulate
// to the same minimal nibble count as their positive magnitude — the
// encoding BitDecode above expects back out.
func nibbleCount(n int64) int {
	bits := 16
	mask := uint64(0xf000000000000000)
	if uint64(n)&0xffffffff00000000 == 0 {
		bits = 8
		mask = 0xf0000000
	}
	for mask != 0 && uint64(n)&mask == 0 {
		mask >>= 4
		bits--
	}
	return bits
}

// BitEncode serializes a value tree of nil/cons/number nodes into its
// modulated `'0'/'1'` text form, the inverse of BitDecode. It ports
// galaxy.cpp's `encode()` (original_source, line 287): a pre-order walk
// that, for every node, first emits the cons/nil/number tag bits, then —
// for numbers only — a sign bit, a unary nibble-count prefix, and the
// magnitude's bits MSB first.
//
// Encoding a node that is not nil, cons or number is fatal: only fully
// evaluated list/number values have a bit-stream form (spec.md §4.3).
func BitEncode(root *expr.Node) (string, error) {
	var b strings.Builder
	stack := []*expr.Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.R != nil {
			stack = append(stack, n.R)
		}
		if n.L != nil {
			stack = append(stack, n.L)
		}

		switch {
		case n.Kind == atom.Ap && n.L != nil && n.L.Kind == atom.Ap && n.L.L != nil && n.L.L.Kind == atom.Cons:
			b.WriteString("11")
		case n.Kind == atom.Ap, n.Kind == atom.Cons:
			// the two inner applications of a cons spine (ap(cons,l) and
			// the cons atom itself) carry no tag bits of their own — only
			// the outer ap(ap(cons,_),_) shape matched above does.
		case n.Kind == atom.Nil:
			b.WriteString("00")
		case n.Kind == atom.Number:
			if err := encodeNumber(&b, n.Number); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("codec: kind %s has no bit-stream encoding", n.Kind)
		}
	}

	return b.String(), nil
}

func encodeNumber(b *strings.Builder, v int64) error {
	if v < 0 {
		b.WriteString("10")
	} else {
		b.WriteString("01")
	}

	mag := v
	if mag < 0 {
		mag = -mag
	}
	nibs := nibbleCount(mag)
	for i := 0; i < nibs; i++ {
		b.WriteByte('1')
	}
	b.WriteByte('0')
	if nibs == 0 {
		return nil
	}

	bits := uint64(8) << ((nibs - 1) * 4)
	m := uint64(mag)
	for bits != 0 {
		if m&bits == 0 {
			b.WriteByte('0')
		} else {
			b.WriteByte('1')
		}
		bits >>= 1
	}
	return nil
}
