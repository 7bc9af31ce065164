// Package atom defines the closed set of tags that identify every Galaxy
// expression node, along with the payload arity each tag carries on the
// wire (spec.md §3 "Atom kinds", §6.2 "Token stream format").
package atom

// Kind tags a single expression node. It is the module's own numbering:
// the real ICFPC2020 wire values live in a generated header that is not
// part of the retrieval pack (see SPEC_FULL.md §3.1), so these values only
// need to be internally consistent between this module's codec, image
// loader and evaluator.
type Kind int64

const (
	// Structural
	Ap     Kind = iota // application
	Number             // 64-bit signed payload
	Fun                // named function reference, payload = table index
	Galaxy             // entry-point reference, payload = table index (conventionally 0)

	// List primitives
	Nil
	Cons
	Car
	Cdr
	IsNil

	// Boolean / selection
	T // K / true
	F // select-second / false

	// Arithmetic
	Add
	Mul
	Div
	Neg
	Eq
	Lt

	// Combinators
	I
	S
	C
	B

	// Image framing tokens — legal only in image streams, never in an
	// evaluated tree (spec.md §3 "Image framing tokens").
	Scan
	Def
	GG
)

// HasPayload reports whether a token of this kind is followed on the wire
// by one extra 64-bit payload word when it appears inside an expression
// body (spec.md §4.2: "Numeric/FUN tokens read one extra payload word").
//
// Galaxy is deliberately excluded here even though a Node of kind Galaxy
// does carry a Number (the entry index, conventionally 0): within an
// expression body a bare `galaxy` token is a self-reference with no
// payload on the wire, and only gets an explicit index when it appears in
// the image envelope's header position (`SCAN <len> galaxy <idx> DEF …`),
// which pkg/codec's image loader parses separately from body decoding.
func (k Kind) HasPayload() bool {
	switch k {
	case Number, Fun:
		return true
	default:
		return false
	}
}

// IsFraming reports whether k is one of the image-only framing tokens that
// must never appear in an evaluated expression tree.
func (k Kind) IsFraming() bool {
	switch k {
	case Scan, Def, GG:
		return true
	default:
		return false
	}
}

// IsAtomic reports whether k stands alone as a zero-argument value (as
// opposed to Ap, which always has two children).
func (k Kind) IsAtomic() bool {
	return k != Ap
}

var names = [...]string{
	Ap: "ap", Number: "number", Fun: "FUN", Galaxy: "galaxy",
	Nil: "nil", Cons: "cons", Car: "car", Cdr: "cdr", IsNil: "isnil",
	T: "t", F: "f",
	Add: "add", Mul: "mul", Div: "div", Neg: "neg", Eq: "eq", Lt: "lt",
	I: "i", S: "s", C: "c", B: "b",
	Scan: "SCAN", Def: "DEF", GG: "GG",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return "unknown"
}
