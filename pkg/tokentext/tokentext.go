// Package tokentext implements a human-readable S-expression notation for
// Galaxy expressions, layered on top of pkg/codec's integer-token wire
// format (spec.md §6.4 "Human-readable notation"). It exists for the CLI
// and for tests: nothing in pkg/machine ever requires it, the same way
// the binary token/bit codecs are the only formats the evaluator itself
// speaks.
//
// Grammar (atoms are the same names atom.Kind.String returns):
//
//	expr    := INT | IDENT | '(' expr expr+ ')'
//	IDENT   one of: cons nil car cdr isnil t f add mul div neg eq lt i s c b galaxy
//	a parenthesized form `(f a b c)` desugars left-to-right into
//	nested applications: ap(ap(ap(f, a), b), c)
//	FUN references are written `(FUN 3)`
//
// Parsing is built with the teacher's parser-combinator library
// (github.com/prataprc/goparsec), following the same
// Parser/FromSource/FromAST staging the teacher's own assembler and VM
// translator parsers used: FromSource turns text into a generic
// pc.Queryable AST, FromAST walks that AST into a *expr.Node allocated
// from a caller-supplied arena.
package tokentext

import (
	"fmt"
	"io"
	"os"
	"strconv"

	pc "github.com/prataprc/goparsec"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/expr"
)

var ast = pc.NewAST("galaxy_expr", 0)

var (
	pExpr = ast.OrdChoice("expr", nil, pApplication, pFunRef, pIdent, pSignedInt)

	pApplication = ast.And("application", nil,
		pc.Atom("(", "("),
		pExpr,
		ast.Kleene("rest", nil, pExpr),
		pc.Atom(")", ")"),
	)

	pFunRef = ast.And("fun-ref", nil,
		pc.Atom("(", "("), pc.Atom("FUN", "FUN"), pc.Int(), pc.Atom(")", ")"),
	)

	pIdent = ast.OrdChoice("ident", nil,
		pc.Atom("cons", "cons"), pc.Atom("nil", "nil"),
		pc.Atom("isnil", "isnil"), pc.Atom("car", "car"), pc.Atom("cdr", "cdr"),
		pc.Atom("galaxy", "galaxy"),
		pc.Atom("add", "add"), pc.Atom("mul", "mul"), pc.Atom("div", "div"),
		pc.Atom("neg", "neg"), pc.Atom("eq", "eq"), pc.Atom("lt", "lt"),
		pc.Atom("t", "t"), pc.Atom("f", "f"), pc.Atom("i", "i"),
		pc.Atom("s", "s"), pc.Atom("c", "c"), pc.Atom("b", "b"),
	)

	pSignedInt = ast.OrdChoice("number", nil,
		ast.And("neg-number", nil, pc.Atom("-", "-"), pc.Int()),
		pc.Int(),
	)
)

var identKinds = map[string]atom.Kind{
	"cons": atom.Cons, "nil": atom.Nil, "isnil": atom.IsNil,
	"car": atom.Car, "cdr": atom.Cdr, "galaxy": atom.Galaxy,
	"add": atom.Add, "mul": atom.Mul, "div": atom.Div, "neg": atom.Neg,
	"eq": atom.Eq, "lt": atom.Lt, "t": atom.T, "f": atom.F,
	"i": atom.I, "s": atom.S, "c": atom.C, "b": atom.B,
}

// Parser reads the `'0'/'1'`-free S-expression notation described in the
// package doc and produces *expr.Node trees allocated from a single arena.
//
// As with the teacher's own Parser types, it reads the same goparsec
// feature-flag env vars (PARSEC_DEBUG, EXPORT_AST, PRINT_AST) for
// debugging a parse.
type Parser struct {
	reader io.Reader
	arena  *arena.Arena
}

// NewParser returns a Parser that reads source text from r and allocates
// every node it builds from a.
func NewParser(r io.Reader, a *arena.Arena) Parser {
	return Parser{reader: r, arena: a}
}

// Parse reads all of p's source and returns the single expression it denotes.
func (p *Parser) Parse() (*expr.Node, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("tokentext: cannot read input: %w", err)
	}

	root, ok := p.FromSource(content)
	if !ok {
		return nil, fmt.Errorf("tokentext: failed to parse expression")
	}

	return p.FromAST(root)
}

// FromSource scans source into a traversable AST using the package's
// parser combinators.
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	root, _ := ast.Parsewith(pExpr, pc.NewScanner(source))

	if os.Getenv("EXPORT_AST") != "" {
		file, err := os.Create(fmt.Sprintf("%s/debug.ast.dot", os.Getenv("DEBUG_FOLDER")))
		if err == nil {
			defer file.Close()
			file.Write([]byte(ast.Dotstring("\"Galaxy expr AST\"")))
		}
	}
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}

	// TODO: as with the teacher's own parsers, success is assumed rather
	// than verified against reaching EOF.
	return root, root != nil
}

// FromAST walks a parsed AST node into a *expr.Node, allocating from p's arena.
func (p *Parser) FromAST(node pc.Queryable) (*expr.Node, error) {
	switch node.GetName() {
	case "number":
		children := node.GetChildren()
		if len(children) != 1 {
			return nil, fmt.Errorf("tokentext: malformed number node")
		}
		return p.FromAST(children[0])

	case "neg-number":
		children := node.GetChildren()
		if len(children) != 2 {
			return nil, fmt.Errorf("tokentext: malformed negative number node")
		}
		inner, err := p.FromAST(children[1])
		if err != nil {
			return nil, err
		}
		return p.arena.Num(-inner.Number), nil

	case "INT":
		v, err := strconv.ParseInt(node.GetValue(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tokentext: bad integer literal %q: %w", node.GetValue(), err)
		}
		return p.arena.Num(v), nil

	case "ident":
		children := node.GetChildren()
		if len(children) != 1 {
			return nil, fmt.Errorf("tokentext: malformed identifier node")
		}
		name := children[0].GetName()
		kind, ok := identKinds[name]
		if !ok {
			return nil, fmt.Errorf("tokentext: unknown identifier %q", name)
		}
		return p.arena.Atom(kind), nil

	case "fun-ref":
		children := node.GetChildren()
		if len(children) != 4 {
			return nil, fmt.Errorf("tokentext: malformed FUN reference")
		}
		idx, err := strconv.ParseInt(children[2].GetValue(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tokentext: bad FUN index %q: %w", children[2].GetValue(), err)
		}
		return p.arena.FunRef(idx), nil

	case "application":
		children := node.GetChildren()
		if len(children) < 4 {
			return nil, fmt.Errorf("tokentext: application requires at least two sub-expressions")
		}
		// children: "(" expr rest... ")"
		exprNodes := children[1 : len(children)-1]

		result, err := p.FromAST(exprNodes[0])
		if err != nil {
			return nil, err
		}
		for _, rest := range exprNodes[1:] {
			arg, err := p.FromAST(rest)
			if err != nil {
				return nil, err
			}
			result = p.arena.Ap(result, arg)
		}
		return result, nil

	case "expr":
		children := node.GetChildren()
		if len(children) != 1 {
			return nil, fmt.Errorf("tokentext: malformed expr node")
		}
		return p.FromAST(children[0])

	default:
		return nil, fmt.Errorf("tokentext: unrecognized node %q", node.GetName())
	}
}

// Render renders e back into the textual notation FromAST parses,
// inverting the application-flattening Parse performs: a left-leaning
// chain of applications `ap(ap(ap(f,a),b),c)` renders as `(f a b c)`
// rather than the fully-parenthesized `(((f a) b) c)`.
func Render(e *expr.Node) string {
	if e.Kind == atom.Ap {
		var args []*expr.Node
		head := e
		for head.Kind == atom.Ap {
			args = append([]*expr.Node{head.R}, args...)
			head = head.L
		}
		out := "(" + Render(head)
		for _, a := range args {
			out += " " + Render(a)
		}
		return out + ")"
	}
	if e.Kind == atom.Fun {
		return fmt.Sprintf("(FUN %d)", e.Number)
	}
	if e.Kind == atom.Number {
		return strconv.FormatInt(e.Number, 10)
	}
	return e.Kind.String()
}
