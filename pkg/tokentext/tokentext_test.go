package tokentext_test

import (
	"strings"
	"testing"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/tokentext"
)

func TestParseAtoms(t *testing.T) {
	a := arena.New(16)

	test := func(name, source string, wantKind atom.Kind, wantNumber int64) {
		t.Run(name, func(t *testing.T) {
			p := tokentext.NewParser(strings.NewReader(source), a)
			n, err := p.Parse()
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if n.Kind != wantKind {
				t.Fatalf("kind = %s, want %s", n.Kind, wantKind)
			}
			if n.Number != wantNumber {
				t.Fatalf("number = %d, want %d", n.Number, wantNumber)
			}
		})
	}

	test("positive int", "42", atom.Number, 42)
	test("negative int", "-7", atom.Number, -7)
	test("nil", "nil", atom.Nil, 0)
	test("galaxy", "galaxy", atom.Galaxy, 0)
	test("combinator s", "s", atom.S, 0)
	test("fun reference", "(FUN 12)", atom.Fun, 12)
}

func TestParseApplicationDesugarsLeftToRight(t *testing.T) {
	a := arena.New(16)
	p := tokentext.NewParser(strings.NewReader("(add 3 4)"), a)

	n, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// (f a b) desugars to ap(ap(f,a),b): outer right child is the last
	// argument, outer left child re-nests the head and first argument.
	if n.Kind != atom.Ap || n.R.Number != 4 {
		t.Fatalf("expected outer ap with right child 4, got %+v", n)
	}
	if n.L.Kind != atom.Ap || n.L.L.Kind != atom.Add || n.L.R.Number != 3 {
		t.Fatalf("expected inner ap(add, 3), got %+v", n.L)
	}
}

func TestParseRejectsUnknownIdentifier(t *testing.T) {
	a := arena.New(16)
	p := tokentext.NewParser(strings.NewReader("bogus"), a)
	if _, err := p.Parse(); err == nil {
		t.Fatal("expected an error parsing an unknown identifier")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	a := arena.New(16)

	tests := []string{
		"42",
		"-7",
		"nil",
		"(add 3 4)",
		"(s add i 5)",
		"(FUN 3)",
	}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			p := tokentext.NewParser(strings.NewReader(source), a)
			n, err := p.Parse()
			if err != nil {
				t.Fatalf("parse %q: %s", source, err)
			}
			if got := tokentext.Render(n); got != source {
				t.Fatalf("Render(Parse(%q)) = %q, want %q", source, got, source)
			}
		})
	}
}
