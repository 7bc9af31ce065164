package codec_test

import (
	"testing"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/codec"
)

func TestBitDecodeNil(t *testing.T) {
	a := arena.New(16)
	got, err := codec.BitDecode(a, "00")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.Kind != atom.Nil {
		t.Fatalf("expected nil, got %s", got.Kind)
	}
}

func TestBitDecodeZero(t *testing.T) {
	a := arena.New(16)
	got, err := codec.BitDecode(a, "010")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.Kind != atom.Number || got.Number != 0 {
		t.Fatalf("expected number 0, got %s(%d)", got.Kind, got.Number)
	}
}

func TestBitEncodeNumberRoundTrip(t *testing.T) {
	a := arena.New(16)

	test := func(v int64) {
		text, err := codec.BitEncode(a.Num(v))
		if err != nil {
			t.Fatalf("encode %d: unexpected error: %s", v, err)
		}
		back, err := codec.BitDecode(a, text)
		if err != nil {
			t.Fatalf("decode %d round trip: unexpected error: %s", v, err)
		}
		if back.Kind != atom.Number || back.Number != v {
			t.Fatalf("round trip of %d produced %s(%d)", v, back.Kind, back.Number)
		}
	}

	test(0)
	test(1)
	test(-1)
	test(16)
	test(-16)
	test(255)
	test(1337)
	test(-1337)
}

func TestBitEncodeConsRoundTrip(t *testing.T) {
	a := arena.New(16)

	pair := a.Cons(a.Num(1), a.Num(2))
	text, err := codec.BitEncode(pair)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	back, err := codec.BitDecode(a, text)
	if err != nil {
		t.Fatalf("unexpected error decoding: %s", err)
	}
	if back.Kind != atom.Ap || back.L.Kind != atom.Ap || back.L.L.Kind != atom.Cons {
		t.Fatal("expected a decoded cons spine")
	}
	if back.L.R.Number != 1 || back.R.Number != 2 {
		t.Fatalf("expected cons(1, 2), got cons(%d, %d)", back.L.R.Number, back.R.Number)
	}
}

func TestBitEncodeRejectsNonValueKinds(t *testing.T) {
	a := arena.New(16)
	if _, err := codec.BitEncode(a.Atom(atom.I)); err == nil {
		t.Fatal("expected encoding a combinator to be rejected")
	}
}

func TestBitDecodeRejectsInvalidCharacters(t *testing.T) {
	a := arena.New(16)
	if _, err := codec.BitDecode(a, "002"); err == nil {
		t.Fatal("expected a non-0/1 character to be rejected")
	}
}

func TestBitDecodeNestedList(t *testing.T) {
	a := arena.New(16)

	// [1, 2] as a cons-terminated list: cons(1, cons(2, nil))
	inner := a.Cons(a.Num(2), a.Atom(atom.Nil))
	list := a.Cons(a.Num(1), inner)

	text, err := codec.BitEncode(list)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	back, err := codec.BitDecode(a, text)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if back.L.R.Number != 1 {
		t.Fatal("expected first element 1")
	}
	if back.R.L.R.Number != 2 {
		t.Fatal("expected second element 2")
	}
	if back.R.R.Kind != atom.Nil {
		t.Fatal("expected list terminated by nil")
	}
}
