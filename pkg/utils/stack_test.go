package utils_test

import (
	"testing"

	"galaxyvm.dev/galaxy/pkg/utils"
)

func TestPeekAt(t *testing.T) {
	stack := utils.NewStack[int](1, 2, 3) // top is 3

	test := func(depth, expected int) {
		got, err := stack.PeekAt(depth)
		if err != nil {
			t.Fatalf("PeekAt(%d): unexpected error: %s", depth, err)
		}
		if got != expected {
			t.Fatalf("PeekAt(%d) = %d, want %d", depth, got, expected)
		}
	}

	test(0, 3)
	test(1, 2)
	test(2, 1)

	if _, err := stack.PeekAt(3); err == nil {
		t.Fatal("expected PeekAt beyond stack depth to return an error")
	}
	if _, err := stack.PeekAt(-1); err == nil {
		t.Fatal("expected PeekAt with a negative depth to return an error")
	}
}

func TestPeekAtDoesNotMutate(t *testing.T) {
	stack := utils.NewStack[string]("a", "b")
	before := stack.Count()

	if _, err := stack.PeekAt(0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if stack.Count() != before {
		t.Fatal("expected PeekAt to leave the stack size unchanged")
	}

	top, _ := stack.Top()
	if top != "b" {
		t.Fatalf("expected Top() to still be \"b\" after PeekAt, got %q", top)
	}
}
