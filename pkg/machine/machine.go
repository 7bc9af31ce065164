// Package machine exposes the Host API a caller actually drives: load a
// program image once, then evaluate requests against it (spec.md §4.5
// "Host API", §6.1 "LoadMachine/Evaluate").
//
// A Machine is single-threaded and non-reentrant by construction: every
// public method takes the same discipline galaxy.cpp's global
// load_machine/evaluate pair enforces by convention (original_source,
// lines 878-917) — Evaluate releases the working arena before it returns,
// together with any nodes a caller built in it through Working() before
// the call. Callers that need concurrent evaluation should
// run one Machine per goroutine rather than share one, the same way the
// original never meant load_machine/evaluate to be called from two
// threads against the same globals.
package machine

import (
	"fmt"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/codec"
	"galaxyvm.dev/galaxy/pkg/eval"
	"galaxyvm.dev/galaxy/pkg/expr"
	"galaxyvm.dev/galaxy/pkg/table"
)

// Machine owns a ROM arena and function table loaded from a program image,
// plus a working arena it reuses (and releases) across Evaluate calls.
type Machine struct {
	rom     *arena.Arena
	working *arena.Arena
	table   *table.Table
	galaxy  *expr.Node
}

// New returns a Machine with an empty table and no loaded image. Call
// LoadMachine before Evaluate.
func New(tableCapacity int) *Machine {
	return &Machine{
		rom:     arena.New(arena.DefaultChunkCapacity),
		working: arena.New(arena.DefaultChunkCapacity),
		table:   table.New(tableCapacity),
	}
}

// LoadMachine parses image into a fresh ROM arena and function table, and
// replaces whatever was previously loaded once the new image has parsed
// (spec.md §4.5 "LoadMachine").
//
// A nil image releases the current ROM and clears the entry-point
// reference without loading a replacement, matching galaxy.cpp's
// `load_machine(nullptr)` (spec.md §4.5, §8.3 scenario 6 "ROM reset"): the
// next Evaluate call then fails with "no image loaded" rather than
// silently reusing the old program, since this module has no embedded
// default image to fall back to (DESIGN.md, "Deviations from spec.md §4.5").
//
// Mirrors galaxy.cpp's load_machine: the old ROM is released, a fresh
// table is populated, and the result is only committed to m once the whole
// image has parsed successfully — a partially-decoded image never
// replaces a working machine.
func (m *Machine) LoadMachine(image []int64) error {
	if image == nil {
		m.rom.Release()
		m.rom = arena.New(arena.DefaultChunkCapacity)
		m.table = table.New(m.table.Capacity())
		m.galaxy = nil
		return nil
	}

	rom := arena.New(arena.DefaultChunkCapacity)
	t := table.New(m.table.Capacity())

	galaxyRef, err := codec.LoadImage(rom, t, image)
	if err != nil {
		return fmt.Errorf("machine: load image: %w", err)
	}

	m.rom = rom
	m.table = t
	m.galaxy = galaxyRef
	return nil
}

// Evaluate decodes request, reduces it to weak head normal form against
// m's loaded program, and re-encodes the result (spec.md §4.5 "Evaluate").
// The working arena is released before Evaluate returns, whether it
// succeeds or fails, preserving the empty-on-exit invariant.
func (m *Machine) Evaluate(request []int64) ([]int64, error) {
	if m.galaxy == nil {
		return nil, fmt.Errorf("machine: no image loaded")
	}
	defer m.working.Release()

	state, err := codec.DecodeExpr(m.working, request)
	if err != nil {
		return nil, fmt.Errorf("machine: decode request: %w", err)
	}

	result, err := eval.Eval(m.working, m.table, state)
	if err != nil {
		return nil, fmt.Errorf("machine: evaluate: %w", err)
	}

	out, err := codec.EncodeExpr(result)
	if err != nil {
		return nil, fmt.Errorf("machine: encode result: %w", err)
	}
	out = append(out, int64(atom.GG))
	return out, nil
}

// Galaxy returns the loaded entry-point expression, the function the
// interaction protocol applies to each (state, event) pair (spec.md §4.5
// "Entry point").
func (m *Machine) Galaxy() *expr.Node {
	return m.galaxy
}

// Working exposes m's scratch arena so callers building a request tree by
// hand (rather than through DecodeExpr) allocate into the arena Evaluate
// will itself release.
func (m *Machine) Working() *arena.Arena {
	return m.working
}

// Table exposes m's function table for read-only inspection (tests,
// diagnostics).
func (m *Machine) Table() *table.Table {
	return m.table
}

// VerifyRoundTrip re-encodes e and decodes it again into a scratch arena,
// checking the result is structurally Equal to e. It ports galaxy.cpp's
// check_machine (original_source, line 608), generalized from a
// compile-time self-check against one baked-in image into a reusable
// property any loaded machine can run against any evaluated expression
// (spec.md §8.2 "Round-trip property").
func VerifyRoundTrip(e *expr.Node) error {
	tokens, err := codec.EncodeExpr(e)
	if err != nil {
		return fmt.Errorf("machine: round-trip encode: %w", err)
	}

	scratch := arena.New(arena.DefaultChunkCapacity)
	decoded, err := codec.DecodeExpr(scratch, tokens)
	if err != nil {
		return fmt.Errorf("machine: round-trip decode: %w", err)
	}

	if !expr.Equal(e, decoded) {
		return fmt.Errorf("machine: round-trip mismatch")
	}
	return nil
}
