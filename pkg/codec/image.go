package codec

import (
	"fmt"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/expr"
	"galaxyvm.dev/galaxy/pkg/table"
)

// LoadImage parses a complete program image — a sequence of
// `SCAN <len> (galaxy|FUN) <idx> DEF <body tokens...>` blocks terminated by
// a single GG — populating t and returning the galaxy entry-point
// expression (spec.md §4.2 "Image loader", §6.2 "Image envelope format").
//
// Every allocation is carved from a (the ROM arena): the image is loaded
// once at startup and its nodes live for the lifetime of the machine
// (spec.md §4.1 "Two-arena ownership").
//
// LoadImage ports galaxy.cpp's load_machine_image state machine
// (original_source, line 472) token-for-token: state 0 expects SCAN or GG,
// state 1 expects (galaxy|FUN) <idx>, state 2 expects DEF followed by a
// body decoded with DecodeExpr.
func LoadImage(a *arena.Arena, t *table.Table, tokens []int64) (*expr.Node, error) {
	var galaxyRef *expr.Node
	i := 0

	for {
		if i >= len(tokens) {
			return nil, fmt.Errorf("codec: image truncated before GG")
		}
		kind := atom.Kind(tokens[i])
		i++

		switch kind {
		case atom.GG:
			if galaxyRef == nil {
				return nil, fmt.Errorf("codec: image has no galaxy entry point")
			}
			return galaxyRef, nil

		case atom.Scan:
			if i >= len(tokens) {
				return nil, fmt.Errorf("codec: image truncated reading SCAN length")
			}
			scanLen := int(tokens[i])
			i++

			if i >= len(tokens) {
				return nil, fmt.Errorf("codec: image truncated reading function header")
			}
			headerKind := atom.Kind(tokens[i])
			i++
			scanLen--
			if headerKind != atom.Galaxy && headerKind != atom.Fun {
				return nil, fmt.Errorf("codec: expected galaxy or FUN header, got %s", headerKind)
			}

			if i >= len(tokens) {
				return nil, fmt.Errorf("codec: image truncated reading function index")
			}
			idx := tokens[i]
			i++
			scanLen--

			if i >= len(tokens) || atom.Kind(tokens[i]) != atom.Def {
				return nil, fmt.Errorf("codec: expected DEF after function header")
			}
			i++
			scanLen--

			if scanLen < 0 || i+scanLen > len(tokens) {
				return nil, fmt.Errorf("codec: malformed SCAN length for function %d", idx)
			}
			body, err := DecodeExpr(a, tokens[i:i+scanLen])
			if err != nil {
				return nil, fmt.Errorf("codec: decoding function %d body: %w", idx, err)
			}
			i += scanLen

			t.Set(idx, body)
			if headerKind == atom.Galaxy {
				galaxyRef = body
			}

		default:
			return nil, fmt.Errorf("codec: expected SCAN or GG, got %s", kind)
		}
	}
}

// WriteImage serializes t's occupied slots (galaxy at index 0 last, matching
// galaxy.cpp's check_machine ordering: auxiliary functions first, galaxy
// last) into a single SCAN/DEF/GG-framed token stream (spec.md §4.2
// "Image loader", §9 "Image reconstruction").
func WriteImage(t *table.Table) ([]int64, error) {
	var out []int64

	emit := func(idx int64, headerKind atom.Kind) error {
		body := t.Get(idx)
		tokens, err := EncodeExpr(body)
		if err != nil {
			return fmt.Errorf("codec: encoding function %d: %w", idx, err)
		}
		length := int64(2 + 1 + len(tokens)) // header kind+idx, DEF, body
		out = append(out, int64(atom.Scan), length, int64(headerKind), idx, int64(atom.Def))
		out = append(out, tokens...)
		return nil
	}

	for _, idx := range t.Occupied(true) {
		if err := emit(idx, atom.Fun); err != nil {
			return nil, err
		}
	}
	if t.Get(0) != nil {
		if err := emit(0, atom.Galaxy); err != nil {
			return nil, err
		}
	}

	out = append(out, int64(atom.GG))
	return out, nil
}
