package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/teris-io/cli"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/codec"
	"galaxyvm.dev/galaxy/pkg/expr"
	"galaxyvm.dev/galaxy/pkg/machine"
	"galaxyvm.dev/galaxy/pkg/table"
	"galaxyvm.dev/galaxy/pkg/tokentext"
)

var Description = strings.ReplaceAll(`
The Galaxy interpreter loads a combinator-program image and evaluates requests
against it: either a single expression given with --request, or a sequence of
mouse-click events driven through --interact, the same protocol the contest
galaxy pad uses to render its successive frames.
`, "\n", " ")

var Galaxy = cli.New(Description).
	WithArg(cli.NewArg("image", "Path to the program image, a comma-separated list of integer tokens")).
	WithOption(cli.NewOption("request", "A single expression, in S-expression notation, to evaluate once").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("interact", "Run the multi-frame click protocol, reading 'x,y' pairs from stdin").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	imageBytes, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: Unable to open image file: %s\n", err)
		return -1
	}
	image, err := parseTokenList(string(imageBytes))
	if err != nil {
		fmt.Printf("ERROR: Unable to parse image: %s\n", err)
		return -1
	}

	m := machine.New(table.MinCapacity)
	if err := m.LoadMachine(image); err != nil {
		fmt.Printf("ERROR: Unable to load machine image: %s\n", err)
		return -1
	}

	if request, ok := options["request"]; ok && request != "" {
		return runOnce(m, request)
	}
	if _, ok := options["interact"]; ok {
		return runInteract(m)
	}

	fmt.Printf("ERROR: Provide either --request or --interact, use --help\n")
	return -1
}

// runOnce evaluates a single S-expression request and prints the rendered result.
func runOnce(m *machine.Machine, request string) int {
	parser := tokentext.NewParser(strings.NewReader(request), m.Working())
	reqExpr, err := parser.Parse()
	if err != nil {
		fmt.Printf("ERROR: Unable to parse request: %s\n", err)
		return -1
	}

	reqTokens, err := codec.EncodeExpr(reqExpr)
	if err != nil {
		fmt.Printf("ERROR: Unable to encode request: %s\n", err)
		return -1
	}

	resultTokens, err := m.Evaluate(reqTokens)
	if err != nil {
		fmt.Printf("ERROR: Unable to evaluate request: %s\n", err)
		return -1
	}

	scratch := arena.New(arena.DefaultChunkCapacity)
	result, err := codec.DecodeExpr(scratch, stripGG(resultTokens))
	if err != nil {
		fmt.Printf("ERROR: Unable to decode result: %s\n", err)
		return -1
	}

	fmt.Println(tokentext.Render(result))
	return 0
}

// runInteract reproduces the original demo's mouse-click driver loop
// (original_source, arrival/galaxy/galaxy.cpp lines 942-996): each line of
// stdin is an "x,y" pair; the click is sent to the galaxy entry point
// together with the current protocol state, and the response's new-state
// element is threaded through to the next iteration.
func runInteract(m *machine.Machine) int {
	scanner := bufio.NewScanner(os.Stdin)
	state := m.Working().Atom(atom.Nil)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		x, y, err := parseClick(line)
		if err != nil {
			fmt.Printf("ERROR: Unable to parse click %q: %s\n", line, err)
			return -1
		}

		click := m.Working().Cons(m.Working().Num(x), m.Working().Num(y))
		call := m.Working().Ap(m.Working().Ap(m.Galaxy(), state), click)

		callTokens, err := codec.EncodeExpr(call)
		if err != nil {
			fmt.Printf("ERROR: Unable to encode call: %s\n", err)
			return -1
		}

		resultTokens, err := m.Evaluate(callTokens)
		if err != nil {
			fmt.Printf("ERROR: Unable to evaluate frame: %s\n", err)
			return -1
		}

		scratch := arena.New(arena.DefaultChunkCapacity)
		result, err := codec.DecodeExpr(scratch, stripGG(resultTokens))
		if err != nil {
			fmt.Printf("ERROR: Unable to decode frame result: %s\n", err)
			return -1
		}

		flag, newState, frames, err := unpackFrame(result)
		if err != nil {
			fmt.Printf("ERROR: Malformed frame result: %s\n", err)
			return -1
		}
		fmt.Printf("flag=%s newState=%s frames=%s\n",
			tokentext.Render(flag), tokentext.Render(newState), tokentext.Render(frames))

		// The next call's state must live in the arena Evaluate is about to
		// release, so copy it into a fresh expression before moving on —
		// the result tree only survives until the next Evaluate call.
		bodyTokens, err := codec.EncodeExpr(newState)
		if err != nil {
			fmt.Printf("ERROR: Unable to re-encode new state: %s\n", err)
			return -1
		}
		state, err = codec.DecodeExpr(m.Working(), bodyTokens)
		if err != nil {
			fmt.Printf("ERROR: Unable to re-decode new state: %s\n", err)
			return -1
		}
	}
	return 0
}

// unpackFrame destructures a (flag, (newState, (frames, nil))) cons-list
// result, matching the C++ demo's `result->l->r`, `result->r->l->r`,
// `result->r->r->l->r` field path (original_source, lines 978-980).
func unpackFrame(result *expr.Node) (flag, newState, frames *expr.Node, err error) {
	if result.L == nil || result.L.R == nil || result.R == nil ||
		result.R.L == nil || result.R.L.R == nil ||
		result.R.R == nil || result.R.R.L == nil || result.R.R.L.R == nil {
		return nil, nil, nil, fmt.Errorf("expected a 3-element (flag newState frames) list")
	}
	return result.L.R, result.R.L.R, result.R.R.L.R, nil
}

func parseClick(line string) (int64, int64, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 'x,y'")
	}
	x, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func parseTokenList(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == '\t' || r == ' '
	})
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad token %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// stripGG drops the trailing GG token Machine.Evaluate appends to its
// output, leaving a plain expression-body token stream.
func stripGG(tokens []int64) []int64 {
	if len(tokens) > 0 {
		return tokens[:len(tokens)-1]
	}
	return tokens
}

func main() { os.Exit(Galaxy.Run(os.Args, os.Stdout)) }
