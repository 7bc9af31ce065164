package codec_test

import (
	"testing"

	"galaxyvm.dev/galaxy/pkg/arena"
	"galaxyvm.dev/galaxy/pkg/atom"
	"galaxyvm.dev/galaxy/pkg/codec"
	"galaxyvm.dev/galaxy/pkg/table"
)

// buildImage assembles a minimal but well-formed image by hand: one
// auxiliary function (index 1, the identity combinator) and the galaxy
// entry point (index 0, a reference to FUN 1).
func buildImage() []int64 {
	return []int64{
		int64(atom.Scan), 4, int64(atom.Fun), 1, int64(atom.Def), int64(atom.I),
		int64(atom.Scan), 5, int64(atom.Galaxy), 0, int64(atom.Def), int64(atom.Fun), 1,
		int64(atom.GG),
	}
}

func TestLoadImage(t *testing.T) {
	a := arena.New(64)
	tbl := table.New(table.MinCapacity)

	galaxy, err := codec.LoadImage(a, tbl, buildImage())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if tbl.Get(1).Kind != atom.I {
		t.Fatal("expected function table slot 1 to hold the identity combinator")
	}
	if galaxy.Kind != atom.Fun || galaxy.Number != 1 {
		t.Fatal("expected galaxy entry point to be a FUN 1 reference")
	}
	if tbl.Get(0) != galaxy {
		t.Fatal("expected table slot 0 to hold the same node returned as the entry point")
	}
}

func TestLoadImageRejectsMissingGalaxy(t *testing.T) {
	a := arena.New(64)
	tbl := table.New(table.MinCapacity)

	tokens := []int64{
		int64(atom.Scan), 4, int64(atom.Fun), 1, int64(atom.Def), int64(atom.I),
		int64(atom.GG),
	}

	if _, err := codec.LoadImage(a, tbl, tokens); err == nil {
		t.Fatal("expected an image with no galaxy entry point to be rejected")
	}
}

func TestLoadImageRejectsMalformedHeader(t *testing.T) {
	a := arena.New(64)
	tbl := table.New(table.MinCapacity)

	tokens := []int64{int64(atom.Scan), 4, int64(atom.Number), 1, int64(atom.Def), int64(atom.I), int64(atom.GG)}
	if _, err := codec.LoadImage(a, tbl, tokens); err == nil {
		t.Fatal("expected a non-galaxy/FUN header to be rejected")
	}
}

func TestWriteImageRoundTrip(t *testing.T) {
	a := arena.New(64)
	tbl := table.New(table.MinCapacity)

	galaxy, err := codec.LoadImage(a, tbl, buildImage())
	if err != nil {
		t.Fatalf("unexpected error loading: %s", err)
	}

	written, err := codec.WriteImage(tbl)
	if err != nil {
		t.Fatalf("unexpected error writing: %s", err)
	}

	a2 := arena.New(64)
	tbl2 := table.New(table.MinCapacity)
	galaxy2, err := codec.LoadImage(a2, tbl2, written)
	if err != nil {
		t.Fatalf("unexpected error re-loading written image: %s", err)
	}

	if galaxy.Kind != galaxy2.Kind || galaxy.Number != galaxy2.Number {
		t.Fatal("expected re-loaded galaxy entry to structurally match the original")
	}
}
