package folder

import (
	"testing"

	"orthomine/internal/book"
	"orthomine/internal/ortho"
	"orthomine/internal/registry"
)

func fromText(name, text string) *registry.Registry {
	b := book.FromText(name, text, 0)
	return registry.FromLines(b.Name, b.Provenance, b.Lines)
}

// E9/E10 (boundary): ffbb on a registry containing only the closed diamond
// a-b, a-c, b-d, c-d finds exactly one square, and is idempotent.
func TestFfbbFindsExactlyOneSquare(t *testing.T) {
	r := fromText("first.txt", "a b. a c. b d. c d.")

	first := ffbb(r)
	if len(first) != 1 {
		t.Fatalf("ffbb found %d squares, want 1", len(first))
	}
	want := ortho.New("a", "b", "c", "d")
	if !first[0].Equal(want) {
		t.Errorf("ffbb found %v, want %v", first[0], want)
	}

	second := ffbb(r)
	if len(second) != len(first) || !second[0].Equal(first[0]) {
		t.Error("ffbb is not idempotent: running it twice produced different results")
	}
}

func TestSingleProcessDiscoversSquare(t *testing.T) {
	r := fromText("first.txt", "a b c d. a c. b d.")
	SingleProcess(r, nil)

	if r.Size() != 1 {
		t.Fatalf("registry has %d orthos, want 1", r.Size())
	}
	want := ortho.New("a", "b", "c", "d")
	if !r.Orthos()[0].Equal(want) {
		t.Errorf("got %v, want %v", r.Orthos()[0], want)
	}
}

// Mirrors the sift-down-by-origin scenario: two independent 2x2 squares
// whose hop words are themselves connected fold into one 2x2x2 cube.
func TestSingleProcessFoldsUpwardAcrossConnectedSquares(t *testing.T) {
	r := fromText("first.txt",
		"a b. c d. a c. b d. e f. g h. e g. f h. a e. b f. c g. d h.")
	SingleProcess(r, nil)

	abcd := ortho.New("a", "b", "c", "d")
	efgh := ortho.New("e", "f", "g", "h")
	expected, err := abcd.ZipUp(efgh, []ortho.Correspondence{
		{Left: "b", Right: "f"},
		{Left: "c", Right: "g"},
	})
	if err != nil {
		t.Fatalf("ZipUp returned error: %v", err)
	}

	found := false
	for _, o := range r.Orthos() {
		if o.Equal(expected) {
			found = true
		}
	}
	if !found {
		t.Error("expected the folded 3-dimensional cube to be present after SingleProcess")
	}
}

// E1: two registries each holding half of a diamond discover the square at
// their seam.
func TestMergeProcessDiscoversSquareFromLines(t *testing.T) {
	left := fromText("first.txt", "a b. c d.")
	right := fromText("second.txt", "a c. b d.")
	SingleProcess(left, nil)
	SingleProcess(right, nil)

	MergeProcess(left, right, nil)

	if left.Size() != 1 {
		t.Fatalf("merged registry has %d orthos, want 1", left.Size())
	}
	want := ortho.New("a", "b", "c", "d")
	if !left.Orthos()[0].Equal(want) {
		t.Errorf("got %v, want %v", left.Orthos()[0], want)
	}
}

// E2: one registry already holds a 2x2 square connected outward to a
// second registry's 2x2 square; merging discovers the 2x2x2 cube.
func TestMergeProcessDiscoversSquareFromSquares(t *testing.T) {
	left := fromText("first.txt", "a b. c d. a c. b d. a e. b f. c g. d h.")
	right := fromText("second.txt", "e f. g h. e g. f h.")
	SingleProcess(left, nil)
	SingleProcess(right, nil)

	MergeProcess(left, right, nil)

	abcd := ortho.New("a", "b", "c", "d")
	efgh := ortho.New("e", "f", "g", "h")
	expected, err := abcd.ZipUp(efgh, []ortho.Correspondence{
		{Left: "b", Right: "f"},
		{Left: "c", Right: "g"},
	})
	if err != nil {
		t.Fatalf("ZipUp returned error: %v", err)
	}

	found := false
	for _, o := range left.Orthos() {
		if o.Equal(expected) {
			found = true
		}
	}
	if !found {
		t.Error("expected the merged 3-dimensional cube to be present")
	}
}

// E3: same seam as above, but with "c d" relocated to the other registry —
// the same cube must still be discovered.
func TestMergeProcessDiscoversSquareRegardlessOfLineOwnership(t *testing.T) {
	left := fromText("first.txt", "a b. a c. b d. a e. b f. c g. d h.")
	right := fromText("second.txt", "c d. e f. g h. e g. f h.")
	SingleProcess(left, nil)
	SingleProcess(right, nil)

	MergeProcess(left, right, nil)

	abcd := ortho.New("a", "b", "c", "d")
	efgh := ortho.New("e", "f", "g", "h")
	expected, err := abcd.ZipUp(efgh, []ortho.Correspondence{
		{Left: "b", Right: "f"},
		{Left: "c", Right: "g"},
	})
	if err != nil {
		t.Fatalf("ZipUp returned error: %v", err)
	}

	found := false
	for _, o := range left.Orthos() {
		if o.Equal(expected) {
			found = true
		}
	}
	if !found {
		t.Error("expected the cube to be discovered regardless of which registry held c-d")
	}
}

// Property 11: merge_process(A, A) produces a registry equal to A, up to
// duplicate removal.
func TestMergeProcessWithSelfIsIdempotent(t *testing.T) {
	a := fromText("first.txt", "a b c d. a c. b d.")
	SingleProcess(a, nil)

	clone := fromText("first.txt", "a b c d. a c. b d.")
	SingleProcess(clone, nil)

	MergeProcess(a, clone, nil)

	if a.Size() != 1 || len(a.Lines()) != len(clone.Lines()) {
		t.Errorf("merge_process(A, A) should not introduce duplicates: orthos=%d lines=%d", a.Size(), len(a.Lines()))
	}
}
