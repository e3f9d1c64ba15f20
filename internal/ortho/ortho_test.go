package ortho

import "testing"

func TestNewBaseSquare(t *testing.T) {
	o := New("a", "b", "c", "d")
	if o.Origin() != "a" {
		t.Errorf("Origin() = %q, want a", o.Origin())
	}
	hop := o.Hop()
	if len(hop) != 2 || hop[0] != "b" || hop[1] != "c" {
		t.Errorf("Hop() = %v, want [b c]", hop)
	}
	contents := o.Contents()
	if len(contents) != 1 || contents[0] != "d" {
		t.Errorf("Contents() = %v, want [d]", contents)
	}
	if o.Dimensionality() != 2 {
		t.Errorf("Dimensionality() = %d, want 2", o.Dimensionality())
	}
}

// E6: rotation invariance. (a,b,c,d) and (a,c,b,d) name the same square
// with its two hop axes swapped; they must compare and hash equal. A
// square built from a different origin must not.
func TestEqualIsRotationInvariant(t *testing.T) {
	abcd := New("a", "b", "c", "d")
	acbd := New("a", "c", "b", "d")
	if !abcd.Equal(acbd) {
		t.Error("(a,b,c,d) and (a,c,b,d) should be canonically equal")
	}
	if abcd.Key() != acbd.Key() {
		t.Error("(a,b,c,d) and (a,c,b,d) should hash equal")
	}

	gbcd := New("g", "b", "c", "d")
	if abcd.Equal(gbcd) {
		t.Error("an ortho with a different origin should not be equal")
	}
	if abcd.Key() == gbcd.Key() {
		t.Error("an ortho with a different origin should hash differently")
	}
}

// E5: shell 1 of abcd is {b,c}; shell 0 of bfgh is {b} — not disjoint, so
// valid_diagonal_with must be false.
func TestValidDiagonalWithRejectsOverlap(t *testing.T) {
	abcd := New("a", "b", "c", "d")
	bfgh := New("b", "f", "g", "h")
	if abcd.ValidDiagonalWith(bfgh) {
		t.Error("ValidDiagonalWith should reject a shared word at an adjacent shell")
	}
}

func TestValidDiagonalWithAcceptsDisjoint(t *testing.T) {
	abcd := New("a", "b", "c", "d")
	efgh := New("e", "f", "g", "h")
	if !abcd.ValidDiagonalWith(efgh) {
		t.Error("two orthos with entirely disjoint words should be diagonal-compatible")
	}
}

// E2/property 7: zip_up appends a 2 to the shape, keeps the left origin,
// and introduces the right ortho's origin as the new axis.
func TestZipUpAppendsAxis(t *testing.T) {
	abcd := New("a", "b", "c", "d")
	efgh := New("e", "f", "g", "h")

	cube, err := abcd.ZipUp(efgh, []Correspondence{
		{Left: "b", Right: "f"},
		{Left: "c", Right: "g"},
	})
	if err != nil {
		t.Fatalf("ZipUp returned error: %v", err)
	}

	if cube.Origin() != "a" {
		t.Errorf("cube.Origin() = %q, want a", cube.Origin())
	}
	if cube.Dimensionality() != 3 {
		t.Errorf("cube.Dimensionality() = %d, want 3", cube.Dimensionality())
	}
	shape := cube.Shape().Items()
	if len(shape) != 1 || shape[0] != 2 {
		t.Errorf("cube shape items = %v, want a single distinct length 2", shape)
	}
	if cube.Shape().Count(2) != 3 {
		t.Errorf("cube shape should be {2,2,2}, got count(2) = %d", cube.Shape().Count(2))
	}

	hop := cube.Hop()
	foundE := false
	for _, w := range hop {
		if w == "e" {
			foundE = true
		}
	}
	if !foundE {
		t.Errorf("cube hop %v should contain the new axis word e", hop)
	}
}

func TestZipUpRejectsIncompleteCorrespondence(t *testing.T) {
	abcd := New("a", "b", "c", "d")
	efgh := New("e", "f", "g", "h")
	_, err := abcd.ZipUp(efgh, []Correspondence{{Left: "b", Right: "f"}})
	if err == nil {
		t.Error("ZipUp should reject a correspondence that does not cover every axis")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	abcd := New("a", "b", "c", "d")
	snap := abcd.Snapshot()
	restored := FromSnapshot(snap)
	if !abcd.Equal(restored) {
		t.Error("FromSnapshot(Snapshot()) should reconstruct an equal ortho")
	}
}
