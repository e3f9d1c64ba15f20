package discontinuity

import (
	"testing"

	"orthomine/internal/line"
	"orthomine/internal/ortho"
	"orthomine/internal/registry"
)

func TestColorClassification(t *testing.T) {
	source := registry.New("source")
	source.AddLine(line.New("a", "b"))
	source.AddLine(line.New("x", "y"))

	target := registry.New("target")
	target.AddLine(line.New("x", "y"))
	target.AddLine(line.New("c", "d"))

	d := New(source, target)

	if d.lineColors[line.New("a", "b").Key()] != Black {
		t.Error("a-b is source-only, should be classified Black")
	}
	if d.lineColors[line.New("c", "d").Key()] != Red {
		t.Error("c-d is target-only, should be classified Red")
	}
	if d.lineColors[line.New("x", "y").Key()] != Both {
		t.Error("x-y is in both registries, should be classified Both")
	}
}

// Mirrors E1's seam: A holds a-b, c-d; B holds a-c, b-d. The a-c line
// bridges a-b (Black) and c-d (Black) through center a-c (Red), which the
// twelve-case table for a Red center requires exactly.
func TestLLLDiscontinuitiesFindsSeamSquare(t *testing.T) {
	source := registry.New("A")
	source.AddLine(line.New("a", "b"))
	source.AddLine(line.New("c", "d"))

	target := registry.New("B")
	target.AddLine(line.New("a", "c"))
	target.AddLine(line.New("b", "d"))

	d := New(source, target)
	triples := d.LLLDiscontinuities()

	found := false
	for _, tr := range triples {
		if tr.Left == line.New("a", "b") && tr.Center == line.New("a", "c") && tr.Right == line.New("c", "d") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected triple (a-b, a-c, c-d) among %v", triples)
	}
}

func TestOLODiscontinuitiesRequireMatchingShape(t *testing.T) {
	source := registry.New("A")
	source.Add([]ortho.Ortho{ortho.New("a", "b", "c", "d")})
	source.AddLine(line.New("a", "e"))

	target := registry.New("B")
	target.Add([]ortho.Ortho{ortho.New("e", "f", "g", "h")})
	target.AddLine(line.New("a", "e"))

	d := New(source, target)
	triples := d.OLODiscontinuities()

	for _, tr := range triples {
		if !tr.Left.Shape().Equal(tr.Right.Shape()) {
			t.Errorf("OLODiscontinuities returned a pair with mismatched shapes: %v, %v", tr.Left, tr.Right)
		}
		if !tr.Left.ValidDiagonalWith(tr.Right) {
			t.Errorf("OLODiscontinuities returned a pair that fails ValidDiagonalWith")
		}
	}
}
