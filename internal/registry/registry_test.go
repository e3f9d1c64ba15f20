package registry

import (
	"testing"

	"orthomine/internal/line"
	"orthomine/internal/ortho"
)

func TestAddLineUpdatesIndices(t *testing.T) {
	r := New("r")
	r.AddLine(line.New("a", "b"))

	if !r.ContainsLineWith("a", "b") {
		t.Error("forward index should record a->b")
	}
	fwd := r.Forward("a")
	if len(fwd) != 1 || fwd[0] != "b" {
		t.Errorf("Forward(a) = %v, want [b]", fwd)
	}
	bwd := r.Backward("b")
	if len(bwd) != 1 || bwd[0] != "a" {
		t.Errorf("Backward(b) = %v, want [a]", bwd)
	}
}

func TestAddLineIsIdempotent(t *testing.T) {
	r := New("r")
	r.AddLine(line.New("a", "b"))
	r.AddLine(line.New("a", "b"))
	if len(r.Lines()) != 1 {
		t.Errorf("len(Lines()) = %d, want 1 after adding the same line twice", len(r.Lines()))
	}
}

func TestAddReturnsOnlyNewlyInserted(t *testing.T) {
	r := New("r")
	square := ortho.New("a", "b", "c", "d")

	added := r.Add([]ortho.Ortho{square})
	if len(added) != 1 {
		t.Fatalf("first Add: len(added) = %d, want 1", len(added))
	}

	added = r.Add([]ortho.Ortho{square})
	if len(added) != 0 {
		t.Errorf("second Add of the same ortho: len(added) = %d, want 0", len(added))
	}
}

func TestUnionAndMinus(t *testing.T) {
	a := New("a")
	a.AddLine(line.New("x", "y"))
	a.Add([]ortho.Ortho{ortho.New("a", "b", "c", "d")})

	b := New("b")
	b.AddLine(line.New("y", "z"))

	union := a.Union(b)
	if len(union.Lines()) != 2 {
		t.Errorf("union lines = %d, want 2", len(union.Lines()))
	}
	if union.Size() != 1 {
		t.Errorf("union orthos = %d, want 1", union.Size())
	}

	diff := union.Minus(b)
	if !diff.Equal(a) {
		t.Error("union.Minus(b) should equal a")
	}
}

func TestCountByShape(t *testing.T) {
	r := New("r")
	r.Add([]ortho.Ortho{ortho.New("a", "b", "c", "d")})

	counts := r.CountByShape()
	if len(counts) != 1 {
		t.Fatalf("len(counts) = %d, want 1", len(counts))
	}
	if counts[0].Count != 1 {
		t.Errorf("counts[0].Count = %d, want 1", counts[0].Count)
	}
	shape := counts[0].Shape
	if len(shape) != 1 || shape[0] != 2 {
		t.Errorf("counts[0].Shape = %v, want a single distinct length 2", shape)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := New("r")
	r.AddLine(line.New("a", "b"))
	r.Add([]ortho.Ortho{ortho.New("a", "b", "c", "d")})

	data, err := r.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	restored, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !restored.Equal(r) {
		t.Error("Decode(Encode(r)) should equal r")
	}
}
