package book

import "testing"

func TestFromTextTokenizesAndDedupes(t *testing.T) {
	b := FromText("corpus.txt", "The Cat sat. The cat sat!", 0)

	want := map[string]bool{"the->cat": false, "cat->sat": false}
	if len(b.Lines) != 2 {
		t.Fatalf("len(b.Lines) = %d, want 2 (deduplicated across both sentences)", len(b.Lines))
	}
	for _, l := range b.Lines {
		key := l.First + "->" + l.Second
		if _, ok := want[key]; !ok {
			t.Errorf("unexpected line %s", key)
		}
		want[key] = true
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("expected line %s not found", k)
		}
	}
}

func TestFromTextDropsShortSentences(t *testing.T) {
	b := FromText("corpus.txt", "Alone. Two words.", 0)
	if len(b.Lines) != 1 {
		t.Fatalf("len(b.Lines) = %d, want 1 (the single-token sentence is dropped)", len(b.Lines))
	}
	if b.Lines[0].First != "two" || b.Lines[0].Second != "words" {
		t.Errorf("got %v, want two->words", b.Lines[0])
	}
}

func TestFromTextStripsNonAlphabetic(t *testing.T) {
	b := FromText("corpus.txt", "Hello, world! 123 go-go.", 0)
	found := false
	for _, l := range b.Lines {
		if l.First == "hello" && l.Second == "world" {
			found = true
		}
	}
	if !found {
		t.Error("expected a hello->world line after stripping punctuation and lowercasing")
	}
}

func TestCalculateName(t *testing.T) {
	b := FromText("corpus.txt", "a b.", 3)
	if b.Name != "corpus-3.txt" {
		t.Errorf("Name = %q, want corpus-3.txt", b.Name)
	}
	if len(b.Provenance) != 1 || b.Provenance[0] != b.Name {
		t.Errorf("Provenance = %v, want [%s]", b.Provenance, b.Name)
	}
}
