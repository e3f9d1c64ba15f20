// Package book implements the text-chunking preprocessor: turning raw
// ingested text into the deduplicated line set a fresh registry is seeded
// from.
package book

import (
	"strconv"
	"strings"
	"unicode"

	"orthomine/internal/line"
)

// Book is one named chunk of source text reduced to its deduplicated line
// set, ready to seed a registry via registry.FromLines.
type Book struct {
	Name       string
	Provenance []string
	Lines      []line.Line
}

// FromText builds a Book from chunk, the chunkNumber-th slice of
// sourceName. The chunk name is sourceName with the chunk number spliced in
// before the extension, e.g. "corpus.txt" chunk 3 becomes "corpus-3.txt".
func FromText(sourceName, chunk string, chunkNumber int) Book {
	name := calculateName(sourceName, chunkNumber)
	return Book{
		Name:       name,
		Provenance: []string{name},
		Lines:      linesFromChunk(chunk),
	}
}

func calculateName(sourceName string, chunkNumber int) string {
	base, ext, ok := strings.Cut(sourceName, ".")
	if !ok {
		return sourceName
	}
	return base + "-" + strconv.Itoa(chunkNumber) + "." + ext
}

// linesFromChunk splits chunk into sentences, tokenizes each, and returns
// the deduplicated set of adjacent-word lines.
func linesFromChunk(chunk string) []line.Line {
	seen := map[string]line.Line{}
	for _, sentence := range splitToSentences(chunk) {
		words := tokenize(sentence)
		if len(words) < 2 {
			continue
		}
		for i := 0; i+1 < len(words); i++ {
			l := line.New(words[i], words[i+1])
			seen[l.Key()] = l
		}
	}
	out := make([]line.Line, 0, len(seen))
	for _, l := range seen {
		out = append(out, l)
	}
	return out
}

func splitToSentences(chunk string) []string {
	return strings.FieldsFunc(chunk, func(r rune) bool {
		switch r {
		case '.', '!', '?', ';', '\n':
			return true
		}
		return false
	})
}

// tokenize splits a sentence on whitespace, keeps each token's alphabetic
// runes lowercased, and drops tokens left empty by that filter.
func tokenize(sentence string) []string {
	var out []string
	for _, field := range strings.Fields(sentence) {
		var sb strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) {
				sb.WriteRune(unicode.ToLower(r))
			}
		}
		if sb.Len() > 0 {
			out = append(out, sb.String())
		}
	}
	return out
}
