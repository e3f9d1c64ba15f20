// Package registry implements the indexed knowledge base of lines and
// orthos for one workload: forward/backward adjacency indices, per-origin
// and per-shape ortho indices, and the set-algebra (union, minus, add)
// used to combine registries during a merge.
package registry

import (
	"sort"

	"orthomine/internal/bag"
	"orthomine/internal/line"
	"orthomine/internal/ortho"
)

// Registry is a keyed collection of lines and orthos plus the indices the
// folder and discontinuity detector need for O(1) lookups.
type Registry struct {
	name       string
	provenance []string

	lines  map[string]line.Line
	orthos map[string]ortho.Ortho

	forward        map[string]map[string]struct{}
	backward       map[string]map[string]struct{}
	linesByStart   map[string]map[string]line.Line
	orthosByOrigin map[string]map[string]ortho.Ortho
	orthosByShape  map[string]map[string]ortho.Ortho
}

// New returns an empty, named registry.
func New(name string) *Registry {
	return &Registry{
		name:           name,
		provenance:     []string{name},
		lines:          map[string]line.Line{},
		orthos:         map[string]ortho.Ortho{},
		forward:        map[string]map[string]struct{}{},
		backward:       map[string]map[string]struct{}{},
		linesByStart:   map[string]map[string]line.Line{},
		orthosByOrigin: map[string]map[string]ortho.Ortho{},
		orthosByShape:  map[string]map[string]ortho.Ortho{},
	}
}

// FromLines builds a registry with no orthos from a deduplicated line set,
// the shape every freshly-ingested text chunk arrives in.
func FromLines(name string, provenance []string, lines []line.Line) *Registry {
	r := New(name)
	r.provenance = provenance
	for _, l := range lines {
		r.AddLine(l)
	}
	return r
}

// Name returns the registry's identifier.
func (r *Registry) Name() string { return r.name }

// Provenance returns the ordered list of source chunk names merged into
// this registry.
func (r *Registry) Provenance() []string { return append([]string(nil), r.provenance...) }

// AddLine inserts a single line and updates every index. It is a no-op if
// the line is already present.
func (r *Registry) AddLine(l line.Line) {
	key := l.Key()
	if _, ok := r.lines[key]; ok {
		return
	}
	r.lines[key] = l

	if r.forward[l.First] == nil {
		r.forward[l.First] = map[string]struct{}{}
	}
	r.forward[l.First][l.Second] = struct{}{}

	if r.backward[l.Second] == nil {
		r.backward[l.Second] = map[string]struct{}{}
	}
	r.backward[l.Second][l.First] = struct{}{}

	if r.linesByStart[l.First] == nil {
		r.linesByStart[l.First] = map[string]line.Line{}
	}
	r.linesByStart[l.First][key] = l
}

// Add batch-inserts orthos, updating every index, and returns only the
// subset that was not already present (by canonical equality) so the
// folder's work queue need not rescan the registry.
func (r *Registry) Add(orthos []ortho.Ortho) []ortho.Ortho {
	var added []ortho.Ortho
	for _, o := range orthos {
		key := o.Key()
		if _, ok := r.orthos[key]; ok {
			continue
		}
		r.orthos[key] = o

		origin := o.Origin()
		if r.orthosByOrigin[origin] == nil {
			r.orthosByOrigin[origin] = map[string]ortho.Ortho{}
		}
		r.orthosByOrigin[origin][key] = o

		shapeKey := o.Shape().Key()
		if r.orthosByShape[shapeKey] == nil {
			r.orthosByShape[shapeKey] = map[string]ortho.Ortho{}
		}
		r.orthosByShape[shapeKey][key] = o

		added = append(added, o)
	}
	return added
}

// Forward returns the words w such that (word, w) is an observed line.
func (r *Registry) Forward(word string) []string {
	return setToSlice(r.forward[word])
}

// Backward returns the words w such that (w, word) is an observed line.
func (r *Registry) Backward(word string) []string {
	return setToSlice(r.backward[word])
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// ContainsLineWith reports whether (a, b) has been observed as a line.
func (r *Registry) ContainsLineWith(a, b string) bool {
	_, ok := r.forward[a][b]
	return ok
}

// ContainsLine reports whether l has been observed.
func (r *Registry) ContainsLine(l line.Line) bool {
	_, ok := r.lines[l.Key()]
	return ok
}

// ContainsOrtho reports whether o (or a canonically equal ortho) is present.
func (r *Registry) ContainsOrtho(o ortho.Ortho) bool {
	_, ok := r.orthos[o.Key()]
	return ok
}

// LineLeftOf returns the lines whose First equals l's First.
func (r *Registry) LineLeftOf(l line.Line) []line.Line {
	return linesByKeySet(r.linesByStart[l.First])
}

// LineRightOf returns the lines whose First equals l's Second.
func (r *Registry) LineRightOf(l line.Line) []line.Line {
	return linesByKeySet(r.linesByStart[l.Second])
}

func linesByKeySet(m map[string]line.Line) []line.Line {
	out := make([]line.Line, 0, len(m))
	for _, l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SquareLeftOf returns the orthos whose origin equals l's First.
func (r *Registry) SquareLeftOf(l line.Line) []ortho.Ortho {
	return orthosByKeySet(r.orthosByOrigin[l.First])
}

// SquareRightOf returns the orthos whose origin equals l's Second.
func (r *Registry) SquareRightOf(l line.Line) []ortho.Ortho {
	return orthosByKeySet(r.orthosByOrigin[l.Second])
}

// SquaresWithOrigin returns every ortho whose origin is word.
func (r *Registry) SquaresWithOrigin(word string) []ortho.Ortho {
	return orthosByKeySet(r.orthosByOrigin[word])
}

// SquaresWithOriginAndShape returns orthos with the given origin and shape,
// the bucketed lookup the folder's fold-upward loop relies on. (The
// discontinuity detector keeps its own (colour, origin, shape) index.)
func (r *Registry) SquaresWithOriginAndShape(word string, shape bag.Bag[int]) []ortho.Ortho {
	shapeKey := shape.Key()
	out := make([]ortho.Ortho, 0)
	for key, o := range r.orthosByOrigin[word] {
		if _, ok := r.orthosByShape[shapeKey][key]; ok {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func orthosByKeySet(m map[string]ortho.Ortho) []ortho.Ortho {
	out := make([]ortho.Ortho, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Lines returns every line in the registry, in deterministic order.
func (r *Registry) Lines() []line.Line {
	return linesByKeySet(r.lines)
}

// Orthos returns every ortho in the registry, in deterministic order.
func (r *Registry) Orthos() []ortho.Ortho {
	return orthosByKeySet(r.orthos)
}

// ShapeCount pairs a shape with how many orthos of that shape exist. Shape
// lists the shape's distinct axis lengths in ascending order, not one entry
// per axis: a {2,2} square and a {2,2,2} cube both report Shape [2], in
// separate ShapeCount entries.
type ShapeCount struct {
	Shape []int
	Count int
}

// CountByShape returns the number of orthos of each distinct shape.
func (r *Registry) CountByShape() []ShapeCount {
	out := make([]ShapeCount, 0, len(r.orthosByShape))
	for _, group := range r.orthosByShape {
		if len(group) == 0 {
			continue
		}
		var shape bag.Bag[int]
		for _, o := range group {
			shape = o.Shape()
			break
		}
		out = append(out, ShapeCount{Shape: shape.Items(), Count: len(group)})
	}
	sort.Slice(out, func(i, j int) bool { return shapeLess(out[i].Shape, out[j].Shape) })
	return out
}

func shapeLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// SubtractLines returns the lines present in self but not in other.
func (r *Registry) SubtractLines(other *Registry) []line.Line {
	out := make([]line.Line, 0)
	for key, l := range r.lines {
		if _, ok := other.lines[key]; !ok {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SubtractOrthos returns the orthos present in self but not in other.
func (r *Registry) SubtractOrthos(other *Registry) []ortho.Ortho {
	out := make([]ortho.Ortho, 0)
	for key, o := range r.orthos {
		if _, ok := other.orthos[key]; !ok {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Union returns a fresh registry holding the union of self's and other's
// lines and orthos, with provenance concatenated.
func (r *Registry) Union(other *Registry) *Registry {
	out := New(r.name)
	out.provenance = append(append([]string(nil), r.provenance...), other.provenance...)
	for _, l := range r.lines {
		out.AddLine(l)
	}
	for _, l := range other.lines {
		out.AddLine(l)
	}
	out.Add(orthosByKeySet(r.orthos))
	out.Add(orthosByKeySet(other.orthos))
	return out
}

// Minus returns a fresh registry holding self's lines and orthos minus
// other's, with provenance set to self's minus any names other carries.
func (r *Registry) Minus(other *Registry) *Registry {
	out := New(r.name)
	out.provenance = nil
	otherProv := map[string]struct{}{}
	for _, p := range other.provenance {
		otherProv[p] = struct{}{}
	}
	for _, p := range r.provenance {
		if _, ok := otherProv[p]; !ok {
			out.provenance = append(out.provenance, p)
		}
	}
	for _, l := range r.SubtractLines(other) {
		out.AddLine(l)
	}
	out.Add(r.SubtractOrthos(other))
	return out
}

// Merge folds other's lines and orthos into self in place, used by
// merge_process once seam discovery has produced new orthos to fold in
// alongside the rest of other's content.
func (r *Registry) Merge(other *Registry) {
	for _, l := range other.lines {
		r.AddLine(l)
	}
	r.Add(orthosByKeySet(other.orthos))
	seen := map[string]struct{}{}
	for _, p := range r.provenance {
		seen[p] = struct{}{}
	}
	for _, p := range other.provenance {
		if _, ok := seen[p]; !ok {
			r.provenance = append(r.provenance, p)
			seen[p] = struct{}{}
		}
	}
}

// Equal reports whether two registries hold the same lines and orthos.
// Indices are a derived cache and do not participate in equality.
func (r *Registry) Equal(other *Registry) bool {
	if len(r.lines) != len(other.lines) || len(r.orthos) != len(other.orthos) {
		return false
	}
	for key := range r.lines {
		if _, ok := other.lines[key]; !ok {
			return false
		}
	}
	for key := range r.orthos {
		if _, ok := other.orthos[key]; !ok {
			return false
		}
	}
	return true
}

// Size returns the total number of orthos held (used by progress reports).
func (r *Registry) Size() int { return len(r.orthos) }
