// Package folder drives discovery: the initial square finder over a single
// registry, the upward folding loop that grows discovered orthos into
// higher dimensions, and the merge-pass coordinator that reconciles two
// registries at their seam.
package folder

import (
	"orthomine/internal/discontinuity"
	"orthomine/internal/line"
	"orthomine/internal/ortho"
	"orthomine/internal/registry"
)

// SingleProcess discovers every base square reachable from registry's lines
// via ffbb, inserts them all, then folds each newly inserted square upward
// repeatedly until no new ortho appears. The insert and fold passes are kept
// separate: ffbb and the registry's own Lines() both emit in sorted-by-origin
// order, so folding a square as soon as it is found would miss a connecting
// partner that sorts later and hasn't been inserted yet. Progress is
// reported through report, which may be nil.
func SingleProcess(r *registry.Registry, report func(done, total int)) {
	squares := ffbb(r)
	added := r.Add(squares)

	total := len(added)
	for i, square := range added {
		if report != nil {
			report(i, total)
		}
		foldUpByOriginRepeatedly(r, square)
	}
}

// MergeProcess finds new structures at the seam between source and target,
// unions target into source, folds every newly discovered ortho upward,
// and leaves source holding the merged result.
func MergeProcess(source, target *registry.Registry, report func(done, total int)) {
	detector := discontinuity.New(source, target)
	lll := detector.LLLDiscontinuities()
	olo := detector.OLODiscontinuities()

	additional := findAdditionalFromLLL(source, lll)
	more := findAdditionalFromOLO(source, olo)

	source.Merge(target)

	discovered := append(additional, more...)
	total := len(discovered)
	for i, square := range discovered {
		if report != nil {
			report(i, total)
		}
		if added := source.Add([]ortho.Ortho{square}); len(added) > 0 {
			foldUpByOriginRepeatedly(source, added[0])
		}
	}
}

func foldUpByOriginRepeatedly(r *registry.Registry, newSquare ortho.Ortho) {
	queue := []ortho.Ortho{newSquare}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, folded := range foldUpByOrigin(r, current) {
			if added := r.Add([]ortho.Ortho{folded}); len(added) > 0 {
				queue = append(queue, added[0])
			}
		}
	}
}

func foldUpByOrigin(r *registry.Registry, o ortho.Ortho) []ortho.Ortho {
	var out []ortho.Ortho
	for _, second := range r.Forward(o.Origin()) {
		for _, other := range r.SquaresWithOriginAndShape(second, o.Shape()) {
			if !other.ValidDiagonalWith(o) {
				continue
			}
			if combined, ok := handleConnection(r, o, other); ok {
				out = append(out, combined)
			}
		}
	}
	return out
}

func findAdditionalFromLLL(r *registry.Registry, triples []discontinuity.LineTriple) []ortho.Ortho {
	var out []ortho.Ortho
	for _, t := range triples {
		if square, ok := handleLines(r, t.Left, t.Center, t.Right); ok {
			out = append(out, square)
		}
	}
	return out
}

func findAdditionalFromOLO(r *registry.Registry, triples []discontinuity.OrthoTriple) []ortho.Ortho {
	var out []ortho.Ortho
	for _, t := range triples {
		if combined, ok := handleConnection(r, t.Left, t.Right); ok {
			out = append(out, combined)
		}
	}
	return out
}

// handleConnection tries every candidate axis correspondence between l and r
// in turn and returns the first zip_up that succeeds.
func handleConnection(r *registry.Registry, l, rOrtho ortho.Ortho) (ortho.Ortho, bool) {
	correspondences, ok := findPotentialCorrespondences(r, l, rOrtho)
	if !ok {
		return ortho.Ortho{}, false
	}
	for _, correspondence := range correspondences {
		if allOtherConnectionsWork(r, l, rOrtho, correspondence) {
			combined, err := l.ZipUp(rOrtho, correspondence)
			if err == nil {
				return combined, true
			}
		}
	}
	return ortho.Ortho{}, false
}

func allOtherConnectionsWork(r *registry.Registry, l, rOrtho ortho.Ortho, correspondence []ortho.Correspondence) bool {
	for _, word := range l.Contents() {
		if !l.ConnectionWorks(word, r, correspondence, rOrtho) {
			return false
		}
	}
	return true
}

// correspondenceCeiling bounds the potential-pair list handed to
// combobulateAxes: beyond this, enumerating bijections on d axes blows up
// factorially, so the search aborts and reports no match instead.
const correspondenceCeiling = 12

// findPotentialCorrespondences pairs each of l's hop axes with each of r's
// hop axes that has an observed adjacency, then requires that pairing to
// cover every axis on both sides before enumerating candidate bijections.
func findPotentialCorrespondences(r *registry.Registry, l, rOrtho ortho.Ortho) ([][]ortho.Correspondence, bool) {
	leftAxes := l.Hop()
	rightAxes := rOrtho.Hop()

	var potentials []ortho.Correspondence
	for _, left := range leftAxes {
		for _, right := range rightAxes {
			if r.ContainsLineWith(left, right) {
				potentials = append(potentials, ortho.Correspondence{Left: left, Right: right})
			}
		}
	}

	if len(potentials) > correspondenceCeiling {
		return nil, false
	}
	if !sufficientAxesToCover(potentials, l) {
		return nil, false
	}
	return combobulateAxes(potentials, l.Dimensionality()), true
}

func sufficientAxesToCover(potentials []ortho.Correspondence, l ortho.Ortho) bool {
	required := l.Dimensionality()
	left := map[string]struct{}{}
	right := map[string]struct{}{}
	for _, p := range potentials {
		left[p.Left] = struct{}{}
		right[p.Right] = struct{}{}
	}
	return len(left) == required && len(right) == required
}

// combobulateAxes enumerates every size-numAxes subset of potentials whose
// left and right components are each, within the subset, bijective — the
// candidate axis correspondences handleConnection will try in turn.
func combobulateAxes(potentials []ortho.Correspondence, numAxes int) [][]ortho.Correspondence {
	var out [][]ortho.Correspondence
	var combo []ortho.Correspondence

	var choose func(start int)
	choose = func(start int) {
		if len(combo) == numAxes {
			if isBijection(combo, numAxes) {
				out = append(out, append([]ortho.Correspondence(nil), combo...))
			}
			return
		}
		for i := start; i < len(potentials); i++ {
			combo = append(combo, potentials[i])
			choose(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	choose(0)
	return out
}

func isBijection(combo []ortho.Correspondence, numAxes int) bool {
	lefts := map[string]struct{}{}
	rights := map[string]struct{}{}
	for _, c := range combo {
		lefts[c.Left] = struct{}{}
		rights[c.Right] = struct{}{}
	}
	return len(lefts) == numAxes && len(rights) == numAxes
}

// handleLines tests the diagonal closure of a suspicious line triple:
//
//	left:   a-b
//	center: a-c
//	right:  c-d
//
// A square forms when b != c and b-d has also been observed.
func handleLines(r *registry.Registry, left, center, right line.Line) (ortho.Ortho, bool) {
	if left.Second == center.Second {
		return ortho.Ortho{}, false
	}
	if !r.ContainsLineWith(left.Second, right.Second) {
		return ortho.Ortho{}, false
	}
	return ortho.New(left.First, left.Second, right.First, right.Second), true
}

// ffbb ("forward, forward, backward, backward", the walk a->b->d<-c<-a)
// scans every line a-b and, for each word d forward of b and each word c
// backward of d, forms the base square a-b-c-d whenever c != b and a is also
// backward of c. Squares equal up to a swap of their hop axes are emitted
// once.
func ffbb(r *registry.Registry) []ortho.Ortho {
	var out []ortho.Ortho
	seen := map[string]struct{}{}
	for _, l := range r.Lines() {
		a, b := l.First, l.Second
		for _, d := range r.Forward(b) {
			for _, c := range r.Backward(d) {
				if c == b {
					continue
				}
				backwardOfC := r.Backward(c)
				found := false
				for _, candidate := range backwardOfC {
					if candidate == a {
						found = true
						break
					}
				}
				if found {
					square := ortho.New(a, b, c, d)
					if _, dup := seen[square.Key()]; !dup {
						seen[square.Key()] = struct{}{}
						out = append(out, square)
					}
				}
			}
		}
	}
	return out
}
