// Package discontinuity implements the three-colour classification of two
// registries' lines and orthos and the enumeration of suspicious triples
// that witness a discontinuity at their seam.
package discontinuity

import (
	"orthomine/internal/line"
	"orthomine/internal/ortho"
	"orthomine/internal/registry"
)

// Color tags an item's membership with respect to the source and target
// registries being merged.
type Color int

const (
	// Black items are present only in the source registry.
	Black Color = iota
	// Red items are present only in the target registry.
	Red
	// Both items are present in both registries.
	Both
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case Red:
		return "red"
	default:
		return "both"
	}
}

func colorFor(sourceOnly, targetOnly bool) Color {
	switch {
	case sourceOnly:
		return Black
	case targetOnly:
		return Red
	default:
		return Both
	}
}

// colored pairs an item with its color, the unit the bucketed indices and
// the centre-constrained matcher both operate on.
type colored[T any] struct {
	item  T
	color Color
}

// LineTriple is a (left, center, right) witness for an l-l-l discontinuity.
type LineTriple struct {
	Left, Center, Right line.Line
}

// OrthoTriple is an (L, center, R) witness for an o-l-o discontinuity.
type OrthoTriple struct {
	Left   ortho.Ortho
	Center line.Line
	Right  ortho.Ortho
}

// Detector indexes the union of two registries by (color, first-word) for
// lines and (color, origin, shape) for orthos, so suspicious triples are
// enumerated without a quadratic scan over the union.
type Detector struct {
	lineColors  map[string]Color
	lines       map[string]line.Line
	orthoColors map[string]Color
	orthos      map[string]ortho.Ortho

	lineByColorStart        map[Color]map[string][]line.Line
	orthoByColorOriginShape map[Color]map[string]map[string][]ortho.Ortho

	commonShapes map[string]struct{}
}

// New builds a Detector over the union of source and target.
func New(source, target *registry.Registry) *Detector {
	sourceOnly := source.Minus(target)
	targetOnly := target.Minus(source)
	union := source.Union(target)

	d := &Detector{
		lineColors:              map[string]Color{},
		lines:                   map[string]line.Line{},
		orthoColors:             map[string]Color{},
		orthos:                  map[string]ortho.Ortho{},
		lineByColorStart:        map[Color]map[string][]line.Line{Black: {}, Red: {}, Both: {}},
		orthoByColorOriginShape: map[Color]map[string]map[string][]ortho.Ortho{Black: {}, Red: {}, Both: {}},
	}

	for _, l := range union.Lines() {
		c := colorFor(sourceOnly.ContainsLine(l), targetOnly.ContainsLine(l))
		d.lineColors[l.Key()] = c
		d.lines[l.Key()] = l
		if d.lineByColorStart[c][l.First] == nil {
			d.lineByColorStart[c][l.First] = []line.Line{}
		}
		d.lineByColorStart[c][l.First] = append(d.lineByColorStart[c][l.First], l)
	}

	sourceShapes := map[string]struct{}{}
	for _, sc := range source.CountByShape() {
		sourceShapes[shapeKeyOf(sc.Shape)] = struct{}{}
	}
	targetShapes := map[string]struct{}{}
	for _, sc := range target.CountByShape() {
		targetShapes[shapeKeyOf(sc.Shape)] = struct{}{}
	}
	d.commonShapes = map[string]struct{}{}
	for s := range sourceShapes {
		if _, ok := targetShapes[s]; ok {
			d.commonShapes[s] = struct{}{}
		}
	}

	for _, o := range union.Orthos() {
		c := colorFor(sourceOnly.ContainsOrtho(o), targetOnly.ContainsOrtho(o))
		d.orthoColors[o.Key()] = c
		d.orthos[o.Key()] = o
		origin := o.Origin()
		shapeKey := shapeKeyOf(o.Shape().Items())
		if d.orthoByColorOriginShape[c][origin] == nil {
			d.orthoByColorOriginShape[c][origin] = map[string][]ortho.Ortho{}
		}
		d.orthoByColorOriginShape[c][origin][shapeKey] = append(d.orthoByColorOriginShape[c][origin][shapeKey], o)
	}

	return d
}

func shapeKeyOf(shape []int) string {
	out := make([]byte, 0, len(shape)*2)
	for _, l := range shape {
		out = append(out, byte(l), ',')
	}
	return string(out)
}

// centers returns every line in the union paired with its color.
func (d *Detector) centers() []colored[line.Line] {
	out := make([]colored[line.Line], 0, len(d.lines))
	for key, l := range d.lines {
		out = append(out, colored[line.Line]{item: l, color: d.lineColors[key]})
	}
	return out
}

func (d *Detector) linesStartingAt(word string) []colored[line.Line] {
	var out []colored[line.Line]
	for _, c := range []Color{Black, Red, Both} {
		for _, l := range d.lineByColorStart[c][word] {
			out = append(out, colored[line.Line]{item: l, color: c})
		}
	}
	return out
}

func (d *Detector) orthosAtOrigin(word string) []colored[ortho.Ortho] {
	var out []colored[ortho.Ortho]
	for _, c := range []Color{Black, Red, Both} {
		byShape := d.orthoByColorOriginShape[c][word]
		for shapeKey, orthos := range byShape {
			if _, common := d.commonShapes[shapeKey]; !common {
				continue
			}
			for _, o := range orthos {
				out = append(out, colored[ortho.Ortho]{item: o, color: c})
			}
		}
	}
	return out
}

// LLLDiscontinuities enumerates suspicious (left, center, right) line
// triples per the twelve-case colour table.
func (d *Detector) LLLDiscontinuities() []LineTriple {
	var out []LineTriple
	for _, center := range d.centers() {
		lhs := d.linesStartingAt(center.item.First)
		rhs := d.linesStartingAt(center.item.Second)
		for _, pair := range matchCenter(center.color, lhs, rhs) {
			out = append(out, LineTriple{Left: pair[0], Center: center.item, Right: pair[1]})
		}
	}
	return out
}

// OLODiscontinuities enumerates suspicious (L, center, R) ortho triples,
// further filtered to L.Shape == R.Shape and L.ValidDiagonalWith(R).
func (d *Detector) OLODiscontinuities() []OrthoTriple {
	var out []OrthoTriple
	for _, center := range d.centers() {
		lhs := d.orthosAtOrigin(center.item.First)
		rhs := d.orthosAtOrigin(center.item.Second)
		for _, pair := range matchCenter(center.color, lhs, rhs) {
			l, r := pair[0], pair[1]
			if !l.Shape().Equal(r.Shape()) {
				continue
			}
			if !l.ValidDiagonalWith(r) {
				continue
			}
			out = append(out, OrthoTriple{Left: l, Center: center.item, Right: r})
		}
	}
	return out
}

// matchCenter applies the twelve-case colour table: which (lhs, rhs) pairs
// are suspicious given the colour of the centre item bridging them.
func matchCenter[T any](centerColor Color, lhs, rhs []colored[T]) [][2]T {
	allRHS := make([]T, 0, len(rhs))
	for _, it := range rhs {
		allRHS = append(allRHS, it.item)
	}
	switch centerColor {
	case Black:
		return append(
			cross(filter(lhs, Red, true), allRHS),
			cross(filter(lhs, Red, false), filter(rhs, Red, true))...,
		)
	case Red:
		return append(
			cross(filter(lhs, Black, true), allRHS),
			cross(filter(lhs, Black, false), filter(rhs, Black, true))...,
		)
	default: // Both
		return append(
			cross(filter(lhs, Black, true), filter(rhs, Red, true)),
			cross(filter(lhs, Red, true), filter(rhs, Black, true))...,
		)
	}
}

func filter[T any](items []colored[T], color Color, want bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if (it.color == color) == want {
			out = append(out, it.item)
		}
	}
	return out
}

func cross[T any](lhs, rhs []T) [][2]T {
	out := make([][2]T, 0, len(lhs)*len(rhs))
	for _, l := range lhs {
		for _, r := range rhs {
			out = append(out, [2]T{l, r})
		}
	}
	return out
}
