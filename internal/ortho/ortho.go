// Package ortho implements the orthotope algebra: canonical multi-axis
// grids of distinct words, their construction, equality, and the
// zip-up/zip-over/diagonal-disjointness operations that combine them.
package ortho

import (
	"fmt"
	"sort"
	"strings"

	"orthomine/internal/bag"
)

// Correspondence maps one axis of a left ortho to the axis of a right
// ortho that plays the same geometric role, for zip_up / zip_over.
type Correspondence struct {
	Left  string
	Right string
}

// Ortho is an immutable filled grid of distinct words. A cell's position
// is a multiset of axis-name words; the empty position is the origin.
type Ortho struct {
	shape      bag.Bag[int]
	wordAt     map[string]string         // position key -> word
	posAt      map[string]bag.Bag[string] // position key -> position bag
	keyOf      map[string]string         // word -> position key
	axisLength map[string]int            // axis name -> axis length
}

var emptyKey = bag.New[string]().Key()

// New builds a base 2x2 square with origin a, hop {b, c}, antipode d.
// Callers guarantee a, b, c, d are distinct.
func New(a, b, c, d string) Ortho {
	empty := bag.New[string]()
	atB := empty.Add(b)
	atC := empty.Add(c)
	atBC := atB.Add(c)

	cells := map[string]bag.Bag[string]{
		empty.Key(): empty,
		atB.Key():   atB,
		atC.Key():   atC,
		atBC.Key():  atBC,
	}
	words := map[string]string{
		empty.Key(): a,
		atB.Key():   b,
		atC.Key():   c,
		atBC.Key():  d,
	}
	shape := bag.Of[int](2, 2)
	return build(shape, cells, words)
}

// build reconstructs derived indices (keyOf, axisLength) from the raw
// position/word maps and returns the finished, immutable Ortho.
func build(shape bag.Bag[int], posAt map[string]bag.Bag[string], wordAt map[string]string) Ortho {
	keyOf := make(map[string]string, len(wordAt))
	for k, w := range wordAt {
		keyOf[w] = k
	}

	axisLength := make(map[string]int)
	for _, pos := range posAt {
		for _, axis := range pos.Items() {
			if c := pos.Count(axis) + 1; c > axisLength[axis] {
				axisLength[axis] = c
			}
		}
	}

	return Ortho{
		shape:      shape,
		wordAt:     wordAt,
		posAt:      posAt,
		keyOf:      keyOf,
		axisLength: axisLength,
	}
}

// Origin returns the word at the empty position.
func (o Ortho) Origin() string {
	return o.wordAt[emptyKey]
}

// Shape returns the multiset of axis lengths.
func (o Ortho) Shape() bag.Bag[int] {
	return o.shape
}

// Dimensionality returns the number of axes.
func (o Ortho) Dimensionality() int {
	return o.shape.Len()
}

// AxisLength returns the length of the named axis and whether it exists.
func (o Ortho) AxisLength(axis string) (int, bool) {
	l, ok := o.axisLength[axis]
	return l, ok
}

// shells groups cell words by Manhattan distance from the origin: shell 0
// is {origin}, shell 1 is the hop, the last shell is the antipode set.
func (o Ortho) shells() [][]string {
	byDistance := map[int][]string{}
	maxDistance := 0
	for key, pos := range o.posAt {
		d := pos.Len()
		byDistance[d] = append(byDistance[d], o.wordAt[key])
		if d > maxDistance {
			maxDistance = d
		}
	}
	out := make([][]string, maxDistance+1)
	for d := 0; d <= maxDistance; d++ {
		words := byDistance[d]
		sort.Strings(words)
		out[d] = words
	}
	return out
}

// Hop returns shell 1: the words naming each axis.
func (o Ortho) Hop() []string {
	shells := o.shells()
	if len(shells) < 2 {
		return nil
	}
	return append([]string(nil), shells[1]...)
}

// Contents returns the words in shells of index >= 2.
func (o Ortho) Contents() []string {
	shells := o.shells()
	var out []string
	for i := 2; i < len(shells); i++ {
		out = append(out, shells[i]...)
	}
	sort.Strings(out)
	return out
}

// Equal implements canonical equality: equal shapes as multisets and equal
// shells set-by-set. This is invariant under axis permutation but
// distinguishes shapes like {2,2,2} from {2,4}.
func (o Ortho) Equal(other Ortho) bool {
	if !o.shape.Equal(other.shape) {
		return false
	}
	a, b := o.shells(), other.shells()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.Join(a[i], "\x00") != strings.Join(b[i], "\x00") {
			return false
		}
	}
	return true
}

// Key returns a deterministic string encoding consistent with Equal, usable
// as a hash / map key.
func (o Ortho) Key() string {
	var sb strings.Builder
	sb.WriteString(o.shape.Key())
	sb.WriteByte('|')
	for _, shell := range o.shells() {
		sb.WriteString(strings.Join(shell, ","))
		sb.WriteByte(';')
	}
	return sb.String()
}

// ValidDiagonalWith reports whether self can be adjoined to other along a
// new axis without collision: for every shell index k in [1, L-1],
// self's shell k must be disjoint from other's shell k-1, where L is
// self's shell count (a new axis shifts other by one step, so its shell
// k-1 lands at distance k in the combined figure).
func (o Ortho) ValidDiagonalWith(other Ortho) bool {
	selfShells := o.shells()
	otherShells := other.shells()
	l := len(selfShells)
	for k := 1; k < l; k++ {
		otherIdx := k - 1
		if otherIdx >= len(otherShells) {
			continue
		}
		if !disjoint(selfShells[k], otherShells[otherIdx]) {
			return false
		}
	}
	return true
}

func disjoint(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	for _, w := range b {
		if _, ok := set[w]; ok {
			return false
		}
	}
	return true
}

// axisMaps splits a correspondence into left->right and right->left lookup
// tables, and validates it is a bijection that covers exactly self's axes.
func axisMaps(self Ortho, correspondence []Correspondence) (leftToRight, rightToLeft map[string]string, err error) {
	leftToRight = make(map[string]string, len(correspondence))
	rightToLeft = make(map[string]string, len(correspondence))
	for _, c := range correspondence {
		if _, ok := self.axisLength[c.Left]; !ok {
			return nil, nil, fmt.Errorf("ortho: correspondence references unknown left axis %q", c.Left)
		}
		if _, exists := leftToRight[c.Left]; exists {
			return nil, nil, fmt.Errorf("ortho: left axis %q mapped twice", c.Left)
		}
		if _, exists := rightToLeft[c.Right]; exists {
			return nil, nil, fmt.Errorf("ortho: right axis %q mapped twice", c.Right)
		}
		leftToRight[c.Left] = c.Right
		rightToLeft[c.Right] = c.Left
	}
	if len(leftToRight) != self.Dimensionality() {
		return nil, nil, fmt.Errorf("ortho: correspondence covers %d of %d axes", len(leftToRight), self.Dimensionality())
	}
	return leftToRight, rightToLeft, nil
}

func relabel(pos bag.Bag[string], mapping map[string]string) bag.Bag[string] {
	out := bag.New[string]()
	for _, axis := range pos.Items() {
		target := axis
		if t, ok := mapping[axis]; ok {
			target = t
		}
		for i := 0; i < pos.Count(axis); i++ {
			out = out.Add(target)
		}
	}
	return out
}

// ZipUp adjoins other as a parallel copy of self shifted by one unit along
// a new axis named other.Origin(). correspondence maps each of self's axes
// to the axis of other that plays the same geometric role.
func (o Ortho) ZipUp(other Ortho, correspondence []Correspondence) (Ortho, error) {
	_, rightToLeft, err := axisMaps(o, correspondence)
	if err != nil {
		return Ortho{}, err
	}

	newAxis := other.Origin()
	posAt := make(map[string]bag.Bag[string], len(o.posAt)+len(other.posAt))
	wordAt := make(map[string]string, len(o.wordAt)+len(other.wordAt))
	for k, v := range o.posAt {
		posAt[k] = v
	}
	for k, v := range o.wordAt {
		wordAt[k] = v
	}

	for key, word := range other.wordAt {
		relabeled := relabel(other.posAt[key], rightToLeft)
		shifted := relabeled.Add(newAxis)
		posAt[shifted.Key()] = shifted
		wordAt[shifted.Key()] = word
	}

	newShape := o.shape.Add(2)
	return build(newShape, posAt, wordAt), nil
}

// ZipOver extends self by one cell along the existing axis named direction.
// The new slice is taken from the maximum-coordinate face of other along
// the axis correspondence maps direction to.
func (o Ortho) ZipOver(other Ortho, correspondence []Correspondence, direction string) (Ortho, error) {
	leftToRight, rightToLeft, err := axisMaps(o, correspondence)
	if err != nil {
		return Ortho{}, err
	}
	rightDirection, ok := leftToRight[direction]
	if !ok {
		return Ortho{}, fmt.Errorf("ortho: direction %q not covered by correspondence", direction)
	}
	rightMax, ok := other.axisLength[rightDirection]
	if !ok {
		return Ortho{}, fmt.Errorf("ortho: %q is not an axis of other", rightDirection)
	}
	rightMax--

	posAt := make(map[string]bag.Bag[string], len(o.posAt))
	wordAt := make(map[string]string, len(o.wordAt))
	for k, v := range o.posAt {
		posAt[k] = v
	}
	for k, v := range o.wordAt {
		wordAt[k] = v
	}

	for key, pos := range other.posAt {
		if pos.Count(rightDirection) != rightMax {
			continue
		}
		word := other.wordAt[key]
		relabeled := relabel(pos, rightToLeft)
		shifted := relabeled.Add(direction)
		posAt[shifted.Key()] = shifted
		wordAt[shifted.Key()] = word
	}

	oldLen := o.axisLength[direction]
	newShape := o.shape.Remove(oldLen).Add(oldLen + 1)
	return build(newShape, posAt, wordAt), nil
}

// LineSource is the minimal registry surface ConnectionWorks needs: a way
// to test whether a directed adjacency has been observed.
type LineSource interface {
	ContainsLineWith(first, second string) bool
}

// ConnectionWorks reports whether the cell of self named selfWord has an
// observed adjacency into the corresponding cell of other, where the
// correspondence maps self's position through to other's coordinate
// system.
func (o Ortho) ConnectionWorks(selfWord string, registry LineSource, correspondence []Correspondence, other Ortho) bool {
	leftToRight, _, err := axisMaps(o, correspondence)
	if err != nil {
		return false
	}
	key, ok := o.keyOf[selfWord]
	if !ok {
		return false
	}
	pos := o.posAt[key]
	otherPos := relabel(pos, leftToRight)
	otherWord, ok := other.wordAt[otherPos.Key()]
	if !ok {
		return false
	}
	return registry.ContainsLineWith(selfWord, otherWord)
}

// Snapshot is the serialization-friendly view of an Ortho: axis lengths (one
// entry per axis, ascending) and
// a position -> word map keyed by the sorted comma-joined axis words of
// the position (the empty string for the origin), each axis word repeated
// once per its count so a position that visits one axis word twice (a
// ZipOver diagonal, say) round-trips instead of collapsing to one visit.
type Snapshot struct {
	Shape []int
	Cells map[string]string
}

// Snapshot renders the ortho into its serialization-friendly form.
func (o Ortho) Snapshot() Snapshot {
	cells := make(map[string]string, len(o.wordAt))
	for _, pos := range o.posAt {
		var expanded []string
		for _, axis := range pos.Items() {
			for i := 0; i < pos.Count(axis); i++ {
				expanded = append(expanded, axis)
			}
		}
		cells[strings.Join(expanded, ",")] = o.wordAt[pos.Key()]
	}
	var shape []int
	for _, l := range o.shape.Items() {
		for i := 0; i < o.shape.Count(l); i++ {
			shape = append(shape, l)
		}
	}
	return Snapshot{Shape: shape, Cells: cells}
}

// FromSnapshot reconstructs an Ortho from its serialized form.
func FromSnapshot(s Snapshot) Ortho {
	shape := bag.New[int]()
	for _, l := range s.Shape {
		shape = shape.Add(l)
	}
	posAt := make(map[string]bag.Bag[string], len(s.Cells))
	wordAt := make(map[string]string, len(s.Cells))
	for posStr, word := range s.Cells {
		pos := bag.New[string]()
		if posStr != "" {
			for _, axis := range strings.Split(posStr, ",") {
				pos = pos.Add(axis)
			}
		}
		posAt[pos.Key()] = pos
		wordAt[pos.Key()] = word
	}
	return build(shape, posAt, wordAt)
}
