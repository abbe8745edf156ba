package geom

import (
	"fmt"
	"slices"
	"strings"
)

// CoordinateList is an ordered, growable sequence of coordinates.
//
// When a caller asks for repeated points to be suppressed, a coordinate is
// dropped only if it equals one of its would-be neighbours in the list. The
// list as a whole may still hold the same point at non-adjacent positions
// (a closed ring does so by construction).
type CoordinateList struct {
	coords []Coordinate
}

// NewCoordinateList loads coords into a new list. With allowRepeated false,
// adjacent duplicates are collapsed during the load.
func NewCoordinateList(coords []Coordinate, allowRepeated bool) *CoordinateList {
	l := &CoordinateList{coords: make([]Coordinate, 0, len(coords))}
	l.Add(coords, allowRepeated, true)
	return l
}

func (l *CoordinateList) Len() int { return len(l.coords) }

// Get returns the coordinate at i. It panics when i is out of range, like a
// slice index.
func (l *CoordinateList) Get(i int) Coordinate { return l.coords[i] }

// Add appends every coordinate of coords through AddCoordinate. With forward
// false the input is walked from its last element to its first. It always
// returns true.
func (l *CoordinateList) Add(coords []Coordinate, allowRepeated, forward bool) bool {
	if forward {
		for _, c := range coords {
			l.AddCoordinate(c, allowRepeated)
		}
		return true
	}
	for i := len(coords) - 1; i >= 0; i-- {
		l.AddCoordinate(coords[i], allowRepeated)
	}
	return true
}

// AddCoordinate appends c and reports whether it was added. With
// allowRepeated false, c is skipped when it equals the current last element.
func (l *CoordinateList) AddCoordinate(c Coordinate, allowRepeated bool) bool {
	if !allowRepeated && len(l.coords) > 0 && l.coords[len(l.coords)-1].Equals(c) {
		return false
	}
	l.coords = append(l.coords, c)
	return true
}

// InsertCoordinate inserts c so that it ends up at index, and reports whether
// it was inserted. With allowRepeated false, c is skipped when it equals the
// element before or the element currently at index.
func (l *CoordinateList) InsertCoordinate(index int, c Coordinate, allowRepeated bool) (bool, error) {
	if index < 0 || index > len(l.coords) {
		return false, fmt.Errorf("%w: insert at %d, len %d", ErrIndexOutOfRange, index, len(l.coords))
	}
	if !allowRepeated && l.repeatsNeighbour(index, c) {
		return false, nil
	}
	l.coords = slices.Insert(l.coords, index, c)
	return true, nil
}

// InsertCoordinates inserts coords as a run starting at index. The cursor
// advances only for accepted elements, and each element is checked against
// the list as it stands at that step.
func (l *CoordinateList) InsertCoordinates(index int, coords []Coordinate, allowRepeated bool) error {
	if index < 0 || index > len(l.coords) {
		return fmt.Errorf("%w: insert at %d, len %d", ErrIndexOutOfRange, index, len(l.coords))
	}
	for _, c := range coords {
		ok, err := l.InsertCoordinate(index, c, allowRepeated)
		if err != nil {
			return err
		}
		if ok {
			index++
		}
	}
	return nil
}

func (l *CoordinateList) repeatsNeighbour(index int, c Coordinate) bool {
	if index > 0 && l.coords[index-1].Equals(c) {
		return true
	}
	return index < len(l.coords) && l.coords[index].Equals(c)
}

// CloseRing appends a copy of the first coordinate. No duplicate check is
// made, so calling it on an already closed list adds another vertex.
func (l *CoordinateList) CloseRing() {
	if len(l.coords) == 0 {
		return
	}
	l.coords = append(l.coords, l.coords[0].Clone())
}

// ToArray returns a copy of the coordinates.
func (l *CoordinateList) ToArray() []Coordinate {
	return slices.Clone(l.coords)
}

func (l *CoordinateList) Clear() {
	l.coords = l.coords[:0]
}

// Envelope folds the list into a dimension-aware envelope; see EnvelopeOf.
func (l *CoordinateList) Envelope() *Envelope {
	return EnvelopeOf(l.coords)
}

// Envelope2D folds the list into a planar envelope.
func (l *CoordinateList) Envelope2D() *Envelope2D {
	return Envelope2DOf(l.coords)
}

// String renders "CoordinateList:[c0, c1, ...]".
func (l *CoordinateList) String() string {
	parts := make([]string, len(l.coords))
	for i, c := range l.coords {
		parts[i] = c.String()
	}
	return "CoordinateList:[" + strings.Join(parts, ", ") + "]"
}
