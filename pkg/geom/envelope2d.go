package geom

import (
	"math"
	"strings"
)

// Envelope2D is a planar axis-aligned box stored as four bounds. It is null
// when MaxX < MinX; SetToNull uses MinX=0, MaxX=-1, MinY=0, MaxY=-1.
//
// As with Envelope, the zero value is the degenerate box at the origin.
type Envelope2D struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

func NewNullEnvelope2D() *Envelope2D {
	e := &Envelope2D{}
	e.SetToNull()
	return e
}

// NewEnvelope2D returns the box spanning x1..x2 and y1..y2, in any order.
func NewEnvelope2D(x1, x2, y1, y2 float64) *Envelope2D {
	e := &Envelope2D{}
	e.InitFromValues(x1, x2, y1, y2)
	return e
}

// NewEnvelope2DFromCoordinate returns the degenerate box at p.
func NewEnvelope2DFromCoordinate(p Coordinate) *Envelope2D {
	e := &Envelope2D{}
	e.InitFromCoordinate(p)
	return e
}

// NewEnvelope2DFromCoordinates returns the box spanned by p1 and p2. Z is
// ignored.
func NewEnvelope2DFromCoordinates(p1, p2 Coordinate) *Envelope2D {
	e := &Envelope2D{}
	e.InitFromCoordinates(p1, p2)
	return e
}

func NewEnvelope2DFrom(other *Envelope2D) *Envelope2D {
	e := &Envelope2D{}
	e.InitFromEnvelope2D(other)
	return e
}

// Envelope2DOf folds the x/y of coords into a planar envelope, null for an
// empty slice.
func Envelope2DOf(coords []Coordinate) *Envelope2D {
	e := NewNullEnvelope2D()
	for _, c := range coords {
		e.ExpandToIncludeCoordinate(c)
	}
	return e
}

func (e *Envelope2D) InitFromValues(x1, x2, y1, y2 float64) {
	if x1 < x2 {
		e.MinX, e.MaxX = x1, x2
	} else {
		e.MinX, e.MaxX = x2, x1
	}
	if y1 < y2 {
		e.MinY, e.MaxY = y1, y2
	} else {
		e.MinY, e.MaxY = y2, y1
	}
}

func (e *Envelope2D) InitFromCoordinates(p1, p2 Coordinate) {
	e.InitFromValues(p1.X, p2.X, p1.Y, p2.Y)
}

func (e *Envelope2D) InitFromCoordinate(p Coordinate) {
	e.InitFromValues(p.X, p.X, p.Y, p.Y)
}

func (e *Envelope2D) InitFromEnvelope2D(other *Envelope2D) {
	*e = *other
}

func (e *Envelope2D) SetToNull() {
	e.MinX, e.MaxX = 0, -1
	e.MinY, e.MaxY = 0, -1
}

func (e *Envelope2D) IsNull() bool {
	return e.MaxX < e.MinX
}

func (e *Envelope2D) Width() float64 {
	if e.IsNull() {
		return 0
	}
	return e.MaxX - e.MinX
}

func (e *Envelope2D) Height() float64 {
	if e.IsNull() {
		return 0
	}
	return e.MaxY - e.MinY
}

func (e *Envelope2D) Area() float64 {
	return e.Width() * e.Height()
}

// ExpandToIncludeValues grows e to cover (x, y). A null e becomes the point.
func (e *Envelope2D) ExpandToIncludeValues(x, y float64) {
	if e.IsNull() {
		e.MinX, e.MaxX = x, x
		e.MinY, e.MaxY = y, y
		return
	}
	e.MinX = math.Min(e.MinX, x)
	e.MaxX = math.Max(e.MaxX, x)
	e.MinY = math.Min(e.MinY, y)
	e.MaxY = math.Max(e.MaxY, y)
}

func (e *Envelope2D) ExpandToIncludeCoordinate(p Coordinate) {
	e.ExpandToIncludeValues(p.X, p.Y)
}

// ExpandToIncludeEnvelope grows e to cover other; a null other is ignored.
func (e *Envelope2D) ExpandToIncludeEnvelope(other *Envelope2D) {
	if other.IsNull() {
		return
	}
	if e.IsNull() {
		*e = *other
		return
	}
	e.MinX = math.Min(e.MinX, other.MinX)
	e.MaxX = math.Max(e.MaxX, other.MaxX)
	e.MinY = math.Min(e.MinY, other.MinY)
	e.MaxY = math.Max(e.MaxY, other.MaxY)
}

func (e *Envelope2D) ExpandBy(distance float64) {
	e.ExpandByDistances(distance, distance)
}

// ExpandByDistances grows (or with negative deltas shrinks) each axis on both
// sides. Shrinking past the opposite bound makes e null.
func (e *Envelope2D) ExpandByDistances(dx, dy float64) {
	if e.IsNull() {
		return
	}
	e.MinX -= dx
	e.MaxX += dx
	e.MinY -= dy
	e.MaxY += dy
	if e.MinX > e.MaxX || e.MinY > e.MaxY {
		e.SetToNull()
	}
}

func (e *Envelope2D) Translate(dx, dy float64) {
	if e.IsNull() {
		return
	}
	e.InitFromValues(e.MinX+dx, e.MaxX+dx, e.MinY+dy, e.MaxY+dy)
}

// Centre returns the midpoint; ok is false for a null envelope.
func (e *Envelope2D) Centre() (c Coordinate, ok bool) {
	if e.IsNull() {
		return Coordinate{}, false
	}
	return NewCoordinate((e.MinX+e.MaxX)/2, (e.MinY+e.MaxY)/2), true
}

// Intersection returns the overlap as a new envelope, null when there is none.
func (e *Envelope2D) Intersection(other *Envelope2D) *Envelope2D {
	if e.IsNull() || other.IsNull() || !e.IntersectsEnvelope(other) {
		return NewNullEnvelope2D()
	}
	return NewEnvelope2D(
		math.Max(e.MinX, other.MinX), math.Min(e.MaxX, other.MaxX),
		math.Max(e.MinY, other.MinY), math.Min(e.MaxY, other.MaxY),
	)
}

func (e *Envelope2D) IntersectsEnvelope(other *Envelope2D) bool {
	if e.IsNull() || other.IsNull() {
		return false
	}
	return !(other.MinX > e.MaxX || other.MaxX < e.MinX ||
		other.MinY > e.MaxY || other.MaxY < e.MinY)
}

func (e *Envelope2D) IntersectsCoordinate(p Coordinate) bool {
	return e.IntersectsValues(p.X, p.Y)
}

func (e *Envelope2D) IntersectsValues(x, y float64) bool {
	if e.IsNull() {
		return false
	}
	return !(x > e.MaxX || x < e.MinX || y > e.MaxY || y < e.MinY)
}

// ContainsEnvelope is CoversEnvelope; the boundary counts as inside.
func (e *Envelope2D) ContainsEnvelope(other *Envelope2D) bool {
	return e.CoversEnvelope(other)
}

func (e *Envelope2D) ContainsCoordinate(p Coordinate) bool {
	return e.CoversCoordinate(p)
}

func (e *Envelope2D) ContainsValues(x, y float64) bool {
	return e.CoversValues(x, y)
}

// CoversValues reports whether (x, y) lies in or on e.
func (e *Envelope2D) CoversValues(x, y float64) bool {
	if e.IsNull() {
		return false
	}
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

func (e *Envelope2D) CoversCoordinate(p Coordinate) bool {
	return e.CoversValues(p.X, p.Y)
}

func (e *Envelope2D) CoversEnvelope(other *Envelope2D) bool {
	if e.IsNull() || other.IsNull() {
		return false
	}
	return other.MinX >= e.MinX && other.MaxX <= e.MaxX &&
		other.MinY >= e.MinY && other.MaxY <= e.MaxY
}

// Distance is 0 for intersecting envelopes and otherwise the Euclidean gap
// between them. When they overlap on one axis only the gap on the other axis
// is returned. NaN if either envelope is null.
func (e *Envelope2D) Distance(other *Envelope2D) float64 {
	if e.IsNull() || other.IsNull() {
		return math.NaN()
	}
	if e.IntersectsEnvelope(other) {
		return 0
	}
	dx := 0.0
	if e.MaxX < other.MinX {
		dx = other.MinX - e.MaxX
	} else if e.MinX > other.MaxX {
		dx = e.MinX - other.MaxX
	}
	dy := 0.0
	if e.MaxY < other.MinY {
		dy = other.MinY - e.MaxY
	} else if e.MinY > other.MaxY {
		dy = e.MinY - other.MaxY
	}
	if dx == 0 {
		return dy
	}
	if dy == 0 {
		return dx
	}
	return math.Hypot(dx, dy)
}

// Equals reports whether both are null or all four bounds match.
func (e *Envelope2D) Equals(other *Envelope2D) bool {
	if e.IsNull() {
		return other.IsNull()
	}
	return e.MinX == other.MinX && e.MaxX == other.MaxX &&
		e.MinY == other.MinY && e.MaxY == other.MaxY
}

func (e *Envelope2D) Clone() *Envelope2D {
	return NewEnvelope2DFrom(e)
}

// String renders "Env[minx : maxx, miny : maxy]".
func (e *Envelope2D) String() string {
	var b strings.Builder
	b.WriteString("Env[")
	b.WriteString(formatFloat(e.MinX))
	b.WriteString(" : ")
	b.WriteString(formatFloat(e.MaxX))
	b.WriteString(", ")
	b.WriteString(formatFloat(e.MinY))
	b.WriteString(" : ")
	b.WriteString(formatFloat(e.MaxY))
	b.WriteByte(']')
	return b.String()
}

// PointInSegmentEnvelope reports whether q lies in or on the box spanned by
// p1 and p2.
func PointInSegmentEnvelope(p1, p2, q Coordinate) bool {
	return NewEnvelope2DFromCoordinates(p1, p2).CoversCoordinate(q)
}

// SegmentEnvelopesIntersect reports whether the box spanned by p1, p2 and the
// box spanned by q1, q2 share a point.
func SegmentEnvelopesIntersect(p1, p2, q1, q2 Coordinate) bool {
	return NewEnvelope2DFromCoordinates(p1, p2).IntersectsEnvelope(NewEnvelope2DFromCoordinates(q1, q2))
}
