package geom

import "math"

// Envelope is an axis-aligned box given by a minimum and a maximum corner.
// Both corners carry Z or neither does; the box is 3D in the first case and
// 2D in the second. M is never stored on a corner.
//
// The null envelope is the empty region. It is represented by any pair whose
// min orders after its max; SetToNull uses min=(0,-1), max=(-1,0). The zero
// value of Envelope is not null: it is the degenerate box at the origin, so
// start from NewNullEnvelope when folding.
type Envelope struct {
	min, max Coordinate
}

// NewNullEnvelope returns the null envelope.
func NewNullEnvelope() *Envelope {
	e := &Envelope{}
	e.SetToNull()
	return e
}

// NewEnvelope returns the box spanned by p1 and p2. The corners are ordered
// per axis. When exactly one of p1, p2 carries Z the result is null.
func NewEnvelope(p1, p2 Coordinate) *Envelope {
	e := &Envelope{}
	e.InitFromCoordinates(p1, p2)
	return e
}

// NewEnvelopeFrom returns a copy of other.
func NewEnvelopeFrom(other *Envelope) *Envelope {
	e := &Envelope{}
	e.InitFromEnvelope(other)
	return e
}

// NewEnvelopeFrom2D lifts a planar envelope into a 2D Envelope.
func NewEnvelopeFrom2D(other *Envelope2D) *Envelope {
	e := &Envelope{}
	e.InitFromEnvelope2D(other)
	return e
}

// EnvelopeOf folds coords into an envelope. The first coordinate fixes the
// dimension; later coordinates of the other dimension are skipped. An empty
// slice yields the null envelope.
func EnvelopeOf(coords []Coordinate) *Envelope {
	if len(coords) == 0 {
		return NewNullEnvelope()
	}
	e := NewEnvelope(coords[0], coords[0])
	for _, c := range coords[1:] {
		e.ExpandToIncludeCoordinate(c)
	}
	return e
}

func (e *Envelope) InitFromCoordinates(p1, p2 Coordinate) {
	if !p1.SameDimension(p2) {
		e.SetToNull()
		return
	}
	e.min = minCorner(p1, p2)
	e.max = maxCorner(p1, p2)
}

func (e *Envelope) InitFromEnvelope(other *Envelope) {
	e.min = other.min
	e.max = other.max
}

func (e *Envelope) InitFromEnvelope2D(other *Envelope2D) {
	if other.IsNull() {
		e.SetToNull()
		return
	}
	e.min = NewCoordinate(other.MinX, other.MinY)
	e.max = NewCoordinate(other.MaxX, other.MaxY)
}

// SetToNull makes e the null envelope.
func (e *Envelope) SetToNull() {
	e.min = NewCoordinate(0, -1)
	e.max = NewCoordinate(-1, 0)
}

// IsNull reports whether min orders after max.
func (e *Envelope) IsNull() bool {
	return e.min.Compare(e.max) > 0
}

// Is3D reports whether the corners carry Z.
func (e *Envelope) Is3D() bool {
	return e.min.Z.Valid && e.max.Z.Valid
}

// SameDimension reports whether e and other agree on carrying Z.
func (e *Envelope) SameDimension(other *Envelope) bool {
	return e.min.SameDimension(other.min)
}

// MinCoordinate returns a copy of the minimum corner.
func (e *Envelope) MinCoordinate() Coordinate { return e.min }

// MaxCoordinate returns a copy of the maximum corner.
func (e *Envelope) MaxCoordinate() Coordinate { return e.max }

func (e *Envelope) Width() float64 {
	if e.IsNull() {
		return 0
	}
	return e.max.X - e.min.X
}

func (e *Envelope) Height() float64 {
	if e.IsNull() {
		return 0
	}
	return e.max.Y - e.min.Y
}

// Depth is max z - min z, or 0 when null or 2D.
func (e *Envelope) Depth() float64 {
	if e.IsNull() || !e.Is3D() {
		return 0
	}
	return e.max.Z.Value - e.min.Z.Value
}

func (e *Envelope) Area() float64 {
	return e.Width() * e.Height()
}

// Volume is width*height*depth; it is 0 for null and 2D envelopes.
func (e *Envelope) Volume() float64 {
	return e.Width() * e.Height() * e.Depth()
}

// ExpandToIncludeCoordinate grows e to cover p. It does nothing when e is
// null or p does not match e's dimension.
func (e *Envelope) ExpandToIncludeCoordinate(p Coordinate) {
	if e.IsNull() || !e.min.SameDimension(p) {
		return
	}
	e.min = minCorner(e.min, p)
	e.max = maxCorner(e.max, p)
}

// ExpandToIncludeEnvelope grows e to cover other. A null other is ignored; a
// null e becomes a copy of other. Envelopes of different dimension are left
// alone.
func (e *Envelope) ExpandToIncludeEnvelope(other *Envelope) {
	if other.IsNull() {
		return
	}
	if e.IsNull() {
		e.InitFromEnvelope(other)
		return
	}
	if !e.SameDimension(other) {
		return
	}
	e.min = minCorner(e.min, other.min)
	e.max = maxCorner(e.max, other.max)
}

// ExpandBy grows every axis of e by distance on both sides. Negative values
// shrink; a box shrunk past itself becomes null.
func (e *Envelope) ExpandBy(distance float64) {
	if e.Is3D() {
		e.ExpandByDistancesXYZ(distance, distance, distance)
		return
	}
	e.ExpandByDistances(distance, distance)
}

// ExpandByDistances grows x and y independently. Z is untouched.
func (e *Envelope) ExpandByDistances(dx, dy float64) {
	if e.IsNull() {
		return
	}
	e.min.X -= dx
	e.max.X += dx
	e.min.Y -= dy
	e.max.Y += dy
	e.collapseIfInverted()
}

// ExpandByDistancesXYZ grows all three axes. dz is ignored on a 2D envelope.
func (e *Envelope) ExpandByDistancesXYZ(dx, dy, dz float64) {
	if e.IsNull() {
		return
	}
	e.min.X -= dx
	e.max.X += dx
	e.min.Y -= dy
	e.max.Y += dy
	if e.Is3D() {
		e.min.Z.Value -= dz
		e.max.Z.Value += dz
	}
	e.collapseIfInverted()
}

func (e *Envelope) collapseIfInverted() {
	inverted := e.min.X > e.max.X || e.min.Y > e.max.Y
	if e.Is3D() && e.min.Z.Value > e.max.Z.Value {
		inverted = true
	}
	if inverted {
		e.SetToNull()
	}
}

// Translate shifts both corners in x and y. A null envelope stays put.
func (e *Envelope) Translate(dx, dy float64) {
	if e.IsNull() {
		return
	}
	e.min.X += dx
	e.min.Y += dy
	e.max.X += dx
	e.max.Y += dy
}

// TranslateXYZ shifts both corners; dz applies only to a 3D envelope.
func (e *Envelope) TranslateXYZ(dx, dy, dz float64) {
	if e.IsNull() {
		return
	}
	e.Translate(dx, dy)
	if e.Is3D() {
		e.min.Z.Value += dz
		e.max.Z.Value += dz
	}
}

// Centre returns the midpoint of e. ok is false for the null envelope.
func (e *Envelope) Centre() (c Coordinate, ok bool) {
	if e.IsNull() {
		return Coordinate{}, false
	}
	c = NewCoordinate((e.min.X+e.max.X)/2, (e.min.Y+e.max.Y)/2)
	if e.Is3D() {
		c.Z = Some((e.min.Z.Value + e.max.Z.Value) / 2)
	}
	return c, true
}

// Intersection returns the overlap of e and other as a new envelope. The
// result is null when either side is null, they are disjoint, or their
// dimensions differ.
func (e *Envelope) Intersection(other *Envelope) *Envelope {
	if e.IsNull() || other.IsNull() || !e.SameDimension(other) || !e.IntersectsEnvelope(other) {
		return NewNullEnvelope()
	}
	return &Envelope{
		min: maxCorner(e.min, other.min),
		max: minCorner(e.max, other.max),
	}
}

// IntersectsEnvelope reports whether the two boxes share at least one point.
func (e *Envelope) IntersectsEnvelope(other *Envelope) bool {
	if e.IsNull() || other.IsNull() || !e.SameDimension(other) {
		return false
	}
	if other.min.X > e.max.X || other.max.X < e.min.X ||
		other.min.Y > e.max.Y || other.max.Y < e.min.Y {
		return false
	}
	if e.Is3D() && (other.min.Z.Value > e.max.Z.Value || other.max.Z.Value < e.min.Z.Value) {
		return false
	}
	return true
}

// IntersectsCoordinate reports whether p lies in or on e.
func (e *Envelope) IntersectsCoordinate(p Coordinate) bool {
	return e.CoversCoordinate(p)
}

// ContainsEnvelope is CoversEnvelope: the boundary counts as inside.
func (e *Envelope) ContainsEnvelope(other *Envelope) bool {
	return e.CoversEnvelope(other)
}

// ContainsCoordinate is CoversCoordinate: the boundary counts as inside.
func (e *Envelope) ContainsCoordinate(p Coordinate) bool {
	return e.CoversCoordinate(p)
}

// CoversCoordinate reports whether p lies in the interior or on the boundary
// of e. A p of the other dimension is never covered.
func (e *Envelope) CoversCoordinate(p Coordinate) bool {
	if e.IsNull() || !e.min.SameDimension(p) {
		return false
	}
	if p.X < e.min.X || p.X > e.max.X || p.Y < e.min.Y || p.Y > e.max.Y {
		return false
	}
	if e.Is3D() && (p.Z.Value < e.min.Z.Value || p.Z.Value > e.max.Z.Value) {
		return false
	}
	return true
}

// CoversEnvelope reports whether other lies wholly in or on e.
func (e *Envelope) CoversEnvelope(other *Envelope) bool {
	if e.IsNull() || other.IsNull() || !e.SameDimension(other) {
		return false
	}
	return e.CoversCoordinate(other.min) && e.CoversCoordinate(other.max)
}

// Distance returns 0 for intersecting envelopes and otherwise the distance
// between a pair of facing corners, picked by coordinate order: e's max and
// other's min when e orders first, e's min and other's max when it orders
// last. This equals the true gap only for diagonally separated boxes; boxes
// that overlap on some axis report the corner distance, which is larger.
// When the order picks neither pair, the shorter corner distance is used.
//
// The result is NaN when either envelope is null or their dimensions differ.
func (e *Envelope) Distance(other *Envelope) float64 {
	if e.IsNull() || other.IsNull() || !e.SameDimension(other) {
		return math.NaN()
	}
	if e.IntersectsEnvelope(other) {
		return 0
	}
	if e.max.Compare(other.min) <= 0 {
		return e.max.Distance(other.min)
	}
	if e.min.Compare(other.max) >= 0 {
		return e.min.Distance(other.max)
	}
	return math.Min(e.max.Distance(other.min), e.min.Distance(other.max))
}

// Equals reports whether both envelopes are null, or both share dimension and
// corners.
func (e *Envelope) Equals(other *Envelope) bool {
	if e.IsNull() {
		return other.IsNull()
	}
	if other.IsNull() || !e.SameDimension(other) {
		return false
	}
	return e.min.Equals(other.min) && e.max.Equals(other.max)
}

func (e *Envelope) Clone() *Envelope {
	return NewEnvelopeFrom(e)
}

// String renders "Env[min, max]".
func (e *Envelope) String() string {
	return "Env[" + e.min.String() + ", " + e.max.String() + "]"
}
