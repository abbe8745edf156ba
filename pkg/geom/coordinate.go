package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a planar position with optional elevation (Z) and measure (M).
// The zero value is (0, 0) with Z and M absent.
//
// Coordinate is a plain value: assigning it copies it. Clone exists for
// callers that want to make the copy explicit.
type Coordinate struct {
	X, Y float64
	Z    Ordinate
	M    Ordinate
}

// NewCoordinate returns the 2D coordinate (x, y).
func NewCoordinate(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y}
}

// NewCoordinateXYZ returns a coordinate carrying an elevation.
func NewCoordinateXYZ(x, y, z float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: Some(z)}
}

// NewCoordinateXYZM returns a coordinate carrying an elevation and a measure.
func NewCoordinateXYZM(x, y, z, m float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: Some(z), M: Some(m)}
}

// CoordinateFrom returns a deep copy of c. Absent ordinates stay absent.
func CoordinateFrom(c Coordinate) Coordinate {
	return Coordinate{X: c.X, Y: c.Y, Z: c.Z, M: c.M}
}

// ParseCoordinate builds a coordinate from textual ordinates. zm holds the
// optional z and m values in that order; an empty string leaves the ordinate
// absent.
func ParseCoordinate(x, y string, zm ...string) (Coordinate, error) {
	if len(zm) > 2 {
		return Coordinate{}, fmt.Errorf("%w: expected at most 4 ordinates, got %d", ErrInvalidOrdinate, 2+len(zm))
	}
	var c Coordinate
	var err error
	if c.X, err = parseOrdinate("x", x); err != nil {
		return Coordinate{}, err
	}
	if c.Y, err = parseOrdinate("y", y); err != nil {
		return Coordinate{}, err
	}
	names := [2]string{"z", "m"}
	for i, s := range zm {
		if strings.TrimSpace(s) == "" {
			continue
		}
		v, err := parseOrdinate(names[i], s)
		if err != nil {
			return Coordinate{}, err
		}
		if i == 0 {
			c.Z = Some(v)
		} else {
			c.M = Some(v)
		}
	}
	return c, nil
}

func parseOrdinate(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidOrdinate, name, s)
	}
	return v, nil
}

// SetCoordinate copies all four ordinates of other into c.
func (c *Coordinate) SetCoordinate(other Coordinate) {
	c.X = other.X
	c.Y = other.Y
	c.Z = other.Z
	c.M = other.M
}

func (c Coordinate) Clone() Coordinate {
	return CoordinateFrom(c)
}

func (c Coordinate) HasZ() bool { return c.Z.Valid }

func (c Coordinate) HasM() bool { return c.M.Valid }

// SameDimension reports whether c and other agree on the presence of Z.
// M is not considered.
func (c Coordinate) SameDimension(other Coordinate) bool {
	return c.Z.Valid == other.Z.Valid
}

// Distance is the Euclidean distance to other. The z term is included only
// when both coordinates carry Z.
func (c Coordinate) Distance(other Coordinate) float64 {
	dx := c.X - other.X
	dy := c.Y - other.Y
	dz := 0.0
	if c.Z.Valid && other.Z.Valid {
		dz = c.Z.Value - other.Z.Value
	}
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Equals2D reports exact equality of X and Y.
func (c Coordinate) Equals2D(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// Equals is Equals2D plus, when c carries Z, an exact Z match. The check is
// asymmetric: a 2D receiver ignores whatever Z other carries.
func (c Coordinate) Equals(other Coordinate) bool {
	if !c.Equals2D(other) {
		return false
	}
	if c.Z.Valid {
		return other.Z.Valid && c.Z.Value == other.Z.Value
	}
	return true
}

// Compare orders coordinates by X, then Y, then Z when both carry it.
// It returns -1, 0 or 1. NaN ordinates are not supported.
func (c Coordinate) Compare(other Coordinate) int {
	switch {
	case c.X < other.X:
		return -1
	case c.X > other.X:
		return 1
	case c.Y < other.Y:
		return -1
	case c.Y > other.Y:
		return 1
	}
	if c.Z.Valid && other.Z.Valid {
		switch {
		case c.Z.Value < other.Z.Value:
			return -1
		case c.Z.Value > other.Z.Value:
			return 1
		}
	}
	return 0
}

// String renders "(x, y[,z][,m])".
func (c Coordinate) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(formatFloat(c.X))
	b.WriteString(", ")
	b.WriteString(formatFloat(c.Y))
	if c.Z.Valid {
		b.WriteByte(',')
		b.WriteString(formatFloat(c.Z.Value))
	}
	if c.M.Valid {
		b.WriteByte(',')
		b.WriteString(formatFloat(c.M.Value))
	}
	b.WriteByte(')')
	return b.String()
}

// corner helpers shared by Envelope

func minCorner(a, b Coordinate) Coordinate {
	out := Coordinate{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
	if a.Z.Valid && b.Z.Valid {
		out.Z = Some(math.Min(a.Z.Value, b.Z.Value))
	}
	return out
}

func maxCorner(a, b Coordinate) Coordinate {
	out := Coordinate{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
	if a.Z.Valid && b.Z.Valid {
		out.Z = Some(math.Max(a.Z.Value, b.Z.Value))
	}
	return out
}
