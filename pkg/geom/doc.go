// Package geom holds the foundational geometric value types: Coordinate,
// CoordinateList, Envelope and Envelope2D.
//
// Envelope is dimension aware: its corners either both carry a z ordinate or
// neither does, and every operation that combines a 2D operand with a 3D one
// degrades to a no-op or to the null envelope instead of failing. Envelope2D
// is the strictly planar variant with its bounds stored as four exported
// fields.
//
// Envelopes store private copies of their corner coordinates. A Coordinate
// passed to a constructor or read back through MinCoordinate/MaxCoordinate is
// never shared with the envelope afterwards.
//
// Contains and Covers are both boundary inclusive. This is not the SFS
// definition of contains.
package geom
